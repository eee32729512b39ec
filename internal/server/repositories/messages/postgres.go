// Package messages provides the PostgreSQL-backed repository for message
// rows and the double-join point lookup embedding both parties.
package messages

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/messagely/messagely/internal/common"
	"github.com/messagely/messagely/internal/dbx"
	"github.com/messagely/messagely/internal/server/models"
)

// PostgresRepository implements message storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a message with sent_at set by the database and read_at
// null. An unknown sender or recipient fails on the foreign key
// constraint; the driver error is passed through wrapped, not translated.
func (r *PostgresRepository) Create(ctx context.Context, msg *models.Message) (*models.Message, error) {

	query :=
		`INSERT INTO messages (from_username, to_username, body, sent_at)
		 VALUES ($1, $2, $3, current_timestamp)
		 RETURNING id, sent_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		msg.FromUsername, msg.ToUsername, msg.Body).Scan(&msg.ID, &msg.SentAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return msg, nil
}

// MarkRead sets read_at to the current instant. Re-marking an already
// read message advances read_at rather than failing. Returns
// common.ErrorNotFound when no message has the given id.
func (r *PostgresRepository) MarkRead(ctx context.Context, id int64) error {
	query :=
		`UPDATE messages SET read_at = current_timestamp
		 WHERE id = $1
		 RETURNING id
		 `

	var updated int64
	err := r.db.QueryRowContext(ctx, query, id).Scan(&updated)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// Get returns the message with both parties' profiles joined in as of
// lookup time. Returns common.ErrorNotFound when no message matches.
func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.MessageDetail, error) {
	query :=
		`SELECT m.id, m.body, m.sent_at, m.read_at,
		        f.username, f.first_name, f.last_name, f.phone,
		        t.username, t.first_name, t.last_name, t.phone
		 FROM messages AS m
		 JOIN users AS f ON m.from_username = f.username
		 JOIN users AS t ON m.to_username = t.username
		 WHERE m.id = $1
		 `

	detail := &models.MessageDetail{}
	var readAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&detail.ID, &detail.Body, &detail.SentAt, &readAt,
		&detail.From.Username, &detail.From.FirstName, &detail.From.LastName, &detail.From.Phone,
		&detail.To.Username, &detail.To.FirstName, &detail.To.LastName, &detail.To.Phone,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if readAt.Valid {
		detail.ReadAt = &readAt.Time
	}

	return detail, nil
}
