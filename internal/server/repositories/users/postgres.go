// Package users provides the PostgreSQL-backed repository for user rows
// and the join-based projections of a user's sent and received messages.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/messagely/messagely/internal/common"
	"github.com/messagely/messagely/internal/dbx"
	"github.com/messagely/messagely/internal/server/models"
)

// PostgresRepository implements user storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new user row. join_at and last_login_at are both set
// to the insertion instant by the database. A duplicate username fails
// on the primary key constraint; the driver error is passed through
// wrapped, not translated.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (username, password, first_name, last_name, phone, join_at, last_login_at)
		 VALUES ($1, $2, $3, $4, $5, current_timestamp, current_timestamp)
		 RETURNING join_at, last_login_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.Password, user.FirstName, user.LastName, user.Phone).
		Scan(&user.JoinAt, &user.LastLoginAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

// GetByUsername returns the full user row including the stored hash.
func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query :=
		`SELECT username, password, first_name, last_name, phone, join_at, last_login_at
		 FROM users
		 WHERE username = $1
		 `

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&user.Username, &user.Password, &user.FirstName, &user.LastName,
		&user.Phone, &user.JoinAt, &user.LastLoginAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

// UpdateLoginTimestamp sets last_login_at to the current instant.
// Returns common.ErrorNotFound when no such user exists.
func (r *PostgresRepository) UpdateLoginTimestamp(ctx context.Context, username string) error {
	query :=
		`UPDATE users SET last_login_at = current_timestamp
		 WHERE username = $1
		 RETURNING username
		 `

	var updated string
	err := r.db.QueryRowContext(ctx, query, username).Scan(&updated)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// All returns the basic profile of every user ordered by username.
func (r *PostgresRepository) All(ctx context.Context) ([]*models.UserSummary, error) {
	query :=
		`SELECT username, first_name, last_name, phone FROM users
		 ORDER BY username
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select users: %w", err)
	}
	defer rows.Close()

	var result []*models.UserSummary
	for rows.Next() {
		var item models.UserSummary
		if err := rows.Scan(&item.Username, &item.FirstName, &item.LastName, &item.Phone); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// MessagesFrom returns messages sent by username with the recipient's
// current profile joined in. Ordered by sent_at for determinism.
func (r *PostgresRepository) MessagesFrom(ctx context.Context, username string) ([]*models.SentMessage, error) {
	query :=
		`SELECT m.id, m.body, m.sent_at, m.read_at,
		        u.username, u.first_name, u.last_name, u.phone
		 FROM messages AS m
		 JOIN users AS u ON m.to_username = u.username
		 WHERE m.from_username = $1
		 ORDER BY m.sent_at
		 `

	rows, err := r.db.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("failed to select sent messages: %w", err)
	}
	defer rows.Close()

	var result []*models.SentMessage
	for rows.Next() {
		var item models.SentMessage
		var readAt sql.NullTime
		if err := rows.Scan(
			&item.ID, &item.Body, &item.SentAt, &readAt,
			&item.To.Username, &item.To.FirstName, &item.To.LastName, &item.To.Phone,
		); err != nil {
			return nil, err
		}
		if readAt.Valid {
			item.ReadAt = &readAt.Time
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// MessagesTo returns messages addressed to username with the sender's
// current profile joined in. Ordered by sent_at for determinism.
func (r *PostgresRepository) MessagesTo(ctx context.Context, username string) ([]*models.ReceivedMessage, error) {
	query :=
		`SELECT m.id, m.body, m.sent_at, m.read_at,
		        u.username, u.first_name, u.last_name, u.phone
		 FROM messages AS m
		 JOIN users AS u ON m.from_username = u.username
		 WHERE m.to_username = $1
		 ORDER BY m.sent_at
		 `

	rows, err := r.db.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("failed to select received messages: %w", err)
	}
	defer rows.Close()

	var result []*models.ReceivedMessage
	for rows.Next() {
		var item models.ReceivedMessage
		var readAt sql.NullTime
		if err := rows.Scan(
			&item.ID, &item.Body, &item.SentAt, &readAt,
			&item.From.Username, &item.From.FirstName, &item.From.LastName, &item.From.Phone,
		); err != nil {
			return nil, err
		}
		if readAt.Valid {
			item.ReadAt = &readAt.Time
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
