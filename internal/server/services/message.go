package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/messagely/messagely/internal/server/models"
	"github.com/messagely/messagely/internal/server/repositories/repomanager"
)

// MessageService is the message store: creation, read-state transition,
// and point lookup with both parties' profiles embedded. It depends on
// the identity store only through the foreign key constraints on
// from_username/to_username.
type MessageService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewMessageService constructs a MessageService over the shared DB handle.
func NewMessageService(db *sql.DB, m repomanager.RepositoryManager) *MessageService {
	return &MessageService{db: db, repomanager: m}
}

// CreateParams carries the fields of a new message. Sender and recipient
// may be equal; nothing rejects a self-message.
type CreateParams struct {
	FromUsername string
	ToUsername   string
	Body         string
}

// Create persists a message with sent_at set now and read_at null,
// returning the row including its assigned id. Unknown usernames fail on
// the foreign key constraint and propagate as the wrapped driver error.
func (s *MessageService) Create(ctx context.Context, p CreateParams) (*models.Message, error) {
	msg := &models.Message{
		FromUsername: p.FromUsername,
		ToUsername:   p.ToUsername,
		Body:         p.Body,
	}

	repo := s.repomanager.Messages(s.db)
	m, err := repo.Create(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("error creating message: %w", err)
	}
	return m, nil
}

// MarkRead stamps read_at with the current instant. Re-marking advances
// the timestamp (last write wins). Returns common.ErrorNotFound when no
// message has the given id.
func (s *MessageService) MarkRead(ctx context.Context, id int64) error {
	repo := s.repomanager.Messages(s.db)
	return repo.MarkRead(ctx, id)
}

// Get returns the message with both parties' current profiles embedded.
// Returns common.ErrorNotFound when the message does not exist.
func (s *MessageService) Get(ctx context.Context, id int64) (*models.MessageDetail, error) {
	repo := s.repomanager.Messages(s.db)
	return repo.Get(ctx, id)
}
