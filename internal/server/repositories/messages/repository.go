package messages

import (
	"context"

	"github.com/messagely/messagely/internal/server/models"
)

// Repository is the persistence contract of the message store.
type Repository interface {
	Create(ctx context.Context, msg *models.Message) (*models.Message, error)
	MarkRead(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*models.MessageDetail, error)
}
