package users

import (
	"context"

	"github.com/messagely/messagely/internal/server/models"
)

// Repository is the persistence contract of the identity store.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateLoginTimestamp(ctx context.Context, username string) error
	All(ctx context.Context) ([]*models.UserSummary, error)
	MessagesFrom(ctx context.Context, username string) ([]*models.SentMessage, error)
	MessagesTo(ctx context.Context, username string) ([]*models.ReceivedMessage, error)
}
