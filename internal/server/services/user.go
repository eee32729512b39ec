// Package services contains server-side business logic. This file implements
// UserService: the identity store. It owns credential hashing and
// verification, registration, login-timestamp bookkeeping, and the
// join-based projections of a user's sent and received messages.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/messagely/messagely/internal/common"
	"github.com/messagely/messagely/internal/cryptox"
	"github.com/messagely/messagely/internal/dbx"
	"github.com/messagely/messagely/internal/server/auth"
	"github.com/messagely/messagely/internal/server/config"
	"github.com/messagely/messagely/internal/server/models"
	"github.com/messagely/messagely/internal/server/repositories/repomanager"
)

// UserService provides identity operations:
// - Register: hash credentials and create users
// - Authenticate: boolean credential check
// - Login: verify credentials, stamp last_login_at, and mint a token
// - All / Get: user listings and detail
// - MessagesFrom / MessagesTo: message projections with the other party embedded
type UserService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	jwtSecret     []byte
	tokenValidity time.Duration
	bcryptCost    int
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:            db,
		repomanager:   m,
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidityDuration,
		bcryptCost:    cfg.BcryptCost,
	}
}

// RegisterParams carries the fields required to create a user. Password
// is plaintext here and hashed before it reaches storage.
type RegisterParams struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

// Register hashes the password with the configured work factor and
// inserts the user. Username uniqueness is enforced by the primary key;
// a duplicate surfaces as the wrapped driver error, not a pre-check.
func (s *UserService) Register(ctx context.Context, p RegisterParams) (*models.User, error) {
	hash, err := cryptox.HashPassword(p.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Username:  p.Username,
		Password:  hash,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Phone:     p.Phone,
	}

	repo := s.repomanager.Users(s.db)
	u, err := repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Authenticate reports whether username/password is a valid pair.
// An unknown user yields (false, nil), indistinguishable from a wrong
// password by return value. Storage failures propagate alongside false.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (bool, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("error looking up user: %w", err)
	}
	return cryptox.CheckPassword(password, user.Password), nil
}

// UpdateLoginTimestamp sets last_login_at to now. Returns
// common.ErrorNotFound when the user does not exist.
func (s *UserService) UpdateLoginTimestamp(ctx context.Context, username string) error {
	repo := s.repomanager.Users(s.db)
	return repo.UpdateLoginTimestamp(ctx, username)
}

// All returns every user's basic profile ordered by username.
func (s *UserService) All(ctx context.Context) ([]*models.UserSummary, error) {
	repo := s.repomanager.Users(s.db)
	return repo.All(ctx)
}

// Get returns the full profile including timestamps. Returns
// common.ErrorNotFound when the user does not exist.
func (s *UserService) Get(ctx context.Context, username string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)
	return repo.GetByUsername(ctx, username)
}

// MessagesFrom returns messages sent by username with the recipient's
// current profile embedded.
func (s *UserService) MessagesFrom(ctx context.Context, username string) ([]*models.SentMessage, error) {
	repo := s.repomanager.Users(s.db)
	return repo.MessagesFrom(ctx, username)
}

// MessagesTo returns messages addressed to username with the sender's
// current profile embedded.
func (s *UserService) MessagesTo(ctx context.Context, username string) ([]*models.ReceivedMessage, error) {
	repo := s.repomanager.Users(s.db)
	return repo.MessagesTo(ctx, username)
}

// Login verifies the credentials, stamps last_login_at in the same
// transaction as the lookup, and returns a signed bearer token. Unknown
// users and wrong passwords both yield common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		user, err := repo.GetByUsername(ctx, username)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorUnauthorized
			}
			return common.ErrorInternal
		}
		if !cryptox.CheckPassword(password, user.Password) {
			return common.ErrorUnauthorized
		}
		return repo.UpdateLoginTimestamp(ctx, username)
	}); err != nil {
		return "", err
	}

	token, err := auth.GenerateToken(username, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}
