// Package httpapi exposes the identity and message stores over a JSON
// HTTP API. It owns request routing, token checks, and the mapping of
// store errors to status codes; the stores themselves stay transport-free.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/messagely/messagely/internal/logging"
	"github.com/messagely/messagely/internal/server/models"
	"github.com/messagely/messagely/internal/server/services"
)

// IdentityStore is the slice of UserService the HTTP layer consumes.
type IdentityStore interface {
	Register(ctx context.Context, p services.RegisterParams) (*models.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	All(ctx context.Context) ([]*models.UserSummary, error)
	Get(ctx context.Context, username string) (*models.User, error)
	MessagesFrom(ctx context.Context, username string) ([]*models.SentMessage, error)
	MessagesTo(ctx context.Context, username string) ([]*models.ReceivedMessage, error)
}

// MessageStore is the slice of MessageService the HTTP layer consumes.
type MessageStore interface {
	Create(ctx context.Context, p services.CreateParams) (*models.Message, error)
	MarkRead(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*models.MessageDetail, error)
}

// Server routes HTTP requests to the stores.
type Server struct {
	address   string
	users     IdentityStore
	messages  MessageStore
	logger    logging.Logger
	jwtSecret []byte
	mux       *http.ServeMux
}

// NewServer constructs a Server with routes configured.
func NewServer(a string, l logging.Logger, us IdentityStore, ms MessageStore, secretKey string) *Server {
	s := &Server{
		address:   a,
		logger:    l.With("module", "http_server"),
		users:     us,
		messages:  ms,
		jwtSecret: []byte(secretKey),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/login", s.handleLogin)

	mux.Handle("GET /users", s.authenticated(s.handleUsers))
	mux.Handle("GET /users/{username}", s.authenticated(s.handleUserDetail))
	mux.Handle("GET /users/{username}/to", s.authenticated(s.handleMessagesTo))
	mux.Handle("GET /users/{username}/from", s.authenticated(s.handleMessagesFrom))

	mux.Handle("POST /messages", s.authenticated(s.handleMessageCreate))
	mux.Handle("GET /messages/{id}", s.authenticated(s.handleMessageDetail))
	mux.Handle("POST /messages/{id}/read", s.authenticated(s.handleMessageRead))

	s.mux = mux
}

// Router returns the configured handler wrapped with the request-id and
// logging middleware.
func (s *Server) Router() http.Handler {
	return s.withRequestID(s.withRequestLog(s.mux))
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Router(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
