// Package rest exposes the account services over HTTP.
package rest

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/csye-webapp/webapp/internal/logging"
	"github.com/csye-webapp/webapp/internal/metrics"
	"github.com/csye-webapp/webapp/internal/server/models"
	"github.com/csye-webapp/webapp/internal/server/validation"
)

type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	CheckEmailVerified(ctx context.Context, user *models.User) error
}

type UserService interface {
	Register(ctx context.Context, r validation.Registration) (*models.User, error)
	GetSelf(ctx context.Context, userID string) (*models.User, error)
	Update(ctx context.Context, userID string, u validation.Update) error
}

type ProfilePicService interface {
	Add(ctx context.Context, userID, originalName string, body io.Reader) (*models.ProfilePic, error)
	Get(ctx context.Context, userID string) (*models.ProfilePic, error)
	Delete(ctx context.Context, userID string) error
}

type Verifier interface {
	Verify(ctx context.Context, email, token string) error
}

type Readiness interface {
	Ready(ctx context.Context) error
}

// Services bundles the use cases the HTTP surface dispatches to.
type Services struct {
	Auth         Authenticator
	Users        UserService
	ProfilePics  ProfilePicService
	Verification Verifier
	Health       Readiness
}

type Options struct {
	RequireVerifiedEmail bool
	ShutdownTimeout      time.Duration
}

type Server struct {
	address string
	logger  logging.Logger
	metrics metrics.Recorder
	svc     Services
	opts    Options
}

func NewServer(address string, l logging.Logger, rec metrics.Recorder, svc Services, opts Options) *Server {
	return &Server{
		address: address,
		logger:  l.With("module", "http_server"),
		metrics: rec,
		svc:     svc,
		opts:    opts,
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests for at
// most ShutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	stopped := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		stopped <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return <-stopped
}
