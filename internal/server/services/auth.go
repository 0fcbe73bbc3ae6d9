package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/csye-webapp/webapp/internal/common"
	"github.com/csye-webapp/webapp/internal/logging"
	"github.com/csye-webapp/webapp/internal/metrics"
	"github.com/csye-webapp/webapp/internal/server/models"
	"github.com/csye-webapp/webapp/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	metrics     metrics.Recorder
	logger      logging.Logger
	now         Clock
}

func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, rec metrics.Recorder, l logging.Logger) *AuthService {
	return &AuthService{db: db, repomanager: m, metrics: rec, logger: l, now: utcNow}
}

// Authenticate resolves Basic-auth credentials to a user. Unknown email and
// wrong password are reported with different messages.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	start := time.Now()
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	s.metrics.RecordDBQueryTime("authenticateUser", time.Since(start))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Warn(ctx, "user not found")
			return nil, common.ErrUserNotFound
		}
		return nil, common.ErrServiceUnavailable.WithCause(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.logger.Warn(ctx, "authentication failed because of wrong password", "user_id", user.ID)
		return nil, common.ErrWrongPassword
	}

	return user, nil
}

// CheckEmailVerified fails with a Forbidden error unless user has consumed
// a verification token. An unconsumed token past its expiry gets its own
// message.
func (s *AuthService) CheckEmailVerified(ctx context.Context, user *models.User) error {
	v, err := s.repomanager.Verifications(s.db).GetByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Warn(ctx, "no verification record", "user_id", user.ID)
			return common.ErrEmailNotVerified
		}
		return common.ErrVerificationCheckFailed.WithCause(err)
	}

	if !v.IsVerified && v.Expired(s.now()) {
		s.logger.Warn(ctx, "expired verification", "user_id", user.ID)
		return common.ErrEmailVerificationExpired
	}
	if !v.IsVerified {
		s.logger.Warn(ctx, "unverified email", "user_id", user.ID)
		return common.ErrEmailNotVerified
	}
	return nil
}
