package services

import (
	"context"
	"database/sql"
	"errors"
	"net/url"
	"time"

	"github.com/csye-webapp/webapp/internal/common"
	"github.com/csye-webapp/webapp/internal/dbx"
	"github.com/csye-webapp/webapp/internal/logging"
	"github.com/csye-webapp/webapp/internal/metrics"
	"github.com/csye-webapp/webapp/internal/server/models"
	"github.com/csye-webapp/webapp/internal/server/notify"
	"github.com/csye-webapp/webapp/internal/server/repositories/repomanager"
	"github.com/csye-webapp/webapp/internal/server/validation"
)

const verificationTokenBytes = 32

type UserServiceOptions struct {
	VerificationTokenTTL time.Duration
	PublicBaseURL        string
}

type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	publisher   notify.Publisher
	metrics     metrics.Recorder
	logger      logging.Logger
	opts        UserServiceOptions
	now         Clock
	newToken    func() (string, error)
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, p notify.Publisher,
	rec metrics.Recorder, l logging.Logger, opts UserServiceOptions) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		publisher:   p,
		metrics:     rec,
		logger:      l,
		opts:        opts,
		now:         utcNow,
		newToken:    func() (string, error) { return common.MakeRandHexString(verificationTokenBytes) },
	}
}

// Register validates r, stores the user together with a fresh
// verification token and then announces the token. A failed announcement
// is logged and does not undo the registration.
func (s *UserService) Register(ctx context.Context, r validation.Registration) (*models.User, error) {
	if err := validation.ValidateRegistration(r); err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() { s.metrics.RecordDBQueryTime("createUser", time.Since(start)) }()

	_, err := s.repomanager.Users(s.db).GetByEmail(ctx, r.Email)
	switch {
	case err == nil:
		return nil, common.ErrUserAlreadyExists
	case !errors.Is(err, common.ErrorNotFound):
		return nil, common.ErrServiceUnavailable.WithCause(err)
	}

	hash, err := hashPassword(r.Password)
	if err != nil {
		return nil, common.ErrServiceUnavailable.WithCause(err)
	}
	token, err := s.newToken()
	if err != nil {
		return nil, common.ErrServiceUnavailable.WithCause(err)
	}

	now := s.now()
	user := &models.User{
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Email:          r.Email,
		Password:       hash,
		AccountCreated: now,
		AccountUpdated: now,
	}

	var verification *models.EmailVerification
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		user, err = s.repomanager.Users(tx).Create(ctx, user)
		if err != nil {
			if errors.Is(err, common.ErrorAlreadyExists) {
				return common.ErrUserAlreadyExists
			}
			return err
		}

		verification, err = s.repomanager.Verifications(tx).Create(ctx, &models.EmailVerification{
			UserID:    user.ID,
			Email:     user.Email,
			Token:     token,
			ExpiresAt: now.Add(s.opts.VerificationTokenTTL),
		})
		return err
	})
	if err != nil {
		return nil, classify(err, common.ErrServiceUnavailable)
	}

	s.logger.Info(ctx, "user created", "user_id", user.ID)

	msg := notify.VerificationMessage{
		Email:  user.Email,
		Token:  verification.Token,
		UserID: user.ID,
		Link:   s.verificationLink(user.Email, verification.Token),
	}
	if err := s.publisher.PublishVerification(ctx, msg); err != nil {
		s.logger.Error(ctx, "verification publish failed", "user_id", user.ID, "error", err)
	}

	return user, nil
}

func (s *UserService) verificationLink(email, token string) string {
	q := url.Values{}
	q.Set("email", email)
	q.Set("token", token)
	return s.opts.PublicBaseURL + "/verify?" + q.Encode()
}

// GetSelf reloads the authenticated user.
func (s *UserService) GetSelf(ctx context.Context, userID string) (*models.User, error) {
	start := time.Now()
	defer func() { s.metrics.RecordDBQueryTime("getUserInfo", time.Since(start)) }()

	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, common.ErrServiceUnavailable.WithCause(err)
	}
	return user, nil
}

// Update applies the supplied fields of u to the user. Unsupplied columns
// keep their values; account_updated is always refreshed.
func (s *UserService) Update(ctx context.Context, userID string, u validation.Update) error {
	if err := validation.ValidateUpdate(u); err != nil {
		return err
	}

	upd := models.UserUpdate{
		FirstName: u.FirstName,
		LastName:  u.LastName,
		UpdatedAt: s.now(),
	}
	if u.Password != nil {
		hash, err := hashPassword(*u.Password)
		if err != nil {
			return common.ErrServiceUnavailable.WithCause(err)
		}
		upd.Password = &hash
	}

	start := time.Now()
	err := s.repomanager.Users(s.db).Update(ctx, userID, upd)
	s.metrics.RecordDBQueryTime("updateUser", time.Since(start))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrUserNotFound
		}
		return common.ErrServiceUnavailable.WithCause(err)
	}

	s.logger.Info(ctx, "user updated", "user_id", userID)
	return nil
}
