package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/csye-webapp/webapp/internal/common"
	"github.com/csye-webapp/webapp/internal/dbx"
	"github.com/csye-webapp/webapp/internal/logging"
	"github.com/csye-webapp/webapp/internal/metrics"
	"github.com/csye-webapp/webapp/internal/server/repositories/repomanager"
)

type VerificationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	metrics     metrics.Recorder
	logger      logging.Logger
	now         Clock
}

func NewVerificationService(db *sql.DB, m repomanager.RepositoryManager, rec metrics.Recorder, l logging.Logger) *VerificationService {
	return &VerificationService{db: db, repomanager: m, metrics: rec, logger: l, now: utcNow}
}

// Verify consumes token for email in one transaction. The verification row
// is locked, so of two concurrent calls with the same token the second sees
// it already verified. Any failure rolls the transaction back.
func (s *VerificationService) Verify(ctx context.Context, email, token string) error {
	start := time.Now()
	defer func() { s.metrics.RecordDBQueryTime("verifyEmail", time.Since(start)) }()

	var userID string
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		user, err := s.repomanager.Users(tx).GetByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrVerifyUserNotFound
			}
			return err
		}
		userID = user.ID

		verifications := s.repomanager.Verifications(tx)

		v, err := verifications.FindForUpdate(ctx, user.ID, user.Email, token)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrInvalidVerifyToken
			}
			return err
		}

		if v.IsVerified {
			return common.ErrAlreadyVerified
		}
		if v.Expired(s.now()) {
			return common.ErrVerificationExpired
		}

		return verifications.MarkVerified(ctx, v.ID)
	})
	if err != nil {
		return classify(err, common.ErrVerifyFailed)
	}

	s.logger.Info(ctx, "user verified", "user_id", userID)
	return nil
}
