package verifications

import (
	"context"

	"github.com/csye-webapp/webapp/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, v *models.EmailVerification) (*models.EmailVerification, error)
	GetByUserID(ctx context.Context, userID string) (*models.EmailVerification, error)
	// FindForUpdate locks the matching row until the surrounding
	// transaction ends. It must be called on a transaction handle.
	FindForUpdate(ctx context.Context, userID, email, token string) (*models.EmailVerification, error)
	MarkVerified(ctx context.Context, id string) error
}
