package profilepics

import (
	"context"

	"github.com/csye-webapp/webapp/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, pic *models.ProfilePic) (*models.ProfilePic, error)
	GetByUserID(ctx context.Context, userID string) (*models.ProfilePic, error)
	DeleteByID(ctx context.Context, id string) error
}
