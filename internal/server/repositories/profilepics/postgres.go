// Package profilepics stores profile picture metadata in PostgreSQL.
package profilepics

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/csye-webapp/webapp/internal/common"
	"github.com/csye-webapp/webapp/internal/dbx"
	"github.com/csye-webapp/webapp/internal/server/models"
	"github.com/google/uuid"
)

var newID = uuid.NewString

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts pic. A second picture for the same user violates the
// UNIQUE(user_id) constraint and yields common.ErrorAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, pic *models.ProfilePic) (*models.ProfilePic, error) {
	query :=
		`INSERT INTO profile_pic (id, file_name, url, upload_date, user_id)
		 VALUES ($1, $2, $3, $4, $5)`

	id := pic.ID
	if id == "" {
		id = newID()
	}

	_, err := r.db.ExecContext(ctx, query, id, pic.FileName, pic.URL, pic.UploadDate, pic.UserID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	pic.ID = id
	return pic, nil
}

func (r *PostgresRepository) GetByUserID(ctx context.Context, userID string) (*models.ProfilePic, error) {
	query :=
		`SELECT id, file_name, url, upload_date, user_id
		 FROM profile_pic WHERE user_id = $1`

	pic := &models.ProfilePic{}
	err := r.db.QueryRowContext(ctx, query, userID).
		Scan(&pic.ID, &pic.FileName, &pic.URL, &pic.UploadDate, &pic.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return pic, nil
}

func (r *PostgresRepository) DeleteByID(ctx context.Context, id string) error {
	query := `DELETE FROM profile_pic WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
