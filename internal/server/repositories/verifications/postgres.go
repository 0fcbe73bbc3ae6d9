// Package verifications stores email verification tokens in PostgreSQL.
package verifications

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

func (r *PostgresRepository) Create(ctx context.Context, v *models.EmailVerification) (*models.EmailVerification, error) {
	query :=
		`INSERT INTO email_verifications (id, user_id, email, token, expires_at, is_verified)
		 VALUES ($1, $2, $3, $4, $5, $6)`

	id := newID()
	_, err := r.db.ExecContext(ctx, query, id, v.UserID, v.Email, v.Token, v.ExpiresAt, v.IsVerified)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	v.ID = id
	return v, nil
}

func (r *PostgresRepository) GetByUserID(ctx context.Context, userID string) (*models.EmailVerification, error) {
	query :=
		`SELECT id, user_id, email, token, expires_at, is_verified
		 FROM email_verifications WHERE user_id = $1`

	return scanOne(r.db.QueryRowContext(ctx, query, userID))
}

func (r *PostgresRepository) FindForUpdate(ctx context.Context, userID, email, token string) (*models.EmailVerification, error) {
	query :=
		`SELECT id, user_id, email, token, expires_at, is_verified
		 FROM email_verifications
		 WHERE user_id = $1 AND email = $2 AND token = $3
		 FOR UPDATE`

	return scanOne(r.db.QueryRowContext(ctx, query, userID, email, token))
}

func (r *PostgresRepository) MarkVerified(ctx context.Context, id string) error {
	query := `UPDATE email_verifications SET is_verified = TRUE WHERE id = $1`

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

func scanOne(row *sql.Row) (*models.EmailVerification, error) {
	v := &models.EmailVerification{}
	err := row.Scan(&v.ID, &v.UserID, &v.Email, &v.Token, &v.ExpiresAt, &v.IsVerified)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return v, nil
}
