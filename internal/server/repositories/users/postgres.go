// Package users provides the PostgreSQL-backed user repository.
package users

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

// newID is a seam for tests.
var newID = uuid.NewString

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts user and fills in its ID. A taken email yields
// common.ErrorAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (id, first_name, last_name, email, password, account_created, account_updated)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`

	id := newID()
	_, err := r.db.ExecContext(ctx, query,
		id, user.FirstName, user.LastName, user.Email, user.Password, user.AccountCreated, user.AccountUpdated)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	user.ID = id
	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT id, first_name, last_name, email, password, account_created, account_updated
		 FROM users WHERE email = $1`

	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query :=
		`SELECT id, first_name, last_name, email, password, account_created, account_updated
		 FROM users WHERE id = $1`

	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// Update writes the non-nil fields of upd and always refreshes
// account_updated. A missing row yields common.ErrorNotFound.
func (r *PostgresRepository) Update(ctx context.Context, id string, upd models.UserUpdate) error {
	query :=
		`UPDATE users SET
		   first_name = COALESCE($2, first_name),
		   last_name = COALESCE($3, last_name),
		   password = COALESCE($4, password),
		   account_updated = $5
		 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, upd.FirstName, upd.LastName, upd.Password, upd.UpdatedAt)
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

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.Password,
		&user.AccountCreated, &user.AccountUpdated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}
