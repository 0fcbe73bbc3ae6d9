package repomanager

import (
	"context"
	"database/sql"

	"github.com/csye-webapp/webapp/internal/dbx"
	"github.com/csye-webapp/webapp/internal/server/repositories/profilepics"
	"github.com/csye-webapp/webapp/internal/server/repositories/users"
	"github.com/csye-webapp/webapp/internal/server/repositories/verifications"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	ProfilePics(db dbx.DBTX) profilepics.Repository
	Verifications(db dbx.DBTX) verifications.Repository
}
