package repomanager

import (
	"context"
	"database/sql"

	"github.com/kuryentech/gardian-admin/internal/dbx"
	"github.com/kuryentech/gardian-admin/internal/server/repositories/feedback"
	"github.com/kuryentech/gardian-admin/internal/server/repositories/refreshtokens"
	"github.com/kuryentech/gardian-admin/internal/server/repositories/reports"
	"github.com/kuryentech/gardian-admin/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Reports(db dbx.DBTX) reports.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Feedback(db dbx.DBTX) feedback.Repository
}
