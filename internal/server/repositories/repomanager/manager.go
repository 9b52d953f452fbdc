// Package repomanager owns the database handle and hands out repositories
// bound to either the shared connection pool or a transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/taskboard/internal/dbx"
	"github.com/dmitrijs2005/taskboard/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/taskboard/internal/server/repositories/users"
)

type Manager interface {
	RunMigrations(ctx context.Context) error
	Conn() *sql.DB
	Users(db dbx.DBTX) users.Repository
	Tasks(db dbx.DBTX) tasks.Repository
	Close() error
}
