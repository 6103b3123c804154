package storage

import (
	"context"
	"database/sql"
	_ "embed"
)

//go:embed schema.sql
var schema string

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	PrepareContext(context.Context, string) (*sql.Stmt, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{
		db: tx,
	}
}

// Migrate creates the tables when they are missing.
func Migrate(ctx context.Context, db DBTX) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}
