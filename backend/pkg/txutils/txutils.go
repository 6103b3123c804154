package txutils

import (
	"context"
	"database/sql"

	"github.com/romashorodok/html-parser/backend/internal/storage"
)

func WithTransaction(ctx context.Context, db *sql.DB, fn func(queries *storage.Queries) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	err = fn(storage.New(tx))
	return err
}
