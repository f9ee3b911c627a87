package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolationCode = "23505"

// isUniqueViolation reports whether err is a postgres duplicate-key error.
// Duplicate keys raised at commit are the race arbiter for assignment
// conflicts, so repositories translate them instead of passing them through.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// placeholderList appends values to args and returns the matching "$n, $m"
// placeholder list for an IN condition.
func placeholderList(args *[]interface{}, values []string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		*args = append(*args, v)
		parts[i] = fmt.Sprintf("$%d", len(*args))
	}
	return strings.Join(parts, ", ")
}

// inTx runs fn inside a database transaction, rolling back on error.
func inTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
