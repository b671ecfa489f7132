// Package postgres implements the domain repositories on top of pgx.
package postgres

import (
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/artem13815/hr-crm/pkg/auth"
	"github.com/artem13815/hr-crm/pkg/dateonly"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// row is satisfied by both pgx.Row and pgx.Rows.
type row interface {
	Scan(dest ...any) error
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool { return pgCode(err) == codeUniqueViolation }

func isForeignKeyViolation(err error) bool { return pgCode(err) == codeForeignKeyViolation }

// nullable maps "" to NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func dateArg(d *dateonly.Date) *time.Time { return dateonly.Time(d) }

func dateOf(t *time.Time) *dateonly.Date { return dateonly.FromTime(t) }

// displayName follows auth.User.FullName for joined user columns.
func displayName(first, last, email *string) string {
	if email == nil {
		return ""
	}
	u := auth.User{FirstName: deref(first), LastName: deref(last), Email: *email}
	return u.FullName()
}
