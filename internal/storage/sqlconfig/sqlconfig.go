// Package sqlconfig holds helpers shared by the bob-backed tables.
package sqlconfig

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/lib/pq"
)

// uniqueViolation is the Postgres SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// Columns converts column names into select/returning expressions.
func Columns(names ...string) []any {
	cols := make([]any, len(names))
	for i, name := range names {
		cols[i] = name
	}
	return cols
}

// IsUniqueViolation reports whether err was raised by the named unique
// constraint. An empty constraint matches any unique violation.
func IsUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	if pqErr.Code != uniqueViolation {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

// ConnectionDetails are the parts of a Postgres DSN.
type ConnectionDetails struct {
	Username string
	Password string
	Address  string
	Port     string
	DB       string
	SSLMode  string
}

// DSN builds a postgres:// connection string.
func (c ConnectionDetails) DSN() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Username, c.Password),
		Host:     fmt.Sprintf("%s:%s", c.Address, c.Port),
		Path:     "/" + c.DB,
		RawQuery: "sslmode=" + url.QueryEscape(sslMode),
	}
	return u.String()
}
