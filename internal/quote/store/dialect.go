package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/michaelschaepers/coolsulting-testing-area/internal/quote"
)

// dialect isolates the SQL differences between the two backends. Queries are
// written with ? placeholders and rebound per dialect.
type dialect interface {
	rebind(query string) string
	// like returns the case-insensitive substring operator.
	like() string
	// month renders a timestamp column as YYYY-MM.
	month(col string) string
	// num casts a stored amount for arithmetic and ordering.
	num(col string) string
	timeValue(t time.Time) any
	// classify maps driver errors onto quote sentinels, or returns nil.
	classify(err error) error
}

type postgres struct{}

// rebind numbers ? placeholders as $1, $2, ... and leaves ? inside quoted
// literals alone.
func (postgres) rebind(query string) string {
	var b strings.Builder

	n := 0
	quoted := false

	for _, r := range query {
		switch {
		case r == '\'':
			quoted = !quoted
		case r == '?' && !quoted:
			n++
			b.WriteString("$" + strconv.Itoa(n))

			continue
		}

		b.WriteRune(r)
	}

	return b.String()
}

func (postgres) like() string { return "ILIKE" }

func (postgres) month(col string) string {
	return fmt.Sprintf("to_char(%s AT TIME ZONE 'UTC', 'YYYY-MM')", col)
}

func (postgres) num(col string) string { return col }

func (postgres) timeValue(t time.Time) any { return t.UTC() }

func (postgres) classify(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return quote.ErrConflict
		case "57P01", "57P03", "53300":
			return quote.ErrUnavailable
		}

		return nil
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) || pgconn.Timeout(err) {
		return quote.ErrUnavailable
	}

	return nil
}

type sqlite struct{}

func (sqlite) rebind(query string) string { return query }

// LIKE in SQLite folds ASCII case only.
func (sqlite) like() string { return "LIKE" }

func (sqlite) month(col string) string {
	return fmt.Sprintf("strftime('%%Y-%%m', %s / 1000, 'unixepoch')", col)
}

func (sqlite) num(col string) string { return "CAST(" + col + " AS REAL)" }

func (sqlite) timeValue(t time.Time) any { return t.UTC().UnixMilli() }

func (sqlite) classify(err error) error {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		switch code {
		case sqlite3lib.SQLITE_CONSTRAINT_UNIQUE, sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY:
			return quote.ErrConflict
		}

		switch code & 0xff {
		case sqlite3lib.SQLITE_BUSY, sqlite3lib.SQLITE_LOCKED, sqlite3lib.SQLITE_CANTOPEN:
			return quote.ErrUnavailable
		}
	}

	if strings.Contains(strings.ToLower(err.Error()), "unique constraint failed") {
		return quote.ErrConflict
	}

	return nil
}

// wrap annotates err and attaches the matching quote sentinel.
func (s *Store) wrap(op string, err error) error {
	if err == nil {
		return nil
	}

	if sentinel := s.classify(err); sentinel != nil {
		return fmt.Errorf("%s: %w: %w", op, sentinel, err)
	}

	return fmt.Errorf("%s: %w", op, err)
}

func (s *Store) classify(err error) error {
	if sentinel := s.dialect.classify(err); sentinel != nil {
		return sentinel
	}

	var netErr net.Error

	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, driver.ErrBadConn),
		errors.Is(err, sql.ErrConnDone),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.As(err, &netErr):
		return quote.ErrUnavailable
	}

	return nil
}
