// Package sqlstore implements repository.Store on database/sql. The SQLite
// and PostgreSQL packages supply a Dialect and a *sql.DB; everything else,
// including the mapping between records and rows, lives here.
package sqlstore

import (
	"fmt"
	"strings"
	"time"

	"github.com/prn-tf/people/internal/domain"
)

// Dialect captures what differs between the supported databases.
type Dialect struct {
	// Name identifies the database ("sqlite", "postgres").
	Name string

	// Placeholder returns the bind parameter for the n-th argument (1-based).
	Placeholder func(n int) string

	// EncodeDate converts a calendar date to a driver value.
	EncodeDate func(d domain.CalendarDate) any

	// IsUniqueViolation reports whether err is a unique constraint violation.
	IsUniqueViolation func(err error) bool

	// IsForeignKeyViolation reports whether err is a foreign key violation.
	IsForeignKeyViolation func(err error) bool
}

// QuestionPlaceholder is the "?" style used by SQLite.
func QuestionPlaceholder(int) string { return "?" }

// DollarPlaceholder is the "$n" style used by PostgreSQL.
func DollarPlaceholder(n int) string { return fmt.Sprintf("$%d", n) }

// decodeDate converts a scanned date column to a calendar date. NULL becomes
// the zero date.
func decodeDate(v any) (domain.CalendarDate, error) {
	switch x := v.(type) {
	case nil:
		return domain.CalendarDate{}, nil
	case time.Time:
		return domain.DateOf(x.UTC()), nil
	case string:
		return domain.ParseDate(x)
	case []byte:
		return domain.ParseDate(string(x))
	default:
		return domain.CalendarDate{}, fmt.Errorf("unexpected date column type %T", v)
	}
}

// query accumulates SQL text and its arguments, numbering placeholders in
// the dialect's style.
type query struct {
	d    Dialect
	sb   strings.Builder
	args []any
}

func newQuery(d Dialect) *query {
	return &query{d: d}
}

func (q *query) write(parts ...string) *query {
	for _, p := range parts {
		q.sb.WriteString(p)
	}
	return q
}

// arg appends a bind parameter for v and returns its placeholder.
func (q *query) arg(v any) string {
	if d, ok := v.(domain.CalendarDate); ok {
		v = q.d.EncodeDate(d)
	}
	q.args = append(q.args, v)
	return q.d.Placeholder(len(q.args))
}

func (q *query) String() string {
	return q.sb.String()
}

// placeholders returns "p1, p2, ..." for values.
func (q *query) placeholders(values ...any) string {
	ps := make([]string, len(values))
	for i, v := range values {
		ps[i] = q.arg(v)
	}
	return strings.Join(ps, ", ")
}
