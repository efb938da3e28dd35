package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/prn-tf/people/internal/domain"
	"github.com/prn-tf/people/internal/repository"
)

// execer is the subset of *sql.Tx the store uses.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store implements repository.Store inside one transaction.
type Store struct {
	tx      execer
	dialect Dialect
	logger  zerolog.Logger
}

// NewStore creates a store bound to tx.
func NewStore(tx execer, dialect Dialect, logger zerolog.Logger) *Store {
	return &Store{tx: tx, dialect: dialect, logger: logger}
}

var _ repository.Store = (*Store)(nil)

// =============================================================================
// Add
// =============================================================================

// Add stores rec and assigns its ID.
func (s *Store) Add(ctx context.Context, rec domain.Record) error {
	switch r := rec.(type) {
	case *domain.User:
		return s.addUser(ctx, r)
	case *domain.Person:
		if err := validatePerson(r); err != nil {
			return err
		}
		return s.insertRecord(ctx, "persons", personColumns[1:], personValues(r), &r.ID)
	case *domain.Credential:
		return s.insertRecord(ctx, "logins", loginColumns[1:], loginValues(r), &r.ID)
	case *domain.Contact:
		return s.insertRecord(ctx, "contacts", contactColumns[1:], contactValues(r), &r.ID)
	case *domain.PersonalID:
		return s.insertRecord(ctx, "personal_ids", personalIDColumns[1:], personalIDValues(r), &r.ID)
	case *domain.Location:
		return s.addLocation(ctx, r)
	case *domain.Coordinates:
		return s.upsert(ctx, "coordinates", coordinatesColumns[1:], []any{r.Latitude, r.Longitude}, &r.ID)
	case *domain.Timezone:
		return s.upsert(ctx, "timezones", timezoneColumns[1:], []any{r.Offset, r.Description}, &r.ID)
	case *domain.Nationality:
		return s.upsert(ctx, "nationalities", nationalityColumns[1:], []any{r.Code}, &r.ID)
	default:
		return fmt.Errorf("%w: %T", repository.ErrUnsupportedRecord, rec)
	}
}

func (s *Store) addUser(ctx context.Context, u *domain.User) error {
	if u.Person == nil || u.Login == nil || u.Contact == nil || u.Location == nil || u.PersonalID == nil {
		return domain.NewDomainError(domain.ErrRecordIncomplete, "user is missing a sub-record", "User")
	}
	if err := validatePerson(u.Person); err != nil {
		return err
	}

	var id int64
	if err := s.tx.QueryRowContext(ctx, "INSERT INTO users DEFAULT VALUES RETURNING id").Scan(&id); err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	u.SetID(id)

	for _, rec := range []domain.Record{u.Person, u.Login, u.Contact, u.PersonalID, u.Location} {
		if err := s.Add(ctx, rec); err != nil {
			return err
		}
	}

	s.logger.Debug().Int64("user_id", id).Msg("user added")
	return nil
}

func (s *Store) addLocation(ctx context.Context, l *domain.Location) error {
	if l.Coordinates == nil || l.Timezone == nil || l.Nationality == nil {
		return domain.NewDomainError(domain.ErrRecordIncomplete, "location is missing reference data", "Location")
	}
	for _, ref := range []domain.Record{l.Coordinates, l.Timezone, l.Nationality} {
		if err := s.Add(ctx, ref); err != nil {
			return err
		}
	}

	columns := append(append([]string{}, locationColumns[1:]...), "coordinates_id", "timezone_id", "nationality_id")
	values := []any{
		nullID(l.UserID), l.Street, l.City, l.State, l.Postcode,
		l.Coordinates.ID, l.Timezone.ID, l.Nationality.ID,
	}
	return s.insertRecord(ctx, "locations", columns, values, &l.ID)
}

// validatePerson rejects persons without a date of birth.
func validatePerson(p *domain.Person) error {
	if p.DateOfBirth.IsZero() {
		return domain.NewDomainError(domain.ErrInvalidDate, "date_of_birth is required", "Person")
	}
	return nil
}

// insertRecord inserts one row and stores the generated key in id.
func (s *Store) insertRecord(ctx context.Context, table string, columns []string, values []any, id *int64) error {
	q := newQuery(s.dialect)
	q.write("INSERT INTO ", table, " (", strings.Join(columns, ", "), ") VALUES (")
	q.write(q.placeholders(values...), ") RETURNING id")

	if err := s.tx.QueryRowContext(ctx, q.String(), q.args...).Scan(id); err != nil {
		return s.mapWriteError("insert into "+table, err)
	}
	return nil
}

// upsert inserts a shared reference row unless one with the same natural
// key exists, and stores the row's key in id either way.
func (s *Store) upsert(ctx context.Context, table string, key []string, values []any, id *int64) error {
	ins := newQuery(s.dialect)
	ins.write("INSERT INTO ", table, " (", strings.Join(key, ", "), ") VALUES (")
	ins.write(ins.placeholders(values...), ") ON CONFLICT (", strings.Join(key, ", "), ") DO NOTHING")
	if _, err := s.tx.ExecContext(ctx, ins.String(), ins.args...); err != nil {
		return s.mapWriteError("upsert into "+table, err)
	}

	sel := newQuery(s.dialect)
	sel.write("SELECT id FROM ", table, " WHERE ")
	for i, col := range key {
		if i > 0 {
			sel.write(" AND ")
		}
		sel.write(col, " = ", sel.arg(values[i]))
	}
	if err := s.tx.QueryRowContext(ctx, sel.String(), sel.args...).Scan(id); err != nil {
		return fmt.Errorf("failed to select %s id: %w", table, err)
	}
	return nil
}

func (s *Store) mapWriteError(op string, err error) error {
	switch {
	case s.dialect.IsUniqueViolation(err):
		return fmt.Errorf("%w: %s: %v", repository.ErrDuplicate, op, err)
	case s.dialect.IsForeignKeyViolation(err):
		return fmt.Errorf("%w: %s references a missing row", repository.ErrNotFound, op)
	default:
		return fmt.Errorf("failed to %s: %w", op, err)
	}
}

// =============================================================================
// Read
// =============================================================================

func lookupTable(kind domain.Kind) (table, error) {
	t, ok := tables[kind]
	if !ok {
		return table{}, fmt.Errorf("%w: kind %q", repository.ErrUnsupportedRecord, kind)
	}
	return t, nil
}

// Get retrieves one record by kind and ID.
func (s *Store) Get(ctx context.Context, kind domain.Kind, id int64) (domain.Record, error) {
	t, err := lookupTable(kind)
	if err != nil {
		return nil, err
	}

	q := newQuery(s.dialect)
	q.write("SELECT ", t.selectList(), " FROM ", t.from, " WHERE t.id = ", q.arg(id))

	rec, err := t.scan(s.tx.QueryRowContext(ctx, q.String(), q.args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s %d", repository.ErrNotFound, kind, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s %d: %w", kind, id, err)
	}
	return rec, nil
}

// Filter returns every record of kind matching all conditions, ordered by ID.
func (s *Store) Filter(ctx context.Context, kind domain.Kind, conds ...repository.Condition) ([]domain.Record, error) {
	t, err := lookupTable(kind)
	if err != nil {
		return nil, err
	}

	q := newQuery(s.dialect)
	q.write("SELECT ", t.selectList(), " FROM ", t.from)
	for i, c := range conds {
		// Columns come from the catalogue, never from the caller's Field.
		f, err := catalogueField(kind, c.Field)
		if err != nil {
			return nil, &repository.InterfaceError{Op: "filter", Kind: kind, Field: c.Field.Name, Err: repository.ErrInvalidColumn}
		}
		v, err := f.Normalize(c.Value)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			q.write(" WHERE ")
		} else {
			q.write(" AND ")
		}
		q.write("t.", f.Column, " = ", q.arg(v))
	}
	q.write(" ORDER BY t.id")

	return s.queryRecords(ctx, t, q)
}

// FilterPersonsByBirthDate returns persons born between from and to inclusive.
func (s *Store) FilterPersonsByBirthDate(ctx context.Context, from, to domain.CalendarDate) ([]*domain.Person, error) {
	t := tables[domain.KindPerson]

	q := newQuery(s.dialect)
	q.write("SELECT ", t.selectList(), " FROM ", t.from)
	q.write(" WHERE t.date_of_birth >= ", q.arg(from), " AND t.date_of_birth <= ", q.arg(to))
	q.write(" ORDER BY t.date_of_birth, t.id")

	recs, err := s.queryRecords(ctx, t, q)
	if err != nil {
		return nil, err
	}
	persons := make([]*domain.Person, len(recs))
	for i, rec := range recs {
		persons[i] = rec.(*domain.Person)
	}
	return persons, nil
}

// GroupByCount groups records of field.Kind by field.
func (s *Store) GroupByCount(ctx context.Context, field repository.Field, opts repository.GroupOptions) ([]repository.GroupCount, error) {
	t, err := lookupTable(field.Kind)
	if err != nil {
		return nil, err
	}
	f, err := catalogueField(field.Kind, field)
	if err != nil || !f.Groupable() {
		return nil, &repository.InterfaceError{Op: "group_by", Kind: field.Kind, Field: field.Name, Err: repository.ErrInvalidColumn}
	}

	order := "DESC"
	if opts.Ascending {
		order = "ASC"
	}

	q := newQuery(s.dialect)
	q.write("SELECT ", t.selectList(), ", g.cnt FROM ", t.from)
	q.write(" JOIN (SELECT MIN(id) AS gid, COUNT(*) AS cnt FROM ", t.name, " GROUP BY ", f.Column, ") g ON g.gid = t.id")
	q.write(" ORDER BY g.cnt ", order, ", t.id ASC")
	if opts.Limit > 0 {
		q.write(" LIMIT ", q.arg(opts.Limit))
	}

	rows, err := s.tx.QueryContext(ctx, q.String(), q.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to group %s: %w", field, err)
	}
	defer rows.Close()

	var groups []repository.GroupCount
	for rows.Next() {
		var count int64
		rec, err := t.scan(withExtra(rows, &count))
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s group: %w", field, err)
		}
		groups = append(groups, repository.GroupCount{Record: rec, Count: count})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s groups: %w", field, err)
	}
	return groups, nil
}

// catalogueField resolves f against the field catalogue of kind.
func catalogueField(kind domain.Kind, f repository.Field) (repository.Field, error) {
	if f.Kind != kind {
		return repository.Field{}, repository.ErrInvalidColumn
	}
	return repository.LookupField(kind, f.Name)
}

// Count returns the number of records of kind.
func (s *Store) Count(ctx context.Context, kind domain.Kind) (int64, error) {
	t, err := lookupTable(kind)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := s.tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+t.name).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", kind, err)
	}
	return n, nil
}

func (s *Store) queryRecords(ctx context.Context, t table, q *query) ([]domain.Record, error) {
	rows, err := s.tx.QueryContext(ctx, q.String(), q.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", t.kind, err)
	}
	defer rows.Close()

	var recs []domain.Record
	for rows.Next() {
		rec, err := t.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", t.kind, err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", t.kind, err)
	}
	return recs, nil
}

// extraScanner appends destinations for columns selected after a row's own.
type extraScanner struct {
	s     scanner
	extra []any
}

func withExtra(s scanner, extra ...any) scanner {
	return extraScanner{s: s, extra: extra}
}

func (e extraScanner) Scan(dest ...any) error {
	return e.s.Scan(append(dest, e.extra...)...)
}

// =============================================================================
// Delete
// =============================================================================

// Delete removes one record by kind and ID.
func (s *Store) Delete(ctx context.Context, kind domain.Kind, id int64) error {
	t, err := lookupTable(kind)
	if err != nil {
		return err
	}

	q := newQuery(s.dialect)
	q.write("DELETE FROM ", t.name, " WHERE id = ", q.arg(id))

	res, err := s.tx.ExecContext(ctx, q.String(), q.args...)
	if err != nil {
		if s.dialect.IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: %s %d", repository.ErrReferenced, kind, id)
		}
		return fmt.Errorf("failed to delete %s %d: %w", kind, id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %d", repository.ErrNotFound, kind, id)
	}
	return nil
}
