package sqlstore

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/prn-tf/people/internal/domain"
)

// This file holds the explicit mapping between records and rows. Each row
// type lists its columns in scan order, exposes scan destinations, and
// builds the record from scanned values.

type scanner interface {
	Scan(dest ...any) error
}

func qualify(alias string, columns ...string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = alias + "." + c
	}
	return out
}

func nullID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}

// --- persons ---------------------------------------------------------------

var personColumns = []string{"id", "user_id", "gender", "title", "first_name", "second_name", "date_of_birth"}

type personRow struct {
	id, userID    sql.NullInt64
	gender, title string
	first, second string
	dateOfBirth   any
}

func (r *personRow) dest() []any {
	return []any{&r.id, &r.userID, &r.gender, &r.title, &r.first, &r.second, &r.dateOfBirth}
}

func (r *personRow) record() (*domain.Person, error) {
	dob, err := decodeDate(r.dateOfBirth)
	if err != nil {
		return nil, fmt.Errorf("person %d date_of_birth: %w", r.id.Int64, err)
	}
	p := domain.NewPerson(r.gender, domain.Name{Title: r.title, FirstName: r.first, SecondName: r.second}, dob)
	p.ID = r.id.Int64
	p.UserID = r.userID.Int64
	return p, nil
}

func personValues(p *domain.Person) []any {
	return []any{nullID(p.UserID), p.Gender, p.Name.Title, p.Name.FirstName, p.Name.SecondName, p.DateOfBirth}
}

// --- logins ----------------------------------------------------------------

var loginColumns = []string{"id", "user_id", "uuid", "username", "password", "salt", "md5", "sha1", "sha256", "date_registered"}

type loginRow struct {
	id, userID               sql.NullInt64
	uuid, username, password string
	salt, md5, sha1, sha256  string
	dateRegistered           any
}

func (r *loginRow) dest() []any {
	return []any{&r.id, &r.userID, &r.uuid, &r.username, &r.password, &r.salt, &r.md5, &r.sha1, &r.sha256, &r.dateRegistered}
}

func (r *loginRow) record() (*domain.Credential, error) {
	registered, err := decodeDate(r.dateRegistered)
	if err != nil {
		return nil, fmt.Errorf("login %d date_registered: %w", r.id.Int64, err)
	}
	return &domain.Credential{
		ID:             r.id.Int64,
		UserID:         r.userID.Int64,
		UUID:           r.uuid,
		Username:       r.username,
		Password:       r.password,
		Salt:           r.salt,
		MD5:            r.md5,
		SHA1:           r.sha1,
		SHA256:         r.sha256,
		DateRegistered: registered,
	}, nil
}

func loginValues(c *domain.Credential) []any {
	var registered any
	if !c.DateRegistered.IsZero() {
		registered = c.DateRegistered
	}
	return []any{nullID(c.UserID), c.UUID, c.Username, c.Password, c.Salt, c.MD5, c.SHA1, c.SHA256, registered}
}

// --- contacts --------------------------------------------------------------

var contactColumns = []string{"id", "user_id", "phone", "cell", "email"}

type contactRow struct {
	id, userID         sql.NullInt64
	phone, cell, email string
}

func (r *contactRow) dest() []any {
	return []any{&r.id, &r.userID, &r.phone, &r.cell, &r.email}
}

func (r *contactRow) record() (*domain.Contact, error) {
	c := domain.NewContact(r.phone, r.cell, r.email)
	c.ID = r.id.Int64
	c.UserID = r.userID.Int64
	return c, nil
}

func contactValues(c *domain.Contact) []any {
	return []any{nullID(c.UserID), c.Phone(), c.Cell(), c.Email}
}

// --- personal_ids ----------------------------------------------------------

var personalIDColumns = []string{"id", "user_id", "name", "value"}

type personalIDRow struct {
	id, userID  sql.NullInt64
	name, value string
}

func (r *personalIDRow) dest() []any {
	return []any{&r.id, &r.userID, &r.name, &r.value}
}

func (r *personalIDRow) record() (*domain.PersonalID, error) {
	return &domain.PersonalID{ID: r.id.Int64, UserID: r.userID.Int64, Name: r.name, Value: r.value}, nil
}

func personalIDValues(p *domain.PersonalID) []any {
	return []any{nullID(p.UserID), p.Name, p.Value}
}

// --- shared reference data -------------------------------------------------

var (
	coordinatesColumns = []string{"id", "latitude", "longitude"}
	timezoneColumns    = []string{"id", "utc_offset", "description"}
	nationalityColumns = []string{"id", "code"}
)

type coordinatesRow struct {
	id                  sql.NullInt64
	latitude, longitude float64
}

func (r *coordinatesRow) dest() []any { return []any{&r.id, &r.latitude, &r.longitude} }

func (r *coordinatesRow) record() (*domain.Coordinates, error) {
	return &domain.Coordinates{ID: r.id.Int64, Latitude: r.latitude, Longitude: r.longitude}, nil
}

type timezoneRow struct {
	id                  sql.NullInt64
	offset, description string
}

func (r *timezoneRow) dest() []any { return []any{&r.id, &r.offset, &r.description} }

func (r *timezoneRow) record() (*domain.Timezone, error) {
	return &domain.Timezone{ID: r.id.Int64, Offset: r.offset, Description: r.description}, nil
}

type nationalityRow struct {
	id   sql.NullInt64
	code string
}

func (r *nationalityRow) dest() []any { return []any{&r.id, &r.code} }

func (r *nationalityRow) record() (*domain.Nationality, error) {
	return &domain.Nationality{ID: r.id.Int64, Code: r.code}, nil
}

// --- locations -------------------------------------------------------------

var locationColumns = []string{"id", "user_id", "street", "city", "state", "postcode"}

// locationJoin joins a location aliased as alias to its reference rows.
func locationJoin(alias string) string {
	return " JOIN coordinates co ON co.id = " + alias + ".coordinates_id" +
		" JOIN timezones tz ON tz.id = " + alias + ".timezone_id" +
		" JOIN nationalities n ON n.id = " + alias + ".nationality_id"
}

func locationSelect(alias string) []string {
	cols := qualify(alias, locationColumns...)
	cols = append(cols, qualify("co", coordinatesColumns...)...)
	cols = append(cols, qualify("tz", timezoneColumns...)...)
	return append(cols, qualify("n", nationalityColumns...)...)
}

type locationRow struct {
	id, userID                    sql.NullInt64
	street, city, state, postcode string
	coordinates                   coordinatesRow
	timezone                      timezoneRow
	nationality                   nationalityRow
}

func (r *locationRow) dest() []any {
	d := []any{&r.id, &r.userID, &r.street, &r.city, &r.state, &r.postcode}
	d = append(d, r.coordinates.dest()...)
	d = append(d, r.timezone.dest()...)
	return append(d, r.nationality.dest()...)
}

func (r *locationRow) record() (*domain.Location, error) {
	coords, _ := r.coordinates.record()
	tz, _ := r.timezone.record()
	nat, _ := r.nationality.record()
	return &domain.Location{
		ID:          r.id.Int64,
		UserID:      r.userID.Int64,
		Street:      r.street,
		City:        r.city,
		State:       r.state,
		Postcode:    r.postcode,
		Coordinates: coords,
		Timezone:    tz,
		Nationality: nat,
	}, nil
}

// --- users -----------------------------------------------------------------

type userRow struct {
	id         sql.NullInt64
	person     personRow
	login      loginRow
	contact    contactRow
	personalID personalIDRow
	location   locationRow
}

func (r *userRow) dest() []any {
	d := []any{&r.id}
	d = append(d, r.person.dest()...)
	d = append(d, r.login.dest()...)
	d = append(d, r.contact.dest()...)
	d = append(d, r.personalID.dest()...)
	return append(d, r.location.dest()...)
}

func (r *userRow) record() (*domain.User, error) {
	person, err := r.person.record()
	if err != nil {
		return nil, err
	}
	login, err := r.login.record()
	if err != nil {
		return nil, err
	}
	contact, _ := r.contact.record()
	personalID, _ := r.personalID.record()
	location, _ := r.location.record()

	u := domain.NewUser(person, login, contact, location, personalID)
	u.ID = r.id.Int64
	return u, nil
}

// =============================================================================
// Table descriptions
// =============================================================================

// table describes how one record kind is stored and read back.
type table struct {
	kind domain.Kind
	name string

	// from is the FROM clause; the kind's own table is aliased "t".
	from string

	// columns is the select list matching the row type's scan order.
	columns []string

	// scan reads one row into a record.
	scan func(s scanner) (domain.Record, error)
}

func (t table) selectList() string {
	return strings.Join(t.columns, ", ")
}

func scanInto[R interface {
	dest() []any
	record() (T, error)
}, T domain.Record](s scanner, row R) (domain.Record, error) {
	if err := s.Scan(row.dest()...); err != nil {
		return nil, err
	}
	rec, err := row.record()
	if err != nil {
		return nil, err
	}
	return rec, nil
}

var tables = map[domain.Kind]table{
	domain.KindUser: {
		kind: domain.KindUser,
		name: "users",
		from: "users t" +
			" JOIN persons p ON p.user_id = t.id" +
			" JOIN logins l ON l.user_id = t.id" +
			" JOIN contacts c ON c.user_id = t.id" +
			" JOIN personal_ids i ON i.user_id = t.id" +
			" JOIN locations loc ON loc.user_id = t.id" +
			locationJoin("loc"),
		columns: concat(
			[]string{"t.id"},
			qualify("p", personColumns...),
			qualify("l", loginColumns...),
			qualify("c", contactColumns...),
			qualify("i", personalIDColumns...),
			locationSelect("loc"),
		),
		scan: func(s scanner) (domain.Record, error) { return scanInto[*userRow, *domain.User](s, &userRow{}) },
	},
	domain.KindPerson: {
		kind:    domain.KindPerson,
		name:    "persons",
		from:    "persons t",
		columns: qualify("t", personColumns...),
		scan:    func(s scanner) (domain.Record, error) { return scanInto[*personRow, *domain.Person](s, &personRow{}) },
	},
	domain.KindLogin: {
		kind:    domain.KindLogin,
		name:    "logins",
		from:    "logins t",
		columns: qualify("t", loginColumns...),
		scan:    func(s scanner) (domain.Record, error) { return scanInto[*loginRow, *domain.Credential](s, &loginRow{}) },
	},
	domain.KindContact: {
		kind:    domain.KindContact,
		name:    "contacts",
		from:    "contacts t",
		columns: qualify("t", contactColumns...),
		scan:    func(s scanner) (domain.Record, error) { return scanInto[*contactRow, *domain.Contact](s, &contactRow{}) },
	},
	domain.KindPersonalID: {
		kind:    domain.KindPersonalID,
		name:    "personal_ids",
		from:    "personal_ids t",
		columns: qualify("t", personalIDColumns...),
		scan: func(s scanner) (domain.Record, error) {
			return scanInto[*personalIDRow, *domain.PersonalID](s, &personalIDRow{})
		},
	},
	domain.KindLocation: {
		kind:    domain.KindLocation,
		name:    "locations",
		from:    "locations t" + locationJoin("t"),
		columns: locationSelect("t"),
		scan:    func(s scanner) (domain.Record, error) { return scanInto[*locationRow, *domain.Location](s, &locationRow{}) },
	},
	domain.KindCoordinates: {
		kind:    domain.KindCoordinates,
		name:    "coordinates",
		from:    "coordinates t",
		columns: qualify("t", coordinatesColumns...),
		scan: func(s scanner) (domain.Record, error) {
			return scanInto[*coordinatesRow, *domain.Coordinates](s, &coordinatesRow{})
		},
	},
	domain.KindTimezone: {
		kind:    domain.KindTimezone,
		name:    "timezones",
		from:    "timezones t",
		columns: qualify("t", timezoneColumns...),
		scan:    func(s scanner) (domain.Record, error) { return scanInto[*timezoneRow, *domain.Timezone](s, &timezoneRow{}) },
	},
	domain.KindNationality: {
		kind:    domain.KindNationality,
		name:    "nationalities",
		from:    "nationalities t",
		columns: qualify("t", nationalityColumns...),
		scan: func(s scanner) (domain.Record, error) {
			return scanInto[*nationalityRow, *domain.Nationality](s, &nationalityRow{})
		},
	},
}

func concat(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}
