package repository

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/prn-tf/people/internal/domain"
)

// FieldType is the value type of a column.
type FieldType int

const (
	TypeInteger FieldType = iota
	TypeText
	TypeReal
	TypeDate
)

// Field is one filterable column of a record kind. The exported field values
// below are the only valid fields; names that arrive at run time (HTTP
// queries, CLI arguments) are resolved with LookupField.
type Field struct {
	Kind   domain.Kind
	Name   string
	Column string
	Type   FieldType
}

// Groupable reports whether records can be grouped by f.
func (f Field) Groupable() bool {
	return f.Name != "id"
}

// String returns kind.name.
func (f Field) String() string {
	return string(f.Kind) + "." + f.Name
}

func field(kind domain.Kind, name string, typ FieldType) Field {
	return Field{Kind: kind, Name: name, Column: name, Type: typ}
}

var (
	UserID = field(domain.KindUser, "id", TypeInteger)

	PersonID          = field(domain.KindPerson, "id", TypeInteger)
	PersonUserID      = field(domain.KindPerson, "user_id", TypeInteger)
	PersonGender      = field(domain.KindPerson, "gender", TypeText)
	PersonTitle       = field(domain.KindPerson, "title", TypeText)
	PersonFirstName   = field(domain.KindPerson, "first_name", TypeText)
	PersonSecondName  = field(domain.KindPerson, "second_name", TypeText)
	PersonDateOfBirth = field(domain.KindPerson, "date_of_birth", TypeDate)

	LoginID             = field(domain.KindLogin, "id", TypeInteger)
	LoginUserID         = field(domain.KindLogin, "user_id", TypeInteger)
	LoginUUID           = field(domain.KindLogin, "uuid", TypeText)
	LoginUsername       = field(domain.KindLogin, "username", TypeText)
	LoginPassword       = field(domain.KindLogin, "password", TypeText)
	LoginSalt           = field(domain.KindLogin, "salt", TypeText)
	LoginMD5            = field(domain.KindLogin, "md5", TypeText)
	LoginSHA1           = field(domain.KindLogin, "sha1", TypeText)
	LoginSHA256         = field(domain.KindLogin, "sha256", TypeText)
	LoginDateRegistered = field(domain.KindLogin, "date_registered", TypeDate)

	ContactID     = field(domain.KindContact, "id", TypeInteger)
	ContactUserID = field(domain.KindContact, "user_id", TypeInteger)
	ContactPhone  = field(domain.KindContact, "phone", TypeText)
	ContactCell   = field(domain.KindContact, "cell", TypeText)
	ContactEmail  = field(domain.KindContact, "email", TypeText)

	LocationID            = field(domain.KindLocation, "id", TypeInteger)
	LocationUserID        = field(domain.KindLocation, "user_id", TypeInteger)
	LocationStreet        = field(domain.KindLocation, "street", TypeText)
	LocationCity          = field(domain.KindLocation, "city", TypeText)
	LocationState         = field(domain.KindLocation, "state", TypeText)
	LocationPostcode      = field(domain.KindLocation, "postcode", TypeText)
	LocationCoordinatesID = field(domain.KindLocation, "coordinates_id", TypeInteger)
	LocationTimezoneID    = field(domain.KindLocation, "timezone_id", TypeInteger)
	LocationNationalityID = field(domain.KindLocation, "nationality_id", TypeInteger)

	PersonalIDRowID  = field(domain.KindPersonalID, "id", TypeInteger)
	PersonalIDUserID = field(domain.KindPersonalID, "user_id", TypeInteger)
	PersonalIDName   = field(domain.KindPersonalID, "name", TypeText)
	PersonalIDValue  = field(domain.KindPersonalID, "value", TypeText)

	CoordinatesID        = field(domain.KindCoordinates, "id", TypeInteger)
	CoordinatesLatitude  = field(domain.KindCoordinates, "latitude", TypeReal)
	CoordinatesLongitude = field(domain.KindCoordinates, "longitude", TypeReal)

	TimezoneID          = field(domain.KindTimezone, "id", TypeInteger)
	TimezoneOffset      = Field{Kind: domain.KindTimezone, Name: "offset", Column: "utc_offset", Type: TypeText}
	TimezoneDescription = field(domain.KindTimezone, "description", TypeText)

	NationalityID   = field(domain.KindNationality, "id", TypeInteger)
	NationalityCode = field(domain.KindNationality, "code", TypeText)
)

var catalogue = map[domain.Kind][]Field{
	domain.KindUser: {UserID},
	domain.KindPerson: {
		PersonID, PersonUserID, PersonGender, PersonTitle,
		PersonFirstName, PersonSecondName, PersonDateOfBirth,
	},
	domain.KindLogin: {
		LoginID, LoginUserID, LoginUUID, LoginUsername, LoginPassword,
		LoginSalt, LoginMD5, LoginSHA1, LoginSHA256, LoginDateRegistered,
	},
	domain.KindContact: {ContactID, ContactUserID, ContactPhone, ContactCell, ContactEmail},
	domain.KindLocation: {
		LocationID, LocationUserID, LocationStreet, LocationCity, LocationState,
		LocationPostcode, LocationCoordinatesID, LocationTimezoneID, LocationNationalityID,
	},
	domain.KindPersonalID:  {PersonalIDRowID, PersonalIDUserID, PersonalIDName, PersonalIDValue},
	domain.KindCoordinates: {CoordinatesID, CoordinatesLatitude, CoordinatesLongitude},
	domain.KindTimezone:    {TimezoneID, TimezoneOffset, TimezoneDescription},
	domain.KindNationality: {NationalityID, NationalityCode},
}

// Fields returns the fields of kind in column order.
func Fields(kind domain.Kind) []Field {
	return catalogue[kind]
}

// LookupField resolves a field of kind by name. Unknown names fail with an
// *InterfaceError wrapping ErrInvalidColumn.
func LookupField(kind domain.Kind, name string) (Field, error) {
	for _, f := range catalogue[kind] {
		if f.Name == name {
			return f, nil
		}
	}
	return Field{}, &InterfaceError{Op: "lookup", Kind: kind, Field: name, Err: ErrInvalidColumn}
}

// Condition is an equality test of a field against a value.
type Condition struct {
	Field Field
	Value any
}

// Eq returns the condition field = value.
func Eq(f Field, value any) Condition {
	return Condition{Field: f, Value: value}
}

// ConditionsFromMap resolves name=value pairs into conditions on kind, in
// name order. Unknown names fail with ErrInvalidColumn.
func ConditionsFromMap(kind domain.Kind, filters map[string]any) ([]Condition, error) {
	names := make([]string, 0, len(filters))
	for name := range filters {
		names = append(names, name)
	}
	sort.Strings(names)

	conds := make([]Condition, 0, len(names))
	for _, name := range names {
		f, err := LookupField(kind, name)
		if err != nil {
			return nil, &InterfaceError{Op: "filter", Kind: kind, Field: name, Err: ErrInvalidColumn}
		}
		conds = append(conds, Eq(f, filters[name]))
	}
	return conds, nil
}

// Normalize converts v to the canonical Go type of f: int64, string,
// float64 or domain.CalendarDate. Text forms are parsed, so values taken
// from query strings can be used directly.
func (f Field) Normalize(v any) (any, error) {
	invalid := func(detail string) error {
		return &InterfaceError{Op: "filter", Kind: f.Kind, Field: f.Name, Err: ErrInvalidValue, Detail: detail}
	}

	switch f.Type {
	case TypeInteger:
		switch x := v.(type) {
		case int:
			return int64(x), nil
		case int32:
			return int64(x), nil
		case int64:
			return x, nil
		case string:
			n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
			if err != nil {
				return nil, invalid("not an integer")
			}
			return n, nil
		}
	case TypeText:
		switch x := v.(type) {
		case string:
			return x, nil
		case fmt.Stringer:
			return x.String(), nil
		}
	case TypeReal:
		switch x := v.(type) {
		case float64:
			return x, nil
		case float32:
			return float64(x), nil
		case int:
			return float64(x), nil
		case string:
			n, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
			if err != nil {
				return nil, invalid("not a number")
			}
			return n, nil
		}
	case TypeDate:
		switch x := v.(type) {
		case domain.CalendarDate:
			return x, nil
		case time.Time:
			return domain.DateOf(x), nil
		case string:
			d, err := domain.ParseDate(x)
			if err != nil {
				return nil, invalid(err.Error())
			}
			return d, nil
		}
	}
	return nil, invalid(fmt.Sprintf("unsupported value type %T", v))
}
