package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// The *FromMap factories build records from generic maps, such as decoded
// JSON. Each one checks that every required key is present before it reads
// any value, and nested records are built by their own factory first, so a
// factory either returns a complete record or an error.

// fields reads typed values out of the map of one record type.
type fields struct {
	record string
	m      map[string]any
}

func newFields(record string, m map[string]any, required ...string) (fields, error) {
	for _, key := range required {
		if _, ok := m[key]; !ok {
			return fields{}, missingKey(record, key)
		}
	}
	return fields{record: record, m: m}, nil
}

func (f fields) text(key string) string {
	return textValue(f.m[key])
}

func (f fields) nested(key string) (map[string]any, error) {
	switch v := f.m[key].(type) {
	case map[string]any:
		return v, nil
	case nil:
		return nil, missingKey(f.record, key)
	default:
		return nil, NewDomainError(ErrInvalidRecord, fmt.Sprintf("key %q is %T, want a map", key, v), f.record)
	}
}

func (f fields) date(key string) (CalendarDate, error) {
	return dateValue(f.m[key])
}

// textValue renders a scalar map value as text. Null becomes "".
func textValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

func dateValue(v any) (CalendarDate, error) {
	switch x := v.(type) {
	case CalendarDate:
		if x.IsZero() {
			return CalendarDate{}, NewDomainError(ErrInvalidDate, "zero date", "")
		}
		return x, nil
	case time.Time:
		return DateOf(x), nil
	case string:
		return ParseDate(x)
	default:
		return CalendarDate{}, NewDomainError(ErrInvalidDate, fmt.Sprintf("unsupported value %T", v), textValue(v))
	}
}

func coordinateValue(v any, key string) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, NewDomainError(ErrInvalidCoordinate, key+" is not a number", x.String())
		}
		return f, nil
	default:
		s := strings.TrimSpace(textValue(v))
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, NewDomainError(ErrInvalidCoordinate, key+" is not a number", s)
		}
		return f, nil
	}
}

// NameFromMap builds a Name from title, first_name and second_name.
func NameFromMap(m map[string]any) (*Name, error) {
	f, err := newFields("Name", m, "title", "first_name", "second_name")
	if err != nil {
		return nil, err
	}
	return &Name{
		Title:      f.text("title"),
		FirstName:  f.text("first_name"),
		SecondName: f.text("second_name"),
	}, nil
}

// PersonFromMap builds a Person from gender, name and date_of_birth.
func PersonFromMap(m map[string]any) (*Person, error) {
	f, err := newFields("Person", m, "gender", "name", "date_of_birth")
	if err != nil {
		return nil, err
	}
	nameMap, err := f.nested("name")
	if err != nil {
		return nil, err
	}
	name, err := NameFromMap(nameMap)
	if err != nil {
		return nil, err
	}
	dob, err := f.date("date_of_birth")
	if err != nil {
		return nil, err
	}
	return NewPerson(f.text("gender"), *name, dob), nil
}

// CredentialFromMap builds a Credential. date_registered is optional.
func CredentialFromMap(m map[string]any) (*Credential, error) {
	f, err := newFields("Credential", m, "uuid", "username", "password", "salt", "md5", "sha1", "sha256")
	if err != nil {
		return nil, err
	}
	c := &Credential{
		UUID:     f.text("uuid"),
		Username: f.text("username"),
		Password: f.text("password"),
		Salt:     f.text("salt"),
		MD5:      f.text("md5"),
		SHA1:     f.text("sha1"),
		SHA256:   f.text("sha256"),
	}
	if v, ok := m["date_registered"]; ok && v != nil {
		registered, err := dateValue(v)
		if err != nil {
			return nil, err
		}
		c.DateRegistered = registered
	}
	return c, nil
}

// ContactFromMap builds a Contact from phone, cell and email.
func ContactFromMap(m map[string]any) (*Contact, error) {
	f, err := newFields("Contact", m, "phone", "cell", "email")
	if err != nil {
		return nil, err
	}
	return NewContact(f.text("phone"), f.text("cell"), f.text("email")), nil
}

// CoordinatesFromMap builds Coordinates, parsing latitude and longitude as numbers.
func CoordinatesFromMap(m map[string]any) (*Coordinates, error) {
	if _, err := newFields("Coordinates", m, "latitude", "longitude"); err != nil {
		return nil, err
	}
	lat, err := coordinateValue(m["latitude"], "latitude")
	if err != nil {
		return nil, err
	}
	lon, err := coordinateValue(m["longitude"], "longitude")
	if err != nil {
		return nil, err
	}
	return &Coordinates{Latitude: lat, Longitude: lon}, nil
}

// TimezoneFromMap builds a Timezone from offset and description.
func TimezoneFromMap(m map[string]any) (*Timezone, error) {
	f, err := newFields("Timezone", m, "offset", "description")
	if err != nil {
		return nil, err
	}
	return &Timezone{Offset: f.text("offset"), Description: f.text("description")}, nil
}

// LocationFromMap builds a Location with its coordinates, timezone and nationality.
func LocationFromMap(m map[string]any) (*Location, error) {
	f, err := newFields("Location", m, "street", "city", "state", "postcode", "coordinates", "timezone", "nat")
	if err != nil {
		return nil, err
	}
	coordMap, err := f.nested("coordinates")
	if err != nil {
		return nil, err
	}
	coords, err := CoordinatesFromMap(coordMap)
	if err != nil {
		return nil, err
	}
	tzMap, err := f.nested("timezone")
	if err != nil {
		return nil, err
	}
	tz, err := TimezoneFromMap(tzMap)
	if err != nil {
		return nil, err
	}
	return &Location{
		Street:      f.text("street"),
		City:        f.text("city"),
		State:       f.text("state"),
		Postcode:    f.text("postcode"),
		Coordinates: coords,
		Timezone:    tz,
		Nationality: &Nationality{Code: f.text("nat")},
	}, nil
}

// PersonalIDFromMap builds a PersonalID from name and value.
func PersonalIDFromMap(m map[string]any) (*PersonalID, error) {
	f, err := newFields("PersonalID", m, "name", "value")
	if err != nil {
		return nil, err
	}
	return &PersonalID{Name: f.text("name"), Value: f.text("value")}, nil
}

// UserFromMap builds a User from the nested person, login, contact, location
// and personal_id maps.
func UserFromMap(m map[string]any) (*User, error) {
	f, err := newFields("User", m, "person", "login", "contact", "location", "personal_id")
	if err != nil {
		return nil, err
	}

	personMap, err := f.nested("person")
	if err != nil {
		return nil, err
	}
	person, err := PersonFromMap(personMap)
	if err != nil {
		return nil, err
	}

	loginMap, err := f.nested("login")
	if err != nil {
		return nil, err
	}
	login, err := CredentialFromMap(loginMap)
	if err != nil {
		return nil, err
	}

	contactMap, err := f.nested("contact")
	if err != nil {
		return nil, err
	}
	contact, err := ContactFromMap(contactMap)
	if err != nil {
		return nil, err
	}

	locationMap, err := f.nested("location")
	if err != nil {
		return nil, err
	}
	location, err := LocationFromMap(locationMap)
	if err != nil {
		return nil, err
	}

	idMap, err := f.nested("personal_id")
	if err != nil {
		return nil, err
	}
	personalID, err := PersonalIDFromMap(idMap)
	if err != nil {
		return nil, err
	}

	return NewUser(person, login, contact, location, personalID), nil
}
