package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userMap() map[string]any {
	return map[string]any{
		"person": map[string]any{
			"gender":        "male",
			"name":          map[string]any{"title": "mr", "first_name": "john", "second_name": "doe"},
			"date_of_birth": "1997-01-01",
		},
		"login": map[string]any{
			"uuid":            "7a0eed16-9430-4d68-901f-c0d4c1c3bf00",
			"username":        "yellowpeacock117",
			"password":        "addison",
			"salt":            "sld1yGtd",
			"md5":             "ab54ac4c0be9480ae8fa5e9e2a5196a3",
			"sha1":            "edcf2ce613cbdea349133c52dc2f3b83168dc51b",
			"sha256":          "48df5229235ada28389b91e60a935e4f9b73eb4bdb855ef9258a1751f10bdc5d",
			"date_registered": "2003-10-28T05:44:33.185Z",
		},
		"contact": map[string]any{"phone": "011-962-7516", "cell": "081-454-0666", "email": "john@example.com"},
		"location": map[string]any{
			"street":      "2479 Fryksdalsbacken",
			"city":        "Sundsvall",
			"state":       "Östergötland",
			"postcode":    json.Number("28136"),
			"coordinates": map[string]any{"latitude": "-25.4", "longitude": "25.4"},
			"timezone":    map[string]any{"offset": "-3:30", "description": "Newfoundland"},
			"nat":         "SE",
		},
		"personal_id": map[string]any{"name": "PN", "value": nil},
	}
}

func TestNameFromMap(t *testing.T) {
	_, err := NameFromMap(map[string]any{"no_info": "here"})
	require.ErrorIs(t, err, ErrRecordIncomplete)
	assert.Contains(t, err.Error(), "Name")

	name, err := NameFromMap(map[string]any{"title": "mr", "first_name": "John", "second_name": "Doe"})
	require.NoError(t, err)
	assert.Equal(t, &Name{Title: "mr", FirstName: "John", SecondName: "Doe"}, name)
}

func TestNameFromMap_NamesMissingKey(t *testing.T) {
	_, err := NameFromMap(map[string]any{"title": "mr", "first_name": "John"})

	var domainErr *DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "Name", domainErr.Resource)
	assert.Contains(t, domainErr.Message, "second_name")
}

func TestCoordinatesFromMap(t *testing.T) {
	tests := []struct {
		name    string
		input   map[string]any
		want    *Coordinates
		wantErr error
	}{
		{
			name:  "text values",
			input: map[string]any{"latitude": "-69.8246", "longitude": "134.8719"},
			want:  &Coordinates{Latitude: -69.8246, Longitude: 134.8719},
		},
		{
			name:  "numeric values",
			input: map[string]any{"latitude": 25.4, "longitude": json.Number("-3")},
			want:  &Coordinates{Latitude: 25.4, Longitude: -3},
		},
		{
			name:    "non-numeric latitude",
			input:   map[string]any{"latitude": "north", "longitude": "1.0"},
			wantErr: ErrInvalidCoordinate,
		},
		{
			name:    "non-numeric longitude",
			input:   map[string]any{"latitude": "1.0", "longitude": ""},
			wantErr: ErrInvalidCoordinate,
		},
		{
			name:    "missing longitude",
			input:   map[string]any{"latitude": "1.0"},
			wantErr: ErrRecordIncomplete,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CoordinatesFromMap(tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCoordinatesFromMap_ErrorsAreDistinct(t *testing.T) {
	_, err := CoordinatesFromMap(map[string]any{"latitude": "x", "longitude": "1"})
	assert.False(t, errors.Is(err, ErrRecordIncomplete))

	_, err = CoordinatesFromMap(map[string]any{"longitude": "1"})
	assert.False(t, errors.Is(err, ErrInvalidCoordinate))
}

func TestPersonFromMap(t *testing.T) {
	p, err := PersonFromMap(map[string]any{
		"gender":        "female",
		"name":          map[string]any{"title": "ms", "first_name": "Ann", "second_name": "Lee"},
		"date_of_birth": time.Date(1993, time.July, 20, 15, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, "female", p.Gender)
	assert.Equal(t, "Ann", p.Name.FirstName)
	assert.Equal(t, "1993-07-20", p.DateOfBirth.String())
	assert.Equal(t, 27, p.Age(MustDate(2020, 7, 31)))
	assert.Equal(t, 354, p.DaysToBirthday(MustDate(2020, 7, 31)))
}

func TestPersonFromMap_Failures(t *testing.T) {
	base := func() map[string]any {
		return map[string]any{
			"gender":        "female",
			"name":          map[string]any{"title": "ms", "first_name": "Ann", "second_name": "Lee"},
			"date_of_birth": "1993-07-20",
		}
	}

	tests := []struct {
		name    string
		mutate  func(map[string]any)
		wantErr error
	}{
		{name: "missing gender", mutate: func(m map[string]any) { delete(m, "gender") }, wantErr: ErrRecordIncomplete},
		{name: "incomplete name", mutate: func(m map[string]any) { m["name"] = map[string]any{"title": "ms"} }, wantErr: ErrRecordIncomplete},
		{name: "name not a map", mutate: func(m map[string]any) { m["name"] = "Ann Lee" }, wantErr: ErrInvalidRecord},
		{name: "malformed date", mutate: func(m map[string]any) { m["date_of_birth"] = "20/07/1993" }, wantErr: ErrInvalidDate},
		{name: "numeric date", mutate: func(m map[string]any) { m["date_of_birth"] = 1993 }, wantErr: ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := base()
			tt.mutate(m)
			p, err := PersonFromMap(m)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, p)
		})
	}
}

func TestCredentialFromMap(t *testing.T) {
	m := userMap()["login"].(map[string]any)

	c, err := CredentialFromMap(m)
	require.NoError(t, err)
	assert.Equal(t, "yellowpeacock117", c.Username)
	assert.Equal(t, "2003-10-28", c.DateRegistered.String())
	assert.Equal(t, 1, c.Strength())

	delete(m, "date_registered")
	c, err = CredentialFromMap(m)
	require.NoError(t, err)
	assert.True(t, c.DateRegistered.IsZero())

	delete(m, "salt")
	_, err = CredentialFromMap(m)
	require.ErrorIs(t, err, ErrRecordIncomplete)
	assert.Contains(t, err.Error(), "Credential")
}

func TestContactFromMap(t *testing.T) {
	c, err := ContactFromMap(map[string]any{"phone": "011-962-7516", "cell": "081-454-0666", "email": "x@y.z"})
	require.NoError(t, err)
	assert.Equal(t, "0119627516", c.Phone())
	assert.Equal(t, "0814540666", c.Cell())

	_, err = ContactFromMap(map[string]any{"phone": "1"})
	require.ErrorIs(t, err, ErrRecordIncomplete)
}

func TestLocationFromMap(t *testing.T) {
	m := userMap()["location"].(map[string]any)

	loc, err := LocationFromMap(m)
	require.NoError(t, err)
	assert.Equal(t, "28136", loc.Postcode)
	assert.Equal(t, &Coordinates{Latitude: -25.4, Longitude: 25.4}, loc.Coordinates)
	assert.Equal(t, &Timezone{Offset: "-3:30", Description: "Newfoundland"}, loc.Timezone)
	assert.Equal(t, "SE", loc.Nationality.Code)
}

func TestLocationFromMap_NestedFailures(t *testing.T) {
	m := userMap()["location"].(map[string]any)
	m["coordinates"] = map[string]any{"latitude": "1"}
	_, err := LocationFromMap(m)
	require.ErrorIs(t, err, ErrRecordIncomplete)
	assert.Contains(t, err.Error(), "Coordinates")

	m = userMap()["location"].(map[string]any)
	m["timezone"] = map[string]any{"offset": "+1:00"}
	_, err = LocationFromMap(m)
	require.ErrorIs(t, err, ErrRecordIncomplete)
	assert.Contains(t, err.Error(), "Timezone")

	m = userMap()["location"].(map[string]any)
	m["coordinates"] = map[string]any{"latitude": "abc", "longitude": "1"}
	_, err = LocationFromMap(m)
	require.ErrorIs(t, err, ErrInvalidCoordinate)
}

func TestUserFromMap(t *testing.T) {
	u, err := UserFromMap(userMap())
	require.NoError(t, err)

	assert.Equal(t, "john", u.Person.Name.FirstName)
	assert.Equal(t, "7a0eed16-9430-4d68-901f-c0d4c1c3bf00", u.Login.UUID)
	assert.Equal(t, "0119627516", u.Contact.Phone())
	assert.Equal(t, "Sundsvall", u.Location.City)
	assert.Equal(t, "PN", u.PersonalID.Name)
	assert.Equal(t, "", u.PersonalID.Value)

	u.SetID(42)
	assert.Equal(t, int64(42), u.Person.UserID)
	assert.Equal(t, int64(42), u.Login.UserID)
	assert.Equal(t, int64(42), u.Contact.UserID)
	assert.Equal(t, int64(42), u.Location.UserID)
	assert.Equal(t, int64(42), u.PersonalID.UserID)
}

func TestUserFromMap_MissingSubRecord(t *testing.T) {
	for _, key := range []string{"person", "login", "contact", "location", "personal_id"} {
		t.Run(key, func(t *testing.T) {
			m := userMap()
			delete(m, key)
			u, err := UserFromMap(m)
			require.ErrorIs(t, err, ErrRecordIncomplete)
			assert.True(t, strings.Contains(err.Error(), key))
			assert.Nil(t, u)
		})
	}
}

func TestParseKind(t *testing.T) {
	k, ok := ParseKind("person")
	assert.True(t, ok)
	assert.Equal(t, KindPerson, k)

	_, ok = ParseKind("people")
	assert.False(t, ok)

	var p *Person
	assert.Equal(t, KindPerson, p.Kind())
}
