package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrInvalidPayload indicates a dataset that is not a randomuser.me response.
var ErrInvalidPayload = errors.New("invalid dataset payload")

// payload is the randomuser.me response envelope.
type payload struct {
	Results []map[string]any `json:"results"`
	Error   string           `json:"error"`
}

// Decode reads the entries of a randomuser.me response. Numbers are kept as
// json.Number so postcodes and coordinates keep their text form.
func Decode(r io.Reader) ([]map[string]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var p payload
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if p.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPayload, p.Error)
	}
	if p.Results == nil {
		return nil, fmt.Errorf("%w: missing results", ErrInvalidPayload)
	}
	return p.Results, nil
}

// Load opens src and decodes its entries.
func Load(ctx context.Context, src Source) ([]map[string]any, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return Decode(rc)
}

// Translate converts one randomuser.me entry into the map accepted by
// domain.UserFromMap. Parts missing from the entry are left out, so the
// factory reports them.
func Translate(entry map[string]any) map[string]any {
	user := map[string]any{}

	person := map[string]any{}
	copyKey(person, "gender", entry, "gender")
	if name := object(entry, "name"); name != nil {
		n := map[string]any{}
		copyKey(n, "title", name, "title")
		copyKey(n, "first_name", name, "first")
		copyKey(n, "second_name", name, "last")
		person["name"] = n
	}
	if dob := object(entry, "dob"); dob != nil {
		copyKey(person, "date_of_birth", dob, "date")
	}
	user["person"] = person

	if login := object(entry, "login"); login != nil {
		l := map[string]any{}
		for _, k := range []string{"uuid", "username", "password", "salt", "md5", "sha1", "sha256"} {
			copyKey(l, k, login, k)
		}
		if reg := object(entry, "registered"); reg != nil {
			copyKey(l, "date_registered", reg, "date")
		}
		user["login"] = l
	}

	contact := map[string]any{}
	copyKey(contact, "phone", entry, "phone")
	copyKey(contact, "cell", entry, "cell")
	copyKey(contact, "email", entry, "email")
	user["contact"] = contact

	if loc := object(entry, "location"); loc != nil {
		l := map[string]any{}
		if street, ok := loc["street"]; ok {
			l["street"] = streetText(street)
		}
		copyKey(l, "city", loc, "city")
		copyKey(l, "state", loc, "state")
		copyKey(l, "postcode", loc, "postcode")
		copyKey(l, "coordinates", loc, "coordinates")
		copyKey(l, "timezone", loc, "timezone")
		copyKey(l, "nat", entry, "nat")
		user["location"] = l
	}

	if id := object(entry, "id"); id != nil {
		p := map[string]any{}
		copyKey(p, "name", id, "name")
		copyKey(p, "value", id, "value")
		user["personal_id"] = p
	}

	return user
}

func object(m map[string]any, key string) map[string]any {
	v, _ := m[key].(map[string]any)
	return v
}

func copyKey(dst map[string]any, dstKey string, src map[string]any, srcKey string) {
	if v, ok := src[srcKey]; ok {
		dst[dstKey] = v
	}
}

// streetText renders {"number": 8929, "name": "Valwood Pkwy"} as
// "8929 Valwood Pkwy". Older payloads carry the street as plain text.
func streetText(v any) any {
	s, ok := v.(map[string]any)
	if !ok {
		return v
	}
	return fmt.Sprintf("%v %v", s["number"], s["name"])
}
