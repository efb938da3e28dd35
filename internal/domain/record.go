package domain

// Kind names a record type. It doubles as the record's storage identity.
type Kind string

const (
	KindUser        Kind = "user"
	KindPerson      Kind = "person"
	KindLogin       Kind = "login"
	KindContact     Kind = "contact"
	KindLocation    Kind = "location"
	KindPersonalID  Kind = "personal_id"
	KindCoordinates Kind = "coordinates"
	KindTimezone    Kind = "timezone"
	KindNationality Kind = "nationality"
)

// Kinds lists every record kind.
var Kinds = []Kind{
	KindUser, KindPerson, KindLogin, KindContact, KindLocation,
	KindPersonalID, KindCoordinates, KindTimezone, KindNationality,
}

// ParseKind returns the kind named s.
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// Record is implemented by every storable record. Kind must not dereference
// its receiver so that it can be called on a typed nil.
type Record interface {
	Kind() Kind
	RecordID() int64
}
