package domain

// User is the aggregate of one person, credential, contact, location and
// personal identifier. The user exclusively owns the five sub-records; the
// location's coordinates, timezone and nationality are shared.
type User struct {
	// ID is assigned by the store (0 until stored).
	ID int64 `json:"id"`

	Person     *Person     `json:"person"`
	Login      *Credential `json:"login"`
	Contact    *Contact    `json:"contact"`
	Location   *Location   `json:"location"`
	PersonalID *PersonalID `json:"personal_id"`
}

// NewUser composes a User from its sub-records.
func NewUser(person *Person, login *Credential, contact *Contact, location *Location, personalID *PersonalID) *User {
	return &User{
		Person:     person,
		Login:      login,
		Contact:    contact,
		Location:   location,
		PersonalID: personalID,
	}
}

// SetID assigns the user's id and makes every owned sub-record point to it.
func (u *User) SetID(id int64) {
	u.ID = id
	u.Person.UserID = id
	u.Login.UserID = id
	u.Contact.UserID = id
	u.Location.UserID = id
	u.PersonalID.UserID = id
}

func (u *User) Kind() Kind      { return KindUser }
func (u *User) RecordID() int64 { return u.ID }
