package domain

// Name is a person's title and names.
type Name struct {
	Title      string `json:"title"`
	FirstName  string `json:"first_name"`
	SecondName string `json:"second_name"`
}

// Person holds the personal part of a user. Age and days to the next
// birthday are derived from DateOfBirth against a reference day on every call.
type Person struct {
	// ID is assigned by the store (0 until stored).
	ID int64 `json:"id"`

	// UserID is the owning user (0 when stored on its own).
	UserID int64 `json:"user_id,omitempty"`

	Gender      string       `json:"gender"`
	Name        Name         `json:"name"`
	DateOfBirth CalendarDate `json:"date_of_birth"`
}

// NewPerson creates a Person.
func NewPerson(gender string, name Name, dateOfBirth CalendarDate) *Person {
	return &Person{
		Gender:      gender,
		Name:        name,
		DateOfBirth: dateOfBirth,
	}
}

// Age returns the person's age in whole years on today.
func (p *Person) Age(today CalendarDate) int {
	return p.DateOfBirth.Age(today)
}

// DaysToBirthday returns the days from today until the next birthday.
func (p *Person) DaysToBirthday(today CalendarDate) int {
	return p.DateOfBirth.DaysToAnniversary(today)
}

func (p *Person) Kind() Kind      { return KindPerson }
func (p *Person) RecordID() int64 { return p.ID }
