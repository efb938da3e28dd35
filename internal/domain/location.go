package domain

// Coordinates is a latitude/longitude pair. A pair is stored once and shared
// by every location at that point.
type Coordinates struct {
	ID        int64   `json:"id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (c *Coordinates) Kind() Kind      { return KindCoordinates }
func (c *Coordinates) RecordID() int64 { return c.ID }

// Timezone is a UTC offset ("-3:30") and its description. Shared like Coordinates.
type Timezone struct {
	ID          int64  `json:"id"`
	Offset      string `json:"offset"`
	Description string `json:"description"`
}

func (t *Timezone) Kind() Kind      { return KindTimezone }
func (t *Timezone) RecordID() int64 { return t.ID }

// Nationality is a nationality code ("CH"). Shared like Coordinates.
type Nationality struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
}

func (n *Nationality) Kind() Kind      { return KindNationality }
func (n *Nationality) RecordID() int64 { return n.ID }

// Location is a postal address with its shared reference data.
type Location struct {
	// ID is assigned by the store (0 until stored).
	ID int64 `json:"id"`

	// UserID is the owning user (0 when stored on its own).
	UserID int64 `json:"user_id,omitempty"`

	Street   string `json:"street"`
	City     string `json:"city"`
	State    string `json:"state"`
	Postcode string `json:"postcode"`

	Coordinates *Coordinates `json:"coordinates"`
	Timezone    *Timezone    `json:"timezone"`
	Nationality *Nationality `json:"nationality"`
}

func (l *Location) Kind() Kind      { return KindLocation }
func (l *Location) RecordID() int64 { return l.ID }

// PersonalID is a national identifier, e.g. {"AVS", "756.1234.5678.97"}.
type PersonalID struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"user_id,omitempty"`
	Name   string `json:"name"`
	Value  string `json:"value"`
}

func (p *PersonalID) Kind() Kind      { return KindPersonalID }
func (p *PersonalID) RecordID() int64 { return p.ID }
