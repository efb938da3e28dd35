package domain

// Credential is a user's login information. Strength is derived from
// Password on every call and never stored.
type Credential struct {
	// ID is assigned by the store (0 until stored).
	ID int64 `json:"id"`

	// UserID is the owning user (0 when stored on its own).
	UserID int64 `json:"user_id,omitempty"`

	UUID     string `json:"uuid"`
	Username string `json:"username"`

	// Secret material is never exposed in API responses.
	Password string `json:"-"`
	Salt     string `json:"-"`
	MD5      string `json:"-"`
	SHA1     string `json:"-"`
	SHA256   string `json:"-"`

	// DateRegistered is zero when unknown.
	DateRegistered CalendarDate `json:"date_registered"`
}

// Strength returns the password strength score.
func (c *Credential) Strength() int {
	return PasswordStrength(c.Password)
}

// RegisteredYears returns the whole years since registration on today, and
// false when the registration date is unknown.
func (c *Credential) RegisteredYears(today CalendarDate) (int, bool) {
	if c.DateRegistered.IsZero() {
		return 0, false
	}
	return c.DateRegistered.YearsBetween(today), true
}

func (c *Credential) Kind() Kind      { return KindLogin }
func (c *Credential) RecordID() int64 { return c.ID }
