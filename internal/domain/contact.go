package domain

import (
	"encoding/json"
	"strings"
)

// Contact holds a user's phone numbers and email. Phone numbers are stored
// without dash separators; the normalization happens on assignment.
type Contact struct {
	// ID is assigned by the store (0 until stored).
	ID int64

	// UserID is the owning user (0 when stored on its own).
	UserID int64

	// Email is not validated.
	Email string

	phone string
	cell  string
}

// NewContact creates a Contact with normalized phone numbers.
func NewContact(phone, cell, email string) *Contact {
	c := &Contact{Email: email}
	c.SetPhone(phone)
	c.SetCell(cell)
	return c
}

// NormalizePhone strips every dash from s.
func NormalizePhone(s string) string {
	return strings.ReplaceAll(s, "-", "")
}

// Phone returns the stored landline number.
func (c *Contact) Phone() string { return c.phone }

// SetPhone stores phone without dashes.
func (c *Contact) SetPhone(phone string) { c.phone = NormalizePhone(phone) }

// Cell returns the stored mobile number.
func (c *Contact) Cell() string { return c.cell }

// SetCell stores cell without dashes.
func (c *Contact) SetCell(cell string) { c.cell = NormalizePhone(cell) }

// MarshalJSON exposes the normalized numbers.
func (c *Contact) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID     int64  `json:"id"`
		UserID int64  `json:"user_id,omitempty"`
		Phone  string `json:"phone"`
		Cell   string `json:"cell"`
		Email  string `json:"email"`
	}{c.ID, c.UserID, c.phone, c.cell, c.Email})
}

func (c *Contact) Kind() Kind      { return KindContact }
func (c *Contact) RecordID() int64 { return c.ID }
