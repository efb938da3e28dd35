package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPasswordStrength(t *testing.T) {
	tests := []struct {
		password string
		want     int
	}{
		{password: "", want: 0},
		{password: "supertajne", want: 6},
		{password: "Ab133785%", want: 12},
		{password: "abc", want: 1},
		{password: "ABC", want: 2},
		{password: "123", want: 1},
		{password: "!!!", want: 3},
		{password: "12345678", want: 6},
		{password: "aaaaaaaaaaaaaaaa", want: 6},
		{password: "aA1!", want: 7},
		{password: "password", want: 6},
		{password: "Password1", want: 9},
		{password: "with space", want: 6},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			assert.Equal(t, tt.want, PasswordStrength(tt.password))
		})
	}
}

func TestPasswordStrength_NeverExceedsMaximum(t *testing.T) {
	assert.Equal(t, MaxPasswordStrength, PasswordStrength(`aZ9"{}|<>,.?:()!@#$%^&*`))
}

func TestCredential_StrengthFollowsPassword(t *testing.T) {
	c := &Credential{Password: "supertajne"}
	assert.Equal(t, 6, c.Strength())

	c.Password = "Ab133785%"
	assert.Equal(t, 12, c.Strength())
}

func TestCredential_RegisteredYears(t *testing.T) {
	c := &Credential{}
	_, ok := c.RegisteredYears(MustDate(2020, 7, 31))
	assert.False(t, ok)

	c.DateRegistered = MustDate(2010, 8, 1)
	years, ok := c.RegisteredYears(MustDate(2020, 7, 31))
	assert.True(t, ok)
	assert.Equal(t, 9, years)
}
