package domain

import "regexp"

// strengthRule adds weight to the score when pattern matches anywhere in a password.
type strengthRule struct {
	pattern *regexp.Regexp
	weight  int
}

var strengthRules = []strengthRule{
	{pattern: regexp.MustCompile(`[a-z]`), weight: 1},
	{pattern: regexp.MustCompile(`[A-Z]`), weight: 2},
	{pattern: regexp.MustCompile(`[0-9]`), weight: 1},
	{pattern: regexp.MustCompile(`.{8,}`), weight: 5},
	{pattern: regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`), weight: 3},
}

// MaxPasswordStrength is the score of a password matching every rule.
const MaxPasswordStrength = 12

// PasswordStrength scores password by summing the weight of every rule that
// matches it at least once.
func PasswordStrength(password string) int {
	score := 0
	for _, rule := range strengthRules {
		if rule.pattern.MatchString(password) {
			score += rule.weight
		}
	}
	return score
}
