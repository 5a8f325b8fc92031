package tui

import (
	"regexp"
	"strconv"
	"strings"
)

// Field validation mirrors what the web form enforced: advisory rules
// applied before submission, not repeated server-side.

var (
	nameRe     = regexp.MustCompile(`^[a-zA-Z ]{1,50}$`)
	locationRe = regexp.MustCompile(`^[a-zA-Z0-9 /-]{1,200}$`)
)

func validateName(value string) string {
	if strings.TrimSpace(value) == "" {
		return "Name is required"
	}
	if !nameRe.MatchString(value) {
		return "Name should only contain letters and spaces (max 50 characters)"
	}
	return ""
}

func validateAge(value string) string {
	if strings.TrimSpace(value) == "" {
		return "Age is required"
	}
	age, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || age < 1 || age > 100 {
		return "Age must be between 1 and 100"
	}
	return ""
}

func validateLocation(value string) string {
	if strings.TrimSpace(value) == "" {
		return "Location is required"
	}
	if !locationRe.MatchString(value) {
		return "Location should only contain letters, numbers, spaces, hyphens, and forward slashes (max 200 characters)"
	}
	return ""
}

func validateIncome(value string) string {
	return validateAmount(value, "Please enter your annual income", "Income cannot be negative")
}

func validateSavings(value string) string {
	return validateAmount(value, "Please enter your savings", "Savings cannot be negative")
}

func validateAmount(value, requiredMsg, negativeMsg string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return requiredMsg
	}
	amount, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return requiredMsg
	}
	if amount < 0 {
		return negativeMsg
	}
	return ""
}

// parseList turns a comma-separated field into the stored list shape,
// defaulting to ["None"] when nothing was entered.
func parseList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"None"}
	}
	return out
}
