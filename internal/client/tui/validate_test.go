package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateName(t *testing.T) {
	assert.Empty(t, validateName("Alice"))
	assert.Empty(t, validateName("Mary Jane"))
	assert.Equal(t, "Name is required", validateName("   "))
	assert.NotEmpty(t, validateName("Alice42"))
	assert.NotEmpty(t, validateName("a b c !"))
}

func TestValidateAge(t *testing.T) {
	assert.Empty(t, validateAge("1"))
	assert.Empty(t, validateAge("100"))
	assert.Equal(t, "Age is required", validateAge(""))
	for _, bad := range []string{"0", "101", "-3", "abc", "12.5"} {
		assert.Equal(t, "Age must be between 1 and 100", validateAge(bad), "age %q", bad)
	}
}

func TestValidateLocation(t *testing.T) {
	assert.Empty(t, validateLocation("New York"))
	assert.Empty(t, validateLocation("AP-12/north"))
	assert.Equal(t, "Location is required", validateLocation(""))
	assert.NotEmpty(t, validateLocation("Tokyo!"))
}

func TestValidateAmounts(t *testing.T) {
	assert.Empty(t, validateIncome("0"))
	assert.Empty(t, validateIncome("50000.50"))
	assert.Equal(t, "Please enter your annual income", validateIncome(""))
	assert.Equal(t, "Please enter your annual income", validateIncome("lots"))
	assert.Equal(t, "Income cannot be negative", validateIncome("-1"))

	assert.Empty(t, validateSavings("10000"))
	assert.Equal(t, "Please enter your savings", validateSavings(""))
	assert.Equal(t, "Savings cannot be negative", validateSavings("-0.5"))
}

func TestParseList(t *testing.T) {
	assert.Equal(t, []string{"None"}, parseList(""))
	assert.Equal(t, []string{"None"}, parseList("  ,  "))
	assert.Equal(t, []string{"asthma", "hay fever"}, parseList(" asthma , hay fever "))
}
