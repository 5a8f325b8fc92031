package tui

import (
	"encoding/json"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifecheck/survey/internal/models"
	"github.com/lifecheck/survey/internal/models/dto"
)

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return next.(Model)
}

func press(t *testing.T, m Model, key tea.KeyType) Model {
	t.Helper()
	next, _ := m.Update(tea.KeyMsg{Type: key})
	return next.(Model)
}

// fillDemographic walks step 0 with valid values: name, age, gender, location.
func fillDemographic(t *testing.T, m Model) Model {
	t.Helper()
	m = typeText(t, m, "Alice")
	m = press(t, m, tea.KeyEnter)
	m = typeText(t, m, "30")
	m = press(t, m, tea.KeyEnter)
	m = press(t, m, tea.KeyRight) // select "male"
	m = press(t, m, tea.KeyRight) // cycle to "female"
	m = press(t, m, tea.KeyEnter)
	m = typeText(t, m, "NY")
	m = press(t, m, tea.KeyEnter)
	return m
}

// fillHealth walks step 1: conditions and medications left empty, exercise
// and diet selected, smoking left at "no".
func fillHealth(t *testing.T, m Model) Model {
	t.Helper()
	m = press(t, m, tea.KeyEnter) // conditions empty
	m = press(t, m, tea.KeyEnter) // medications empty
	m = press(t, m, tea.KeyRight) // exercise: Daily
	m = press(t, m, tea.KeyEnter)
	m = press(t, m, tea.KeyRight) // diet: Vegetarian
	m = press(t, m, tea.KeyEnter)
	m = press(t, m, tea.KeyEnter) // smoking stays "no"
	return m
}

func fillFinancial(t *testing.T, m Model) Model {
	t.Helper()
	m = typeText(t, m, "50000")
	m = press(t, m, tea.KeyEnter)
	m = typeText(t, m, "10000")
	m = press(t, m, tea.KeyEnter)
	m = press(t, m, tea.KeyRight) // insurance: "no" -> "yes"
	return m
}

func TestWizardBlocksInvalidStep(t *testing.T) {
	m := NewWizard(nil)

	// Invalid age, no gender selected, empty location.
	m = typeText(t, m, "Alice")
	m = press(t, m, tea.KeyEnter)
	m = typeText(t, m, "abc")
	m = press(t, m, tea.KeyEnter)
	m = press(t, m, tea.KeyEnter) // gender untouched
	m = press(t, m, tea.KeyEnter) // location empty, last field: validate step

	assert.Equal(t, 0, m.step, "step must not advance with invalid fields")
	assert.Equal(t, "Age must be between 1 and 100", m.errs["Age"])
	assert.Equal(t, "Please select a valid gender", m.errs["Gender"])
	assert.Equal(t, "Location is required", m.errs["Location"])
}

func TestWizardAdvancesWhenValid(t *testing.T) {
	m := NewWizard(nil)
	m = fillDemographic(t, m)
	assert.Equal(t, 1, m.step)
	assert.Empty(t, m.errs)
}

func TestWizardPreviousKeepsData(t *testing.T) {
	m := NewWizard(nil)
	m = fillDemographic(t, m)
	require.Equal(t, 1, m.step)

	m = press(t, m, tea.KeyEsc)
	assert.Equal(t, 0, m.step)
	assert.Equal(t, "Alice", m.name.Value())
	assert.Equal(t, "30", m.age.Value())
	assert.Equal(t, "female", m.gender.value())
	assert.Equal(t, "NY", m.location.Value())
}

func TestWizardSubmitPayload(t *testing.T) {
	var got dto.SubmitRequest
	calls := 0
	submit := func(req dto.SubmitRequest) (models.SurveyResponse, error) {
		calls++
		got = req
		return models.SurveyResponse{ResponseID: "r-1"}, nil
	}

	m := NewWizard(submit)
	m = fillDemographic(t, m)
	m = fillHealth(t, m)
	require.Equal(t, 2, m.step)
	m = fillFinancial(t, m)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	require.True(t, m.submitting, "submission must be in flight")
	require.NotNil(t, cmd)

	// Keys are ignored while the submission is in flight.
	m = press(t, m, tea.KeyEnter)
	assert.Zero(t, calls)

	// Skip the artificial delay: deliver the start message, run the
	// resulting command, and feed its outcome back in.
	next, cmd = m.Update(submitStartMsg{})
	m = next.(Model)
	require.NotNil(t, cmd)
	next, _ = m.Update(cmd())
	m = next.(Model)

	require.Equal(t, 1, calls)
	assert.True(t, m.Done)
	assert.Equal(t, "r-1", m.Result.ResponseID)

	var demographic models.Demographic
	require.NoError(t, json.Unmarshal(got.Demographic, &demographic))
	assert.Equal(t, "Alice", demographic.Name)
	assert.Equal(t, 30, demographic.Age)
	assert.Equal(t, "female", demographic.Gender)
	assert.Equal(t, "NY", demographic.Location)

	var health models.Health
	require.NoError(t, json.Unmarshal(got.Health, &health))
	assert.Equal(t, []string{"None"}, health.CurrentConditions)
	assert.Equal(t, []string{"None"}, health.Medications)
	assert.Equal(t, "Daily", health.Lifestyle.Exercise)
	assert.Equal(t, "Vegetarian", health.Lifestyle.Diet)
	assert.False(t, health.Lifestyle.Smoking)

	var financial models.Financial
	require.NoError(t, json.Unmarshal(got.Financial, &financial))
	assert.Equal(t, float64(50000), financial.Income)
	assert.Equal(t, float64(10000), financial.Savings)
	assert.True(t, financial.Insurance)
}

func TestWizardSubmitErrorStaysOpen(t *testing.T) {
	submit := func(dto.SubmitRequest) (models.SurveyResponse, error) {
		return models.SurveyResponse{}, errors.New("You have already submitted a response")
	}

	m := NewWizard(submit)
	m = fillDemographic(t, m)
	m = fillHealth(t, m)
	m = fillFinancial(t, m)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	next, cmd := m.Update(submitStartMsg{})
	m = next.(Model)
	next, _ = m.Update(cmd())
	m = next.(Model)

	assert.False(t, m.Done)
	assert.False(t, m.submitting)
	assert.Equal(t, "You have already submitted a response", m.SubmitErr)
}

func TestWizardAbort(t *testing.T) {
	m := NewWizard(nil)
	m = press(t, m, tea.KeyEsc) // esc on step 0 quits
	assert.True(t, m.Aborted)
}

func TestWizardViewShowsStep(t *testing.T) {
	m := NewWizard(nil)
	view := m.View()
	assert.Contains(t, view, "Step 1 of 3: Demographic Information")

	m = fillDemographic(t, m)
	view = m.View()
	assert.Contains(t, view, "Step 2 of 3: Health Information")
}
