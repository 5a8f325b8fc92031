package models

import (
	"encoding/json"
	"time"
)

// Demographic is the first survey section as the client assembles it. The
// server never decodes the sections; these types exist for client-side
// validation and display.
type Demographic struct {
	Name     string `json:"name"`
	Age      int    `json:"age"`
	Gender   string `json:"gender"`
	Location string `json:"location"`
}

// Lifestyle is the nested habits block inside the health section.
type Lifestyle struct {
	Exercise string `json:"exercise"`
	Diet     string `json:"diet"`
	Smoking  bool   `json:"smoking"`
}

// Health is the second survey section.
type Health struct {
	CurrentConditions []string  `json:"currentConditions"`
	Medications       []string  `json:"medications"`
	Lifestyle         Lifestyle `json:"lifestyle"`
}

// Financial is the third survey section.
type Financial struct {
	Income    float64 `json:"income"`
	Savings   float64 `json:"savings"`
	Insurance bool    `json:"insurance"`
}

// SurveyResponse is one user's single submitted questionnaire, joined with
// the owner's username on reads. The three sections are opaque to the
// server: they pass through and come back out byte for byte.
type SurveyResponse struct {
	ResponseID  string          `json:"response_id"`
	UserID      int64           `json:"user_id"`
	Username    string          `json:"username,omitempty"`
	Demographic json.RawMessage `json:"demographic"`
	Health      json.RawMessage `json:"health"`
	Financial   json.RawMessage `json:"financial"`
	CreatedAt   time.Time       `json:"created_at"`
}
