package dto

import (
	"encoding/json"

	"github.com/lifecheck/survey/internal/models"
)

// SubmitRequest carries the three survey sections without imposing a
// schema on them; the server stores whatever JSON the caller sent.
type SubmitRequest struct {
	Demographic json.RawMessage `json:"demographic"`
	Health      json.RawMessage `json:"health"`
	Financial   json.RawMessage `json:"financial"`
}

type SubmitResponse struct {
	Message string                `json:"message"`
	Data    models.SurveyResponse `json:"data"`
}

// DuplicateSubmitError is the 400 body returned when a user who already
// submitted tries again; it carries the existing response id so the client
// can link to it.
type DuplicateSubmitError struct {
	Error      string `json:"error"`
	ResponseID string `json:"responseId"`
}
