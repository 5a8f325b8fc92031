package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/lifecheck/survey/internal/http/respond"
	"github.com/lifecheck/survey/internal/middleware"
	"github.com/lifecheck/survey/internal/models/dto"
	"github.com/lifecheck/survey/internal/storage"
)

// SurveyHandler owns the submit/responses/response endpoints.
type SurveyHandler struct {
	surveys storage.SurveyStore
}

// NewSurveyHandler constructs the handler.
func NewSurveyHandler(surveys storage.SurveyStore) *SurveyHandler {
	return &SurveyHandler{surveys: surveys}
}

// RegisterProtected attaches survey routes behind the auth middleware.
func (h *SurveyHandler) RegisterProtected(mux *http.ServeMux, protect func(http.Handler) http.Handler) {
	mux.Handle("POST /api/survey/submit", protect(http.HandlerFunc(h.handleSubmit)))
	mux.Handle("GET /api/survey/responses", protect(http.HandlerFunc(h.handleListResponses)))
	mux.Handle("GET /api/survey/response/{id}", protect(http.HandlerFunc(h.handleGetResponse)))
}

func (h *SurveyHandler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req dto.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	// Blob contents are stored as given; the client validates fields before
	// submission and the sections stay opaque to the server.
	created, err := h.surveys.InsertResponse(r.Context(), claims.UserID, req.Demographic, req.Health, req.Financial)
	if err != nil {
		var dup *storage.DuplicateResponseError
		if errors.As(err, &dup) {
			respond.JSON(w, http.StatusBadRequest, dto.DuplicateSubmitError{
				Error:      "You have already submitted a response",
				ResponseID: dup.ResponseID,
			})
			return
		}
		log.Printf("submit: user %d: %v", claims.UserID, err)
		respond.Error(w, http.StatusInternalServerError, "Failed to submit survey")
		return
	}

	respond.JSON(w, http.StatusCreated, dto.SubmitResponse{
		Message: "Survey submitted successfully",
		Data:    created,
	})
}

func (h *SurveyHandler) handleListResponses(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	// Visibility is decided once here from the verified claims; the store
	// only sees the resulting scope.
	scope := storage.ScopeSelf(claims.UserID)
	if claims.IsAdmin {
		scope = storage.ScopeAll()
	}

	responses, err := h.surveys.ListResponses(r.Context(), scope)
	if err != nil {
		log.Printf("list responses: user %d: %v", claims.UserID, err)
		respond.Error(w, http.StatusInternalServerError, "Failed to fetch survey responses")
		return
	}
	respond.JSON(w, http.StatusOK, responses)
}

func (h *SurveyHandler) handleGetResponse(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		respond.Error(w, http.StatusNotFound, "Survey response not found")
		return
	}

	resp, err := h.surveys.GetResponse(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Survey response not found")
			return
		}
		log.Printf("get response %s: %v", id, err)
		respond.Error(w, http.StatusInternalServerError, "Failed to fetch survey response")
		return
	}

	if !claims.IsAdmin && resp.UserID != claims.UserID {
		respond.Error(w, http.StatusForbidden, "Access denied")
		return
	}
	respond.JSON(w, http.StatusOK, resp)
}
