package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lifecheck/survey/internal/models"
	"github.com/lifecheck/survey/internal/storage"
)

// InsertResponse persists a user's single survey submission. The insert is
// conditional on the user_id unique constraint, so two concurrent submits
// from the same user cannot both land: the loser observes the conflict and
// reports the surviving response id.
func (s *Store) InsertResponse(ctx context.Context, userID int64, demographic, health, financial json.RawMessage) (models.SurveyResponse, error) {
	const query = `
	INSERT INTO survey_responses (response_id, user_id, demographic, health, financial)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (user_id) DO NOTHING
	RETURNING response_id, user_id, demographic, health, financial, created_at;
	`
	row := s.pool.QueryRow(ctx, query, uuid.NewString(), userID, demographic, health, financial)

	var resp models.SurveyResponse
	err := row.Scan(&resp.ResponseID, &resp.UserID, &resp.Demographic, &resp.Health, &resp.Financial, &resp.CreatedAt)
	if err == nil {
		return resp, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return models.SurveyResponse{}, fmt.Errorf("insert response: %w", err)
	}

	// Conflict path: recover the existing response id for the caller.
	const existing = `SELECT response_id FROM survey_responses WHERE user_id = $1;`
	var existingID string
	if err := s.pool.QueryRow(ctx, existing, userID).Scan(&existingID); err != nil {
		return models.SurveyResponse{}, fmt.Errorf("fetch existing response: %w", err)
	}
	return models.SurveyResponse{}, &storage.DuplicateResponseError{ResponseID: existingID}
}

// HasResponse reports whether the user already submitted.
func (s *Store) HasResponse(ctx context.Context, userID int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM survey_responses WHERE user_id = $1);`
	var exists bool
	if err := s.pool.QueryRow(ctx, query, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check response existence: %w", err)
	}
	return exists, nil
}

// ListResponses returns responses visible under scope, newest first, each
// joined with the owner's username. One query serves both admin and self
// visibility; the scope only adds a parameter.
func (s *Store) ListResponses(ctx context.Context, scope storage.Scope) ([]models.SurveyResponse, error) {
	query := `
	SELECT sr.response_id, sr.user_id, u.username, sr.demographic, sr.health, sr.financial, sr.created_at
	FROM survey_responses sr
	JOIN users u ON sr.user_id = u.id`
	var args []any
	if !scope.All() {
		query += ` WHERE sr.user_id = $1`
		args = append(args, scope.UserID())
	}
	query += ` ORDER BY sr.created_at DESC;`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	defer rows.Close()

	responses := []models.SurveyResponse{}
	for rows.Next() {
		resp, err := scanResponse(rows)
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	return responses, nil
}

// GetResponse fetches a single response by id, joined with the owner's
// username. Ownership checks are the caller's concern.
func (s *Store) GetResponse(ctx context.Context, responseID string) (models.SurveyResponse, error) {
	const query = `
	SELECT sr.response_id, sr.user_id, u.username, sr.demographic, sr.health, sr.financial, sr.created_at
	FROM survey_responses sr
	JOIN users u ON sr.user_id = u.id
	WHERE sr.response_id = $1;
	`
	return scanResponse(s.pool.QueryRow(ctx, query, responseID))
}

func scanResponse(row pgx.Row) (models.SurveyResponse, error) {
	var resp models.SurveyResponse
	err := row.Scan(&resp.ResponseID, &resp.UserID, &resp.Username, &resp.Demographic, &resp.Health, &resp.Financial, &resp.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.SurveyResponse{}, storage.ErrNotFound
		}
		return models.SurveyResponse{}, err
	}
	return resp, nil
}
