// Package memory holds an in-memory storage implementation used by tests.
package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lifecheck/survey/internal/models"
	"github.com/lifecheck/survey/internal/storage"
)

var (
	_ storage.UserStore   = (*Store)(nil)
	_ storage.SurveyStore = (*Store)(nil)
)

// Store keeps users and survey responses in process memory. It honors the
// same invariants as the Postgres store: unique usernames and at most one
// response per user.
type Store struct {
	mu        sync.Mutex
	nextID    int64
	users     map[int64]models.User
	responses map[int64]models.SurveyResponse
}

// NewStore returns an empty in-memory store.
func NewStore() *Store {
	return &Store{
		nextID:    1,
		users:     make(map[int64]models.User),
		responses: make(map[int64]models.SurveyResponse),
	}
}

// CreateUser inserts a user, assigning the next id.
func (s *Store) CreateUser(_ context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == user.Username {
			return models.User{}, storage.ErrAlreadyExists
		}
	}
	user.ID = s.nextID
	user.CreatedAt = time.Now()
	s.nextID++
	s.users[user.ID] = user
	return user, nil
}

// FindByUsername fetches a user by username.
func (s *Store) FindByUsername(_ context.Context, username string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Username == username {
			return user, nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

// FindByID fetches a user by id.
func (s *Store) FindByID(_ context.Context, id int64) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return user, nil
}

// InsertResponse stores the user's single response, or reports the existing
// one. The mutex makes the existence check and insert atomic, mirroring the
// conditional insert in Postgres.
func (s *Store) InsertResponse(_ context.Context, userID int64, demographic, health, financial json.RawMessage) (models.SurveyResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.responses[userID]; ok {
		return models.SurveyResponse{}, &storage.DuplicateResponseError{ResponseID: existing.ResponseID}
	}

	resp := models.SurveyResponse{
		ResponseID:  uuid.NewString(),
		UserID:      userID,
		Demographic: demographic,
		Health:      health,
		Financial:   financial,
		CreatedAt:   time.Now(),
	}
	s.responses[userID] = resp
	return resp, nil
}

// HasResponse reports whether the user already submitted.
func (s *Store) HasResponse(_ context.Context, userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.responses[userID]
	return ok, nil
}

// ListResponses returns responses visible under scope, newest first, with
// the owner's username filled in.
func (s *Store) ListResponses(_ context.Context, scope storage.Scope) ([]models.SurveyResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.SurveyResponse{}
	for userID, resp := range s.responses {
		if !scope.All() && userID != scope.UserID() {
			continue
		}
		resp.Username = s.users[userID].Username
		out = append(out, resp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// GetResponse fetches a response by id with the owner's username filled in.
func (s *Store) GetResponse(_ context.Context, responseID string) (models.SurveyResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for userID, resp := range s.responses {
		if resp.ResponseID == responseID {
			resp.Username = s.users[userID].Username
			return resp, nil
		}
	}
	return models.SurveyResponse{}, storage.ErrNotFound
}
