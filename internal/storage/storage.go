package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lifecheck/survey/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// DuplicateResponseError is returned when a user who already submitted a
// survey response tries to insert another one. It carries the existing
// response id so handlers can report it to the caller.
type DuplicateResponseError struct {
	ResponseID string
}

func (e *DuplicateResponseError) Error() string {
	return fmt.Sprintf("user already has response %s", e.ResponseID)
}

// Scope is the row-visibility rule applied to response listings. It is
// decided once from the caller's verified claims and passed down, so query
// code never re-derives roles.
type Scope struct {
	all    bool
	userID int64
}

// ScopeAll makes every row visible (admin callers).
func ScopeAll() Scope { return Scope{all: true} }

// ScopeSelf restricts visibility to rows owned by userID.
func ScopeSelf(userID int64) Scope { return Scope{userID: userID} }

// All reports whether the scope covers every row.
func (s Scope) All() bool { return s.all }

// UserID returns the owning user for a self scope.
func (s Scope) UserID() int64 { return s.userID }

// UserStore captures user persistence operations needed by handlers.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	FindByID(ctx context.Context, id int64) (models.User, error)
}

// SurveyStore captures survey response persistence. The three sections are
// opaque JSON documents stored as given. InsertResponse is atomic with
// respect to the one-response-per-user rule: concurrent inserts for the
// same user yield exactly one row, the losers get *DuplicateResponseError.
type SurveyStore interface {
	InsertResponse(ctx context.Context, userID int64, demographic, health, financial json.RawMessage) (models.SurveyResponse, error)
	HasResponse(ctx context.Context, userID int64) (bool, error)
	ListResponses(ctx context.Context, scope Scope) ([]models.SurveyResponse, error)
	GetResponse(ctx context.Context, responseID string) (models.SurveyResponse, error)
}
