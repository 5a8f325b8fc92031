package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifecheck/survey/internal/models"
	"github.com/lifecheck/survey/internal/storage"
)

func seedUser(t *testing.T, s *Store, username string) models.User {
	t.Helper()
	user, err := s.CreateUser(context.Background(), models.User{Username: username, PasswordHash: "x"})
	require.NoError(t, err)
	return user
}

func demographicFor(name string) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(`{"name":%q}`, name))
}

func TestDuplicateUsername(t *testing.T) {
	s := NewStore()
	seedUser(t, s, "alice")

	_, err := s.CreateUser(context.Background(), models.User{Username: "alice", PasswordHash: "y"})
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)
}

func TestInsertResponseIsOneShot(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	alice := seedUser(t, s, "alice")

	first, err := s.InsertResponse(ctx, alice.ID, demographicFor("Alice"), json.RawMessage(`{}`), json.RawMessage(`{}`))
	require.NoError(t, err)
	require.NotEmpty(t, first.ResponseID)

	_, err = s.InsertResponse(ctx, alice.ID, demographicFor("Other"), json.RawMessage(`{}`), json.RawMessage(`{}`))
	var dup *storage.DuplicateResponseError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, first.ResponseID, dup.ResponseID)

	// First row is untouched.
	got, err := s.GetResponse(ctx, first.ResponseID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Alice"}`, string(got.Demographic))
	assert.Equal(t, "alice", got.Username)
}

func TestListResponsesScope(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	alice := seedUser(t, s, "alice")
	carol := seedUser(t, s, "carol")

	_, err := s.InsertResponse(ctx, alice.ID, demographicFor("Alice"), json.RawMessage(`{}`), json.RawMessage(`{}`))
	require.NoError(t, err)
	_, err = s.InsertResponse(ctx, carol.ID, demographicFor("Carol"), json.RawMessage(`{}`), json.RawMessage(`{}`))
	require.NoError(t, err)

	own, err := s.ListResponses(ctx, storage.ScopeSelf(alice.ID))
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, alice.ID, own[0].UserID)

	all, err := s.ListResponses(ctx, storage.ScopeAll())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGetResponseNotFound(t *testing.T) {
	s := NewStore()
	_, err := s.GetResponse(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
