package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifecheck/survey/internal/models/dto"
)

func TestLogin(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)

		var req dto.CredentialsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "alice", req.Username)
		assert.Equal(t, "password1", req.Password)

		json.NewEncoder(w).Encode(dto.LoginResponse{
			Token: "token-123",
			User:  dto.PublicUser{ID: 1, Username: "alice"},
		})
	}))
	defer ts.Close()

	c := New(ts.URL + "/") // trailing slash is tolerated
	out, err := c.Login(context.Background(), "alice", "password1")
	require.NoError(t, err)
	assert.Equal(t, "token-123", out.Token)
	assert.Equal(t, "alice", out.User.Username)
}

func TestBearerTokenSent(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(dto.CheckResponseResult{HasResponse: true})
	}))
	defer ts.Close()

	c := New(ts.URL)
	c.SetToken("token-123")
	has, err := c.CheckResponse(context.Background())
	require.NoError(t, err)
	assert.True(t, has)
}

func TestServerErrorDecoded(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"error":      "You have already submitted a response",
			"responseId": "r-1",
		})
	}))
	defer ts.Close()

	c := New(ts.URL)
	_, err := c.Submit(context.Background(), dto.SubmitRequest{})
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "You have already submitted a response", apiErr.Message)
	assert.Equal(t, "r-1", apiErr.ResponseID)
}

func TestUndecodableErrorBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway exploded", http.StatusBadGateway)
	}))
	defer ts.Close()

	c := New(ts.URL)
	_, err := c.Me(context.Background())
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "request failed", apiErr.Message)
}

func TestTransportFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close() // nothing listening anymore

	c := New(ts.URL)
	_, err := c.Me(context.Background())
	require.Error(t, err)
	var apiErr *Error
	assert.False(t, errors.As(err, &apiErr), "transport failures are not api errors")
	assert.Contains(t, err.Error(), "request failed")
}
