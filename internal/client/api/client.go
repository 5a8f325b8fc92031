// Package api implements the typed REST client used by the terminal app.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/lifecheck/survey/internal/models"
	"github.com/lifecheck/survey/internal/models/dto"
)

// Error is a server-reported failure, decoded from the {"error": ...} body.
// ResponseID is set on duplicate-submission rejections.
type Error struct {
	Status     int
	Message    string
	ResponseID string
}

func (e *Error) Error() string {
	return e.Message
}

// Client talks to the survey backend. Token is optional until the user
// signs in.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// New creates a client for the given server base URL (no trailing slash
// required).
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// SetToken installs the bearer token sent on subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Login exchanges credentials for a token and user record.
func (c *Client) Login(ctx context.Context, username, password string) (dto.LoginResponse, error) {
	var out dto.LoginResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", dto.CredentialsRequest{Username: username, Password: password}, &out)
	return out, err
}

// Signup creates an account and returns a token and user record.
func (c *Client) Signup(ctx context.Context, username, password string) (dto.SignupResponse, error) {
	var out dto.SignupResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/signup", dto.CredentialsRequest{Username: username, Password: password}, &out)
	return out, err
}

// Me fetches the signed-in user's current record.
func (c *Client) Me(ctx context.Context) (dto.PublicUser, error) {
	var out dto.MeResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/me", nil, &out); err != nil {
		return dto.PublicUser{}, err
	}
	return out.User, nil
}

// CheckResponse reports whether the signed-in user already submitted.
func (c *Client) CheckResponse(ctx context.Context) (bool, error) {
	var out dto.CheckResponseResult
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/check-response", nil, &out); err != nil {
		return false, err
	}
	return out.HasResponse, nil
}

// Submit sends the completed questionnaire.
func (c *Client) Submit(ctx context.Context, req dto.SubmitRequest) (models.SurveyResponse, error) {
	var out dto.SubmitResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/survey/submit", req, &out); err != nil {
		return models.SurveyResponse{}, err
	}
	return out.Data, nil
}

// Responses lists responses visible to the signed-in user.
func (c *Client) Responses(ctx context.Context) ([]models.SurveyResponse, error) {
	var out []models.SurveyResponse
	err := c.doJSON(ctx, http.MethodGet, "/api/survey/responses", nil, &out)
	return out, err
}

// Response fetches a single response by id.
func (c *Client) Response(ctx context.Context, id string) (models.SurveyResponse, error) {
	var out models.SurveyResponse
	err := c.doJSON(ctx, http.MethodGet, "/api/survey/response/"+id, nil, &out)
	return out, err
}

// errorBody is the wire shape of server-side failures.
type errorBody struct {
	Error      string `json:"error"`
	ResponseID string `json:"responseId"`
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &Error{Status: resp.StatusCode, Message: "request failed"}
		var eb errorBody
		if decodeErr := json.NewDecoder(resp.Body).Decode(&eb); decodeErr == nil && eb.Error != "" {
			apiErr.Message = eb.Error
			apiErr.ResponseID = eb.ResponseID
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
