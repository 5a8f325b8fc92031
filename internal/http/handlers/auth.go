package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/lifecheck/survey/internal/auth"
	"github.com/lifecheck/survey/internal/config"
	"github.com/lifecheck/survey/internal/http/respond"
	"github.com/lifecheck/survey/internal/middleware"
	"github.com/lifecheck/survey/internal/models"
	"github.com/lifecheck/survey/internal/models/dto"
	"github.com/lifecheck/survey/internal/storage"
)

// AuthHandler owns the login/signup/me/check-response endpoints.
type AuthHandler struct {
	users   storage.UserStore
	surveys storage.SurveyStore
	tokens  *auth.TokenManager
	cfg     *config.Config
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(users storage.UserStore, surveys storage.SurveyStore, tokens *auth.TokenManager, cfg *config.Config) *AuthHandler {
	return &AuthHandler{users: users, surveys: surveys, tokens: tokens, cfg: cfg}
}

// Register attaches public auth routes to the mux. Protected routes are
// wired by the server so they share the auth middleware chain.
func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/login", h.handleLogin)
	mux.HandleFunc("POST /api/auth/signup", h.handleSignup)
}

// RegisterProtected attaches routes that require a verified token.
func (h *AuthHandler) RegisterProtected(mux *http.ServeMux, protect func(http.Handler) http.Handler) {
	mux.Handle("GET /api/auth/me", protect(http.HandlerFunc(h.handleMe)))
	mux.Handle("GET /api/auth/check-response", protect(http.HandlerFunc(h.handleCheckResponse)))
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	user, err := h.users.FindByUsername(r.Context(), strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		log.Printf("login: fetch user %q: %v", req.Username, err)
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		respond.Error(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.tokens.Issue(user, h.cfg.LoginTTL)
	if err != nil {
		log.Printf("login: issue token: %v", err)
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respond.JSON(w, http.StatusOK, dto.LoginResponse{Token: token, User: dto.PublicUserFrom(user)})
}

func (h *AuthHandler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req dto.CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		respond.Error(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("signup: hash password: %v", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	created, err := h.users.CreateUser(r.Context(), models.User{
		Username:     username,
		PasswordHash: string(passwordHash),
	})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			respond.Error(w, http.StatusBadRequest, "Username already exists")
			return
		}
		log.Printf("signup: create user: %v", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	token, err := h.tokens.Issue(created, h.cfg.SignupTTL)
	if err != nil {
		log.Printf("signup: issue token: %v", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to create user")
		return
	}
	respond.JSON(w, http.StatusCreated, dto.SignupResponse{
		Message: "User created successfully",
		Token:   token,
		User:    dto.PublicUserFrom(created),
	})
}

func (h *AuthHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	// The role in the token is trusted for access decisions, but /me reads
	// the row back so the client sees current state.
	user, err := h.users.FindByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "User not found")
			return
		}
		log.Printf("me: fetch user %d: %v", claims.UserID, err)
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respond.JSON(w, http.StatusOK, dto.MeResponse{User: dto.PublicUserFrom(user)})
}

func (h *AuthHandler) handleCheckResponse(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	has, err := h.surveys.HasResponse(r.Context(), claims.UserID)
	if err != nil {
		log.Printf("check-response: user %d: %v", claims.UserID, err)
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respond.JSON(w, http.StatusOK, dto.CheckResponseResult{HasResponse: has})
}
