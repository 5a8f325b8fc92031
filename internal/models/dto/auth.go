package dto

import "github.com/lifecheck/survey/internal/models"

type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// PublicUser is the user shape returned by the API; it never carries
// credential material.
type PublicUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
}

type LoginResponse struct {
	Token string     `json:"token"`
	User  PublicUser `json:"user"`
}

type SignupResponse struct {
	Message string     `json:"message"`
	Token   string     `json:"token"`
	User    PublicUser `json:"user"`
}

type MeResponse struct {
	User PublicUser `json:"user"`
}

type CheckResponseResult struct {
	HasResponse bool `json:"hasResponse"`
}

// PublicUserFrom strips a stored user down to its API representation.
func PublicUserFrom(u models.User) PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, IsAdmin: u.IsAdmin}
}
