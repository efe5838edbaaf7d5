package handler

import (
	"encoding/json"
	"net/http"

	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/domain"
	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/infrastructure/auth"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	jwtManager *auth.JWTManager
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(jwtManager *auth.JWTManager) *AuthHandler {
	return &AuthHandler{
		jwtManager: jwtManager,
	}
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents a login response
type LoginResponse struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

// UserInfo represents user information
type UserInfo struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// demoUsers are fixed accounts for local development. Real deployments plug
// in a user store with hashed passwords instead.
var demoUsers = map[string]struct {
	password string
	user     domain.User
}{
	"admin@artelab.io": {
		password: "admin123",
		user: domain.User{
			ID:     "user-admin-1",
			Email:  "admin@artelab.io",
			Name:   "Admin User",
			Role:   domain.RoleAdmin,
			Active: true,
		},
	},
	"client@artelab.io": {
		password: "client123",
		user: domain.User{
			ID:     "user-client-1",
			Email:  "client@artelab.io",
			Name:   "Client User",
			Role:   domain.RoleClient,
			Active: true,
		},
	},
	"creator@artelab.io": {
		password: "creator123",
		user: domain.User{
			ID:     "user-creator-1",
			Email:  "creator@artelab.io",
			Name:   "Creator User",
			Role:   domain.RoleCreator,
			Active: true,
		},
	},
}

// Login handles user login (simplified - no password hashing for demo)
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	entry, ok := demoUsers[req.Email]
	if !ok || entry.password != req.Password {
		writeError(w, http.StatusUnauthorized, "invalid credentials", "")
		return
	}
	user := entry.user

	token, err := h.jwtManager.Generate(&user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate token", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Token: token,
		User: UserInfo{
			ID:    user.ID,
			Email: user.Email,
			Role:  user.Role,
		},
	})
}

// GetCurrentUser returns the current authenticated user
func (h *AuthHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := domain.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	writeJSON(w, http.StatusOK, UserInfo{
		ID:    user.ID,
		Email: user.Email,
		Role:  user.Role,
	})
}
