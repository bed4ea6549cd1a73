package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/taskflow/taskflow/internal/auth"
	"github.com/taskflow/taskflow/internal/entity"
	"github.com/taskflow/taskflow/internal/usecase"
	"github.com/taskflow/taskflow/pkg/logger"
)

// AuthHandler handles registration, login and the current-user endpoint.
type AuthHandler struct {
	userUseCase usecase.UserUseCase
	secret      []byte
	tokenTTL    time.Duration
}

func NewAuthHandler(userUseCase usecase.UserUseCase, secret []byte, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		userUseCase: userUseCase,
		secret:      secret,
		tokenTTL:    tokenTTL,
	}
}

// RegisterPublicRoutes mounts the routes reachable without a token.
func (h *AuthHandler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", h.Login)
}

// RegisterProtectedRoutes mounts the routes behind the auth middleware.
func (h *AuthHandler) RegisterProtectedRoutes(r chi.Router) {
	r.Get("/auth/me", h.Me)
}

// Register creates an account and issues a token.
// @Summary      Register
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials body entity.Credentials true "Name, email, password"
// @Success      201 {object} entity.User
// @Failure      400 {string} string "Validation failed or email taken"
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var creds entity.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		logger.Log.WithError(err).Warn("Failed to decode register request")
		respondWithDomainError(w, badBody(err))
		return
	}

	user, err := h.userUseCase.Register(r.Context(), creds)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	token, err := auth.GenerateToken(h.secret, user.ID, h.tokenTTL)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, envelope{
		"success": true,
		"token":   token,
		"user":    user,
	})
}

// Login verifies credentials and issues a token.
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials body entity.Credentials true "Email and password"
// @Success      200 {object} entity.User
// @Failure      401 {string} string "Invalid credentials"
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds entity.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		logger.Log.WithError(err).Warn("Failed to decode login request")
		respondWithDomainError(w, badBody(err))
		return
	}

	user, err := h.userUseCase.Login(r.Context(), creds)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	token, err := auth.GenerateToken(h.secret, user.ID, h.tokenTTL)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, envelope{
		"success": true,
		"token":   token,
		"user":    user,
	})
}

// Me returns the authenticated user.
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200 {object} entity.User
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	user, err := h.userUseCase.Get(r.Context(), userID)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithData(w, http.StatusOK, user)
}
