package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/sbilibin2017/restchat/internal/errs"
	"github.com/sbilibin2017/restchat/internal/middlewares"
	"github.com/sbilibin2017/restchat/internal/models"
	"github.com/sbilibin2017/restchat/internal/views"
)

//go:generate mockgen -source=auth.go -destination=mock_auth.go -package=handlers

// Registerer defines the interface that the service must implement.
type Registerer interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
}

// TokenIssuer defines the interface that the login service must implement.
type TokenIssuer interface {
	Login(ctx context.Context, username, password string) (string, error)
	TokenTTL() time.Duration
}

// RegisterRequest represents the JSON body for user registration
// swagger:model RegisterRequest
type RegisterRequest struct {
	// Username
	// required: true
	Username string `json:"username" example:"alice"`

	// Email
	// required: true
	Email string `json:"email" example:"alice@example.com"`

	// Password
	// required: true
	Password string `json:"password" example:"secret123"`
}

// NewRegistrationHandler returns an HTTP handler for user registration.
// @Summary Register a new user
// @Description Creates a new user account. Username and email must be unique.
// @Tags auth
// @Accept json
// @Produce json
// @Param registerRequest body handlers.RegisterRequest true "User registration request"
// @Success 201 {object} views.UserResponse "User successfully registered"
// @Failure 400 {object} handlers.ErrorResponse "Invalid request"
// @Failure 422 {object} handlers.EntityErrorResponse "Username or email already exists"
// @Router /auth/registration [post]
func NewRegistrationHandler(svc Registerer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		if err := required("username", req.Username, "email", req.Email, "password", req.Password); err != nil {
			writeError(w, r, err)
			return
		}

		user, err := svc.Register(r.Context(), req.Username, req.Email, req.Password)
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, views.NewUserResponse(*user))
	}
}

// NewTokenHandler returns an HTTP handler that exchanges credentials for an access token.
// @Summary Issue an access token
// @Description OAuth2 password flow. Accepts form fields username and password.
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Username"
// @Param password formData string true "Password"
// @Success 200 {object} views.AccessToken "Access token"
// @Failure 400 {object} handlers.ErrorResponse "Invalid request"
// @Failure 401 {object} handlers.ErrorResponse "Invalid credentials"
// @Router /auth/token [post]
func NewTokenHandler(svc TokenIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			writeError(w, r, errs.Validation("malformed form body"))
			return
		}
		username, password := r.PostForm.Get("username"), r.PostForm.Get("password")
		if err := required("username", username, "password", password); err != nil {
			writeError(w, r, err)
			return
		}

		token, err := svc.Login(r.Context(), username, password)
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, views.NewAccessToken(token, svc.TokenTTL()))
	}
}

// currentUser returns the user put into the context by the auth middleware.
func currentUser(r *http.Request) (*models.User, error) {
	user := middlewares.UserFromContext(r.Context())
	if user == nil {
		return nil, errs.ErrNotAuthenticated
	}
	return user, nil
}
