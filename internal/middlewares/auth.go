package middlewares

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sbilibin2017/restchat/internal/errs"
	"github.com/sbilibin2017/restchat/internal/logger"
	"github.com/sbilibin2017/restchat/internal/models"
)

//go:generate mockgen -source=auth.go -destination=mock_auth.go -package=middlewares

// Tokener extracts the bearer token from a request.
type Tokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
}

// Authenticator resolves a token to the user it was issued for.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

type userKey struct{}

// WithUser stores the authenticated user in the context.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// UserFromContext returns the authenticated user, or nil outside AuthMiddleware.
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey{}).(*models.User)
	return user
}

type authErrorDetail struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

type authErrorResponse struct {
	Detail authErrorDetail `json:"detail"`
}

// AuthMiddleware returns a middleware that authenticates the bearer token and
// puts the resolved user into the request context.
func AuthMiddleware(tokener Tokener, auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			tokenString, err := tokener.GetTokenFromRequest(ctx, r)
			if err != nil {
				logger.Log.Infow("authorization failed", "err", err)
				unauthorized(w, err)
				return
			}

			user, err := auth.Authenticate(ctx, tokenString)
			if err != nil {
				if isAuthError(err) {
					logger.Log.Infow("authorization failed", "err", err)
					unauthorized(w, err)
					return
				}
				logger.Log.Errorw("failed to authenticate request", "err", err)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(authErrorResponse{Detail: authErrorDetail{
					Error:            "internal_error",
					ErrorDescription: "internal server error",
				}})
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(ctx, user)))
		})
	}
}

func isAuthError(err error) bool {
	return errors.Is(err, errs.ErrTokenInvalid) ||
		errors.Is(err, errs.ErrTokenExpired) ||
		errors.Is(err, errs.ErrNotAuthenticated) ||
		errors.Is(err, errs.ErrInvalidCredentials)
}

func unauthorized(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(authErrorResponse{Detail: authErrorDetail{
		Error:            "invalid_client",
		ErrorDescription: err.Error(),
	}})
}
