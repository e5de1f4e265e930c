package handlers

import (
	"context"
	"net/http"

	"github.com/sbilibin2017/restchat/internal/errs"
	"github.com/sbilibin2017/restchat/internal/models"
	"github.com/sbilibin2017/restchat/internal/views"
)

//go:generate mockgen -source=users.go -destination=mock_users.go -package=handlers

// UserLister lists all users.
type UserLister interface {
	List(ctx context.Context) ([]models.User, error)
}

// UserGetter looks up a user by id.
type UserGetter interface {
	Get(ctx context.Context, id int64) (*models.User, error)
}

// UserChatsLister lists the chats of a user.
type UserChatsLister interface {
	ListChats(ctx context.Context, userID int64) ([]models.Chat, error)
}

// ProfileUpdater updates the caller's profile.
type ProfileUpdater interface {
	UpdateProfile(ctx context.Context, actorID int64, username, email *string) (*models.User, error)
}

// UpdateProfileRequest represents the JSON body for a profile update.
// Omitted fields are left unchanged.
// swagger:model UpdateProfileRequest
type UpdateProfileRequest struct {
	Username *string `json:"username,omitempty" example:"alice"`
	Email    *string `json:"email,omitempty" example:"alice@example.com"`
}

// NewListUsersHandler returns an HTTP handler listing all users.
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {object} views.UserCollection
// @Failure 500 {object} handlers.ErrorResponse
// @Router /users [get]
func NewListUsersHandler(svc UserLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := svc.List(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, views.NewUserCollection(users))
	}
}

// NewGetUserHandler returns an HTTP handler fetching one user.
// @Summary Get user
// @Tags users
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {object} views.UserResponse
// @Failure 404 {object} handlers.EntityErrorResponse
// @Router /users/{user_id} [get]
func NewGetUserHandler(svc UserGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "user_id")
		if err != nil {
			writeError(w, r, err)
			return
		}

		user, err := svc.Get(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, views.NewUserResponse(*user))
	}
}

// NewListUserChatsHandler returns an HTTP handler listing a user's chats.
// @Summary List chats of a user
// @Tags users
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {object} views.ChatCollection
// @Failure 404 {object} handlers.EntityErrorResponse
// @Router /users/{user_id}/chats [get]
func NewListUserChatsHandler(svc UserChatsLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "user_id")
		if err != nil {
			writeError(w, r, err)
			return
		}

		chats, err := svc.ListChats(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, views.NewChatCollection(chats))
	}
}

// NewGetMeHandler returns an HTTP handler for the caller's own profile.
// @Summary Get current user
// @Tags users
// @Produce json
// @Success 200 {object} views.UserResponse
// @Failure 401 {object} handlers.ErrorResponse
// @Router /users/me [get]
// @Security BearerAuth
func NewGetMeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := currentUser(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, views.NewUserResponse(*user))
	}
}

// NewUpdateMeHandler returns an HTTP handler updating the caller's profile.
// @Summary Update current user
// @Tags users
// @Accept json
// @Produce json
// @Param updateProfileRequest body handlers.UpdateProfileRequest true "Fields to change"
// @Success 200 {object} views.UserResponse
// @Failure 400 {object} handlers.ErrorResponse
// @Failure 401 {object} handlers.ErrorResponse
// @Failure 422 {object} handlers.EntityErrorResponse "Username or email already exists"
// @Router /users/me [put]
// @Security BearerAuth
func NewUpdateMeHandler(svc ProfileUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := currentUser(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		var req UpdateProfileRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		if req.Username != nil {
			if *req.Username == "" {
				writeError(w, r, errs.Validation("username must not be empty"))
				return
			}
			if err := storable("username", *req.Username); err != nil {
				writeError(w, r, err)
				return
			}
		}
		if req.Email != nil {
			if *req.Email == "" {
				writeError(w, r, errs.Validation("email must not be empty"))
				return
			}
			if err := storable("email", *req.Email); err != nil {
				writeError(w, r, err)
				return
			}
		}

		user, err := svc.UpdateProfile(r.Context(), actor.ID, req.Username, req.Email)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, views.NewUserResponse(*user))
	}
}
