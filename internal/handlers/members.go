package handlers

import (
	"context"
	"net/http"

	"github.com/sbilibin2017/restchat/internal/models"
	"github.com/sbilibin2017/restchat/internal/views"
)

//go:generate mockgen -source=members.go -destination=mock_members.go -package=handlers

// MemberLister lists chat members.
type MemberLister interface {
	ListMembers(ctx context.Context, actorID, chatID int64) ([]models.User, error)
}

// MemberAdder adds chat members.
type MemberAdder interface {
	AddMember(ctx context.Context, actorID, chatID, userID int64) ([]models.User, error)
}

// MemberRemover removes chat members.
type MemberRemover interface {
	RemoveMember(ctx context.Context, actorID, chatID, userID int64) ([]models.User, error)
}

// NewListMembersHandler returns an HTTP handler listing a chat's members.
// @Summary List chat members
// @Tags members
// @Produce json
// @Param chat_id path int true "Chat ID"
// @Success 200 {object} views.UserCollection
// @Failure 403 {object} handlers.ErrorResponse
// @Failure 404 {object} handlers.EntityErrorResponse
// @Router /chats/{chat_id}/users [get]
// @Security BearerAuth
func NewListMembersHandler(svc MemberLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := currentUser(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		chatID, err := pathID(r, "chat_id")
		if err != nil {
			writeError(w, r, err)
			return
		}

		users, err := svc.ListMembers(r.Context(), actor.ID, chatID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, views.NewUserCollection(users))
	}
}

// NewAddMemberHandler returns an HTTP handler adding a user to a chat the caller owns.
// @Summary Add chat member
// @Description Idempotent. Adding an existing member returns the unchanged list.
// @Tags members
// @Produce json
// @Param chat_id path int true "Chat ID"
// @Param user_id path int true "User ID"
// @Success 201 {object} views.UserCollection
// @Failure 403 {object} handlers.ErrorResponse
// @Failure 404 {object} handlers.EntityErrorResponse
// @Router /chats/{chat_id}/users/{user_id} [put]
// @Security BearerAuth
func NewAddMemberHandler(svc MemberAdder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, chatID, userID, err := memberRequest(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		users, err := svc.AddMember(r.Context(), actor.ID, chatID, userID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, views.NewUserCollection(users))
	}
}

// NewRemoveMemberHandler returns an HTTP handler removing a user from a chat the caller owns.
// @Summary Remove chat member
// @Description Idempotent. The owner cannot be removed.
// @Tags members
// @Produce json
// @Param chat_id path int true "Chat ID"
// @Param user_id path int true "User ID"
// @Success 200 {object} views.UserCollection
// @Failure 403 {object} handlers.ErrorResponse
// @Failure 404 {object} handlers.EntityErrorResponse
// @Failure 422 {object} handlers.ErrorResponse "Owner cannot be removed"
// @Router /chats/{chat_id}/users/{user_id} [delete]
// @Security BearerAuth
func NewRemoveMemberHandler(svc MemberRemover) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, chatID, userID, err := memberRequest(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		users, err := svc.RemoveMember(r.Context(), actor.ID, chatID, userID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, views.NewUserCollection(users))
	}
}

func memberRequest(r *http.Request) (*models.User, int64, int64, error) {
	actor, err := currentUser(r)
	if err != nil {
		return nil, 0, 0, err
	}
	chatID, err := pathID(r, "chat_id")
	if err != nil {
		return nil, 0, 0, err
	}
	userID, err := pathID(r, "user_id")
	if err != nil {
		return nil, 0, 0, err
	}
	return actor, chatID, userID, nil
}
