package handlers

import (
	"context"
	"net/http"

	"github.com/sbilibin2017/restchat/internal/models"
	"github.com/sbilibin2017/restchat/internal/views"
)

//go:generate mockgen -source=messages.go -destination=mock_messages.go -package=handlers

// MessageLister lists the messages of a chat.
type MessageLister interface {
	ListMessages(ctx context.Context, actorID, chatID int64) ([]models.Message, error)
}

// MessagePoster posts messages.
type MessagePoster interface {
	PostMessage(ctx context.Context, actorID, chatID int64, text string) (*models.Message, error)
}

// MessageEditor edits message text.
type MessageEditor interface {
	EditMessage(ctx context.Context, actorID, chatID, messageID int64, text string) (*models.Message, error)
}

// MessageDeleter deletes messages.
type MessageDeleter interface {
	DeleteMessage(ctx context.Context, actorID, chatID, messageID int64) error
}

// MessageRequest represents the JSON body for posting or editing a message.
// swagger:model MessageRequest
type MessageRequest struct {
	// Text
	// required: true
	Text string `json:"text" example:"hi"`
}

// NewListMessagesHandler returns an HTTP handler listing a chat's messages.
// @Summary List messages
// @Tags messages
// @Produce json
// @Param chat_id path int true "Chat ID"
// @Success 200 {object} views.MessageCollection
// @Failure 403 {object} handlers.ErrorResponse
// @Failure 404 {object} handlers.EntityErrorResponse
// @Router /chats/{chat_id}/messages [get]
// @Security BearerAuth
func NewListMessagesHandler(svc MessageLister) http.HandlerFunc {
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

		msgs, err := svc.ListMessages(r.Context(), actor.ID, chatID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, views.NewMessageCollection(msgs))
	}
}

// NewPostMessageHandler returns an HTTP handler posting a message as the caller.
// @Summary Post message
// @Tags messages
// @Accept json
// @Produce json
// @Param chat_id path int true "Chat ID"
// @Param messageRequest body handlers.MessageRequest true "Message text"
// @Success 201 {object} views.MessageResponse
// @Failure 400 {object} handlers.ErrorResponse
// @Failure 403 {object} handlers.ErrorResponse
// @Failure 404 {object} handlers.EntityErrorResponse
// @Router /chats/{chat_id}/messages [post]
// @Security BearerAuth
func NewPostMessageHandler(svc MessagePoster) http.HandlerFunc {
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

		var req MessageRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		if err := required("text", req.Text); err != nil {
			writeError(w, r, err)
			return
		}

		msg, err := svc.PostMessage(r.Context(), actor.ID, chatID, req.Text)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, views.NewMessageResponse(*msg))
	}
}

// NewEditMessageHandler returns an HTTP handler editing a message the caller wrote.
// @Summary Edit message
// @Tags messages
// @Accept json
// @Produce json
// @Param chat_id path int true "Chat ID"
// @Param message_id path int true "Message ID"
// @Param messageRequest body handlers.MessageRequest true "New text"
// @Success 200 {object} views.MessageResponse
// @Failure 400 {object} handlers.ErrorResponse
// @Failure 403 {object} handlers.ErrorResponse
// @Failure 404 {object} handlers.EntityErrorResponse
// @Router /chats/{chat_id}/messages/{message_id} [put]
// @Security BearerAuth
func NewEditMessageHandler(svc MessageEditor) http.HandlerFunc {
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
		messageID, err := pathID(r, "message_id")
		if err != nil {
			writeError(w, r, err)
			return
		}

		var req MessageRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		if err := required("text", req.Text); err != nil {
			writeError(w, r, err)
			return
		}

		msg, err := svc.EditMessage(r.Context(), actor.ID, chatID, messageID, req.Text)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, views.NewMessageResponse(*msg))
	}
}

// NewDeleteMessageHandler returns an HTTP handler deleting a message the caller wrote.
// @Summary Delete message
// @Tags messages
// @Param chat_id path int true "Chat ID"
// @Param message_id path int true "Message ID"
// @Success 204 "Deleted"
// @Failure 403 {object} handlers.ErrorResponse
// @Failure 404 {object} handlers.EntityErrorResponse
// @Router /chats/{chat_id}/messages/{message_id} [delete]
// @Security BearerAuth
func NewDeleteMessageHandler(svc MessageDeleter) http.HandlerFunc {
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
		messageID, err := pathID(r, "message_id")
		if err != nil {
			writeError(w, r, err)
			return
		}

		if err := svc.DeleteMessage(r.Context(), actor.ID, chatID, messageID); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
