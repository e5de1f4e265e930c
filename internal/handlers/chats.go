package handlers

import (
	"context"
	"net/http"

	"github.com/sbilibin2017/restchat/internal/models"
	"github.com/sbilibin2017/restchat/internal/views"
)

//go:generate mockgen -source=chats.go -destination=mock_chats.go -package=handlers

// ChatLister lists the caller's chats.
type ChatLister interface {
	ListForUser(ctx context.Context, actorID int64) ([]models.Chat, error)
}

// ChatCreator creates chats.
type ChatCreator interface {
	Create(ctx context.Context, actorID int64, name string) (*models.Chat, error)
}

// ChatGetter fetches a chat with its members and messages.
type ChatGetter interface {
	Get(ctx context.Context, actorID, chatID int64) (*models.ChatDetails, error)
}

// ChatRenamer renames chats.
type ChatRenamer interface {
	Rename(ctx context.Context, actorID, chatID int64, name string) (*models.Chat, error)
}

// ChatRequest represents the JSON body for creating or renaming a chat.
// swagger:model ChatRequest
type ChatRequest struct {
	// Name
	// required: true
	Name string `json:"name" example:"general"`
}

// NewListChatsHandler returns an HTTP handler listing the caller's chats.
// @Summary List my chats
// @Tags chats
// @Produce json
// @Success 200 {object} views.ChatCollection
// @Failure 401 {object} handlers.ErrorResponse
// @Router /chats [get]
// @Security BearerAuth
func NewListChatsHandler(svc ChatLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := currentUser(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		chats, err := svc.ListForUser(r.Context(), actor.ID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, views.NewChatCollection(chats))
	}
}

// NewCreateChatHandler returns an HTTP handler creating a chat owned by the caller.
// @Summary Create chat
// @Tags chats
// @Accept json
// @Produce json
// @Param chatRequest body handlers.ChatRequest true "Chat name"
// @Success 201 {object} views.ChatResponse
// @Failure 400 {object} handlers.ErrorResponse
// @Failure 401 {object} handlers.ErrorResponse
// @Router /chats [post]
// @Security BearerAuth
func NewCreateChatHandler(svc ChatCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := currentUser(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		var req ChatRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		if err := required("name", req.Name); err != nil {
			writeError(w, r, err)
			return
		}

		chat, err := svc.Create(r.Context(), actor.ID, req.Name)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, views.NewChatResponse(*chat))
	}
}

// NewGetChatHandler returns an HTTP handler fetching a chat the caller belongs to.
// @Summary Get chat
// @Description Returns the chat with message and member counts. include=messages,users adds the lists.
// @Tags chats
// @Produce json
// @Param chat_id path int true "Chat ID"
// @Param include query []string false "messages and/or users" collectionFormat(csv)
// @Success 200 {object} views.ChatResponse
// @Failure 400 {object} handlers.ErrorResponse
// @Failure 401 {object} handlers.ErrorResponse
// @Failure 403 {object} handlers.ErrorResponse
// @Failure 404 {object} handlers.EntityErrorResponse
// @Router /chats/{chat_id} [get]
// @Security BearerAuth
func NewGetChatHandler(svc ChatGetter) http.HandlerFunc {
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
		include, err := parseInclude(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		details, err := svc.Get(r.Context(), actor.ID, chatID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, views.NewChatDetailsResponse(*details, include))
	}
}

// NewRenameChatHandler returns an HTTP handler renaming a chat the caller owns.
// @Summary Rename chat
// @Tags chats
// @Accept json
// @Produce json
// @Param chat_id path int true "Chat ID"
// @Param chatRequest body handlers.ChatRequest true "New name"
// @Success 200 {object} views.ChatResponse
// @Failure 400 {object} handlers.ErrorResponse
// @Failure 403 {object} handlers.ErrorResponse
// @Failure 404 {object} handlers.EntityErrorResponse
// @Router /chats/{chat_id} [put]
// @Security BearerAuth
func NewRenameChatHandler(svc ChatRenamer) http.HandlerFunc {
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

		var req ChatRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		if err := required("name", req.Name); err != nil {
			writeError(w, r, err)
			return
		}

		chat, err := svc.Rename(r.Context(), actor.ID, chatID, req.Name)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, views.NewChatResponse(*chat))
	}
}
