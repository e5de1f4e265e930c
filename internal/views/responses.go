package views

import (
	"time"

	"github.com/sbilibin2017/restchat/internal/models"
)

// Meta carries the size of a collection.
type Meta struct {
	Count int `json:"count" example:"1"`
}

// ChatMeta carries the sizes of a chat's sub-resources.
type ChatMeta struct {
	MessageCount int `json:"message_count" example:"1"`
	UserCount    int `json:"user_count" example:"2"`
}

type UserResponse struct {
	User User `json:"user"`
}

type UserCollection struct {
	Meta  Meta   `json:"meta"`
	Users []User `json:"users"`
}

// ChatResponse wraps a single chat. Meta and the included sub-resources are
// omitted entirely unless set; an included but empty list encodes as [].
type ChatResponse struct {
	Meta     *ChatMeta  `json:"meta,omitempty"`
	Chat     Chat       `json:"chat"`
	Messages *[]Message `json:"messages,omitempty"`
	Users    *[]User    `json:"users,omitempty"`
}

type ChatCollection struct {
	Meta  Meta   `json:"meta"`
	Chats []Chat `json:"chats"`
}

type MessageResponse struct {
	Message Message `json:"message"`
}

type MessageCollection struct {
	Meta     Meta      `json:"meta"`
	Messages []Message `json:"messages"`
}

// AccessToken is returned by the token endpoint.
type AccessToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type" example:"Bearer"`
	ExpiresIn   int    `json:"expires_in" example:"3600"`
}

// Include selects optional sub-resources of a single chat.
type Include struct {
	Messages bool
	Users    bool
}

func NewUserResponse(u models.User) UserResponse {
	return UserResponse{User: NewUser(u)}
}

func NewUserCollection(users []models.User) UserCollection {
	return UserCollection{Meta: Meta{Count: len(users)}, Users: NewUsers(users)}
}

func NewChatResponse(c models.Chat) ChatResponse {
	return ChatResponse{Chat: NewChat(c)}
}

// NewChatDetailsResponse builds the single-chat body with counts and the requested includes.
func NewChatDetailsResponse(d models.ChatDetails, include Include) ChatResponse {
	resp := ChatResponse{
		Meta: &ChatMeta{
			MessageCount: len(d.Messages),
			UserCount:    len(d.Members),
		},
		Chat: NewChat(d.Chat),
	}
	if include.Messages {
		msgs := NewMessages(d.Messages)
		resp.Messages = &msgs
	}
	if include.Users {
		users := NewUsers(d.Members)
		resp.Users = &users
	}
	return resp
}

func NewChatCollection(chats []models.Chat) ChatCollection {
	return ChatCollection{Meta: Meta{Count: len(chats)}, Chats: NewChats(chats)}
}

func NewMessageResponse(m models.Message) MessageResponse {
	return MessageResponse{Message: NewMessage(m)}
}

func NewMessageCollection(msgs []models.Message) MessageCollection {
	return MessageCollection{Meta: Meta{Count: len(msgs)}, Messages: NewMessages(msgs)}
}

func NewAccessToken(token string, ttl time.Duration) AccessToken {
	return AccessToken{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(ttl / time.Second),
	}
}
