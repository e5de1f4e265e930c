// Package views maps stored entities to response bodies. Every function is
// pure: inputs are never modified and collection order is deterministic.
package views

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/sbilibin2017/restchat/internal/models"
)

// User is the public projection of a user.
// swagger:model User
type User struct {
	ID        int64     `json:"id" example:"1"`
	Username  string    `json:"username" example:"alice"`
	Email     string    `json:"email" example:"alice@example.com"`
	CreatedAt time.Time `json:"created_at"`
}

// Chat is the public projection of a chat.
// swagger:model Chat
type Chat struct {
	ID        int64     `json:"id" example:"1"`
	Name      string    `json:"name" example:"general"`
	Owner     User      `json:"owner"`
	CreatedAt time.Time `json:"created_at"`
}

// Message is the public projection of a message.
// swagger:model Message
type Message struct {
	ID        int64     `json:"id" example:"1"`
	Text      string    `json:"text" example:"hi"`
	ChatID    int64     `json:"chat_id" example:"1"`
	User      User      `json:"user"`
	CreatedAt time.Time `json:"created_at"`
}

func NewUser(u models.User) User {
	return User{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

func NewChat(c models.Chat) Chat {
	return Chat{
		ID:        c.ID,
		Name:      c.Name,
		Owner:     NewUser(c.Owner),
		CreatedAt: c.CreatedAt,
	}
}

func NewMessage(m models.Message) Message {
	return Message{
		ID:        m.ID,
		Text:      m.Text,
		ChatID:    m.ChatID,
		User:      NewUser(m.Author),
		CreatedAt: m.CreatedAt,
	}
}

// NewUsers projects users ordered by id.
func NewUsers(users []models.User) []User {
	out := make([]User, 0, len(users))
	for _, u := range users {
		out = append(out, NewUser(u))
	}
	slices.SortStableFunc(out, func(a, b User) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// NewChats projects chats ordered by name, then id.
func NewChats(chats []models.Chat) []Chat {
	out := make([]Chat, 0, len(chats))
	for _, c := range chats {
		out = append(out, NewChat(c))
	}
	slices.SortStableFunc(out, func(a, b Chat) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// NewMessages projects messages ordered by creation time, then id.
func NewMessages(msgs []models.Message) []Message {
	out := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, NewMessage(m))
	}
	slices.SortStableFunc(out, func(a, b Message) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}
