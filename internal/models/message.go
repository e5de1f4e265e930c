package models

import "time"

// Message represents a message row joined with its author.
type Message struct {
	ID        int64     `db:"id"`         // Primary key
	Text      string    `db:"text"`       // Body, mutable by the author
	ChatID    int64     `db:"chat_id"`    // Containing chat, immutable
	AuthorID  int64     `db:"author_id"`  // Author, immutable
	CreatedAt time.Time `db:"created_at"` // Creation timestamp
	Author    User      `db:"author"`     // Author resolved through a join on author_id
}
