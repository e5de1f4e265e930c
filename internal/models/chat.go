package models

import "time"

// Chat represents a chat row joined with its owner.
type Chat struct {
	ID        int64     `db:"id"`         // Primary key
	Name      string    `db:"name"`       // Display name, mutable by the owner
	OwnerID   int64     `db:"owner_id"`   // Owning user, immutable
	CreatedAt time.Time `db:"created_at"` // Creation timestamp
	Owner     User      `db:"owner"`      // Owner resolved through a join on owner_id
}

// ChatDetails is a chat together with its members and messages.
type ChatDetails struct {
	Chat     Chat
	Members  []User
	Messages []Message
}
