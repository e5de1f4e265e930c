package repositories

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/restchat/internal/logger"
)

// migrations create the schema idempotently. Constraint names are referenced
// by classify and must stay in sync with it.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username TEXT NOT NULL,
		email TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT users_username_key UNIQUE (username),
		CONSTRAINT users_email_key UNIQUE (email)
	);`,
	`CREATE TABLE IF NOT EXISTS chats (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		owner_id BIGINT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT chats_owner_id_fkey FOREIGN KEY (owner_id) REFERENCES users(id)
	);`,
	`CREATE TABLE IF NOT EXISTS chat_members (
		chat_id BIGINT NOT NULL,
		user_id BIGINT NOT NULL,
		PRIMARY KEY (chat_id, user_id),
		CONSTRAINT chat_members_chat_id_fkey FOREIGN KEY (chat_id) REFERENCES chats(id) ON DELETE CASCADE,
		CONSTRAINT chat_members_user_id_fkey FOREIGN KEY (user_id) REFERENCES users(id)
	);`,
	`CREATE INDEX IF NOT EXISTS chat_members_user_id_idx ON chat_members (user_id);`,
	`CREATE TABLE IF NOT EXISTS messages (
		id BIGSERIAL PRIMARY KEY,
		text TEXT NOT NULL,
		chat_id BIGINT NOT NULL,
		author_id BIGINT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT messages_chat_id_fkey FOREIGN KEY (chat_id) REFERENCES chats(id) ON DELETE CASCADE,
		CONSTRAINT messages_author_id_fkey FOREIGN KEY (author_id) REFERENCES users(id)
	);`,
	`CREATE INDEX IF NOT EXISTS messages_chat_id_created_at_idx ON messages (chat_id, created_at);`,
}

// Migrate applies the schema.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for i, m := range migrations {
		if _, err := db.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	logger.Log.Infow("schema migrated", "migrations", len(migrations))
	return nil
}
