package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/restchat/internal/errs"
	"github.com/sbilibin2017/restchat/internal/models"
)

// chatProjection selects a chat from relation c joined with its owner.
const chatProjection = `
	SELECT c.id, c.name, c.owner_id, c.created_at,
	       u.id AS "owner.id", u.username AS "owner.username",
	       u.email AS "owner.email", u.created_at AS "owner.created_at"
`

type ChatReadRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewChatReadRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *ChatReadRepository {
	return &ChatReadRepository{db: db, txGetter: txGetter}
}

// GetByID returns the chat or errs.NotFoundError.
func (r *ChatReadRepository) GetByID(ctx context.Context, id int64) (*models.Chat, error) {
	const query = chatProjection + `
		FROM chats c
		JOIN users u ON u.id = c.owner_id
		WHERE c.id = $1
	`

	var chat models.Chat
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &chat, query, id)
	logQuery(query, []any{id}, chat.ID, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("Chat", id)
	}
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

// ListByUserID returns the chats the user is a member of.
func (r *ChatReadRepository) ListByUserID(ctx context.Context, userID int64) ([]models.Chat, error) {
	const query = chatProjection + `
		FROM chats c
		JOIN chat_members m ON m.chat_id = c.id
		JOIN users u ON u.id = c.owner_id
		WHERE m.user_id = $1
		ORDER BY c.name, c.id
	`

	chats := []models.Chat{}
	err := sqlx.SelectContext(ctx, executor(ctx, r.db, r.txGetter), &chats, query, userID)
	logQuery(query, []any{userID}, len(chats), err)

	if err != nil {
		return nil, err
	}
	return chats, nil
}

// IsMember reports whether the user belongs to the chat.
func (r *ChatReadRepository) IsMember(ctx context.Context, chatID, userID int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM chat_members WHERE chat_id = $1 AND user_id = $2)`

	var ok bool
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &ok, query, chatID, userID)
	logQuery(query, []any{chatID, userID}, ok, err)

	return ok, err
}

type ChatWriteRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewChatWriteRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *ChatWriteRepository {
	return &ChatWriteRepository{db: db, txGetter: txGetter}
}

// Create inserts the chat and the owner's membership in one statement.
func (r *ChatWriteRepository) Create(ctx context.Context, ownerID int64, name string) (*models.Chat, error) {
	const query = `
		WITH c AS (
			INSERT INTO chats (name, owner_id)
			VALUES ($1, $2)
			RETURNING id, name, owner_id, created_at
		), m AS (
			INSERT INTO chat_members (chat_id, user_id)
			SELECT id, owner_id FROM c
		)` + chatProjection + `
		FROM c
		JOIN users u ON u.id = c.owner_id
	`

	var chat models.Chat
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &chat, query, name, ownerID)
	logQuery(query, []any{name, ownerID}, chat.ID, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("User", ownerID)
	}
	if err != nil {
		return nil, classify(err, written{ids: map[string]int64{"User": ownerID}})
	}
	return &chat, nil
}

// Rename sets the chat's name.
func (r *ChatWriteRepository) Rename(ctx context.Context, id int64, name string) (*models.Chat, error) {
	const query = `
		WITH c AS (
			UPDATE chats SET name = $2
			WHERE id = $1
			RETURNING id, name, owner_id, created_at
		)` + chatProjection + `
		FROM c
		JOIN users u ON u.id = c.owner_id
	`

	var chat models.Chat
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &chat, query, id, name)
	logQuery(query, []any{id, name}, chat.ID, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("Chat", id)
	}
	if err != nil {
		return nil, classify(err, written{})
	}
	return &chat, nil
}

// AddMember adds the user to the chat and returns the resulting members and
// whether a row was inserted. Adding an existing member is a no-op.
func (r *ChatWriteRepository) AddMember(ctx context.Context, chatID, userID int64) ([]models.User, bool, error) {
	const query = `
		INSERT INTO chat_members (chat_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (chat_id, user_id) DO NOTHING
	`

	ex := executor(ctx, r.db, r.txGetter)
	res, err := ex.ExecContext(ctx, query, chatID, userID)
	n := rowsAffected(res)
	logQuery(query, []any{chatID, userID}, n, err)

	if err != nil {
		return nil, false, classify(err, written{ids: map[string]int64{"Chat": chatID, "User": userID}})
	}
	users, err := selectChatMembers(ctx, ex, chatID)
	if err != nil {
		return nil, false, err
	}
	return users, n > 0, nil
}

// RemoveMember removes the user from the chat and returns the resulting members
// and whether a row was deleted. Removing a non-member is a no-op.
func (r *ChatWriteRepository) RemoveMember(ctx context.Context, chatID, userID int64) ([]models.User, bool, error) {
	const query = `DELETE FROM chat_members WHERE chat_id = $1 AND user_id = $2`

	ex := executor(ctx, r.db, r.txGetter)
	res, err := ex.ExecContext(ctx, query, chatID, userID)
	n := rowsAffected(res)
	logQuery(query, []any{chatID, userID}, n, err)

	if err != nil {
		return nil, false, err
	}
	users, err := selectChatMembers(ctx, ex, chatID)
	if err != nil {
		return nil, false, err
	}
	return users, n > 0, nil
}

func rowsAffected(res sql.Result) int64 {
	if res == nil {
		return 0
	}
	n, _ := res.RowsAffected()
	return n
}
