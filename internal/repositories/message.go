package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/restchat/internal/errs"
	"github.com/sbilibin2017/restchat/internal/models"
)

// messageProjection selects a message from relation m joined with its author.
const messageProjection = `
	SELECT m.id, m.text, m.chat_id, m.author_id, m.created_at,
	       u.id AS "author.id", u.username AS "author.username",
	       u.email AS "author.email", u.created_at AS "author.created_at"
`

type MessageReadRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewMessageReadRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *MessageReadRepository {
	return &MessageReadRepository{db: db, txGetter: txGetter}
}

// GetByID returns the message or errs.NotFoundError.
func (r *MessageReadRepository) GetByID(ctx context.Context, id int64) (*models.Message, error) {
	const query = messageProjection + `
		FROM messages m
		JOIN users u ON u.id = m.author_id
		WHERE m.id = $1
	`

	var msg models.Message
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &msg, query, id)
	logQuery(query, []any{id}, msg.ID, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("Message", id)
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListByChatID returns the messages posted in a chat.
func (r *MessageReadRepository) ListByChatID(ctx context.Context, chatID int64) ([]models.Message, error) {
	const query = messageProjection + `
		FROM messages m
		JOIN users u ON u.id = m.author_id
		WHERE m.chat_id = $1
		ORDER BY m.created_at, m.id
	`

	msgs := []models.Message{}
	err := sqlx.SelectContext(ctx, executor(ctx, r.db, r.txGetter), &msgs, query, chatID)
	logQuery(query, []any{chatID}, len(msgs), err)

	if err != nil {
		return nil, err
	}
	return msgs, nil
}

type MessageWriteRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewMessageWriteRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *MessageWriteRepository {
	return &MessageWriteRepository{db: db, txGetter: txGetter}
}

// Create inserts a message. Membership is not checked here.
func (r *MessageWriteRepository) Create(ctx context.Context, chatID, authorID int64, text string) (*models.Message, error) {
	const query = `
		WITH m AS (
			INSERT INTO messages (text, chat_id, author_id)
			VALUES ($1, $2, $3)
			RETURNING id, text, chat_id, author_id, created_at
		)` + messageProjection + `
		FROM m
		JOIN users u ON u.id = m.author_id
	`

	var msg models.Message
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &msg, query, text, chatID, authorID)
	logQuery(query, []any{chatID, authorID}, msg.ID, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("User", authorID)
	}
	if err != nil {
		return nil, classify(err, written{ids: map[string]int64{"Chat": chatID, "User": authorID}})
	}
	return &msg, nil
}

// UpdateText replaces the message body.
func (r *MessageWriteRepository) UpdateText(ctx context.Context, id int64, text string) (*models.Message, error) {
	const query = `
		WITH m AS (
			UPDATE messages SET text = $2
			WHERE id = $1
			RETURNING id, text, chat_id, author_id, created_at
		)` + messageProjection + `
		FROM m
		JOIN users u ON u.id = m.author_id
	`

	var msg models.Message
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &msg, query, id, text)
	logQuery(query, []any{id}, msg.ID, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("Message", id)
	}
	if err != nil {
		return nil, classify(err, written{})
	}
	return &msg, nil
}

// Delete removes the message.
func (r *MessageWriteRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM messages WHERE id = $1`

	res, err := executor(ctx, r.db, r.txGetter).ExecContext(ctx, query, id)
	n := rowsAffected(res)
	logQuery(query, []any{id}, n, err)

	if err != nil {
		return err
	}
	if n == 0 {
		return errs.NotFound("Message", id)
	}
	return nil
}
