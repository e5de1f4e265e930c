package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/restchat/internal/errs"
	"github.com/sbilibin2017/restchat/internal/models"
)

const userColumns = `id, username, email, password_hash, created_at`

type UserReadRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewUserReadRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *UserReadRepository {
	return &UserReadRepository{db: db, txGetter: txGetter}
}

// GetByID returns the user or errs.NotFoundError.
func (r *UserReadRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var user models.User
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &user, query, id)
	logQuery(query, []any{id}, user.ID, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("User", id)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername returns the user with the given username, or nil if there is none.
func (r *UserReadRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	var user models.User
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &user, query, username)
	logQuery(query, []any{username}, user.ID, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns every user.
func (r *UserReadRepository) List(ctx context.Context) ([]models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users ORDER BY id`

	users := []models.User{}
	err := sqlx.SelectContext(ctx, executor(ctx, r.db, r.txGetter), &users, query)
	logQuery(query, nil, len(users), err)

	if err != nil {
		return nil, err
	}
	return users, nil
}

// ListByChatID returns the members of a chat.
func (r *UserReadRepository) ListByChatID(ctx context.Context, chatID int64) ([]models.User, error) {
	return selectChatMembers(ctx, executor(ctx, r.db, r.txGetter), chatID)
}

func selectChatMembers(ctx context.Context, q sqlx.QueryerContext, chatID int64) ([]models.User, error) {
	const query = `
		SELECT u.id, u.username, u.email, u.password_hash, u.created_at
		FROM users u
		JOIN chat_members m ON m.user_id = u.id
		WHERE m.chat_id = $1
		ORDER BY u.id
	`

	users := []models.User{}
	err := sqlx.SelectContext(ctx, q, &users, query, chatID)
	logQuery(query, []any{chatID}, len(users), err)

	if err != nil {
		return nil, err
	}
	return users, nil
}

type UserWriteRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewUserWriteRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *UserWriteRepository {
	return &UserWriteRepository{db: db, txGetter: txGetter}
}

// Create inserts a user. Username and email uniqueness is enforced by the
// store and surfaced as errs.DuplicateFieldError.
func (r *UserWriteRepository) Create(ctx context.Context, username, email, passwordHash string) (*models.User, error) {
	const query = `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING ` + userColumns

	var user models.User
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &user, query, username, email, passwordHash)
	logQuery(query, []any{username, email}, user.ID, err)

	if err != nil {
		return nil, classify(err, written{
			values: map[string]string{"username": username, "email": email},
		})
	}
	return &user, nil
}

// Update sets username and/or email. Nil arguments leave the column unchanged.
func (r *UserWriteRepository) Update(ctx context.Context, id int64, username, email *string) (*models.User, error) {
	const query = `
		UPDATE users
		SET username = COALESCE($2, username),
		    email = COALESCE($3, email)
		WHERE id = $1
		RETURNING ` + userColumns

	var user models.User
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &user, query, id, username, email)
	logQuery(query, []any{id, username, email}, user.ID, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("User", id)
	}
	if err != nil {
		values := map[string]string{}
		if username != nil {
			values["username"] = *username
		}
		if email != nil {
			values["email"] = *email
		}
		return nil, classify(err, written{values: values})
	}
	return &user, nil
}
