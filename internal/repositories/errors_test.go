package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/restchat/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	w := written{
		values: map[string]string{"username": "alice", "email": "alice@example.com"},
		ids:    map[string]int64{"Chat": 3, "User": 9},
	}

	tests := []struct {
		name  string
		err   error
		check func(t *testing.T, err error)
	}{
		{
			name: "duplicate username",
			err:  &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"},
			check: func(t *testing.T, err error) {
				var dup *errs.DuplicateFieldError
				assert.True(t, errors.As(err, &dup))
				assert.Equal(t, &errs.DuplicateFieldError{Entity: "User", Field: "username", Value: "alice"}, dup)
			},
		},
		{
			name: "duplicate email",
			err:  &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"},
			check: func(t *testing.T, err error) {
				var dup *errs.DuplicateFieldError
				assert.True(t, errors.As(err, &dup))
				assert.Equal(t, "email", dup.Field)
				assert.Equal(t, "alice@example.com", dup.Value)
			},
		},
		{
			name: "missing chat",
			err:  &pgconn.PgError{Code: "23503", ConstraintName: "messages_chat_id_fkey"},
			check: func(t *testing.T, err error) {
				assert.Equal(t, errs.NotFound("Chat", 3), err)
			},
		},
		{
			name: "missing member user",
			err:  &pgconn.PgError{Code: "23503", ConstraintName: "chat_members_user_id_fkey"},
			check: func(t *testing.T, err error) {
				assert.Equal(t, errs.NotFound("User", 9), err)
			},
		},
		{
			name: "unknown unique constraint stays unclassified",
			err:  &pgconn.PgError{Code: "23505", ConstraintName: "something_else_key"},
			check: func(t *testing.T, err error) {
				var dup *errs.DuplicateFieldError
				assert.False(t, errors.As(err, &dup))
				var pgErr *pgconn.PgError
				assert.True(t, errors.As(err, &pgErr))
				assert.Contains(t, err.Error(), "something_else_key")
			},
		},
		{
			name: "value too long",
			err:  &pgconn.PgError{Code: "22001"},
			check: func(t *testing.T, err error) {
				var v *errs.ValidationError
				assert.True(t, errors.As(err, &v))
			},
		},
		{
			name: "NUL character",
			err:  &pgconn.PgError{Code: "22021"},
			check: func(t *testing.T, err error) {
				var v *errs.ValidationError
				assert.True(t, errors.As(err, &v))
			},
		},
		{
			name: "untranslatable character",
			err:  &pgconn.PgError{Code: "22P05"},
			check: func(t *testing.T, err error) {
				var v *errs.ValidationError
				assert.True(t, errors.As(err, &v))
			},
		},
		{
			name: "non-integrity error passes through",
			err:  &pgconn.PgError{Code: "40001"},
			check: func(t *testing.T, err error) {
				var pgErr *pgconn.PgError
				assert.True(t, errors.As(err, &pgErr))
				assert.Equal(t, "40001", pgErr.Code)
			},
		},
		{
			name: "plain error passes through",
			err:  errors.New("conn reset"),
			check: func(t *testing.T, err error) {
				assert.EqualError(t, err, "conn reset")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, classify(tt.err, w))
		})
	}
}

func TestClassify_UnknownValueIsNotGuessed(t *testing.T) {
	// Only email was written, but the username constraint fired.
	err := classify(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"},
		written{values: map[string]string{"email": "x@y.z"}})

	var dup *errs.DuplicateFieldError
	assert.False(t, errors.As(err, &dup))
}

func TestUserWriteRepository_Create_DuplicateEmail(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("bob", "bob@example.com", "hash").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	user, err := NewUserWriteRepository(db, GetTxFromContext).Create(context.Background(), "bob", "bob@example.com", "hash")

	assert.Nil(t, user)
	assert.Equal(t, errs.DuplicateField("User", "email", "bob@example.com"), err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserWriteRepository_Update_DuplicateUsername(t *testing.T) {
	db, mock := newMockDB(t)
	username := "taken"
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE users")).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})

	user, err := NewUserWriteRepository(db, nil).Update(context.Background(), 1, &username, nil)

	assert.Nil(t, user)
	assert.Equal(t, errs.DuplicateField("User", "username", "taken"), err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWriteRepositories_UnstorableValueIsValidation(t *testing.T) {
	tooLong := &pgconn.PgError{Code: "22001"}
	badChar := &pgconn.PgError{Code: "22021"}

	tests := []struct {
		name string
		stmt string
		err  error
		call func(db *sqlx.DB) error
	}{
		{"create user", "INSERT INTO users", tooLong, func(db *sqlx.DB) error {
			_, err := NewUserWriteRepository(db, nil).Create(context.Background(), "alice", "a@x", "hash")
			return err
		}},
		{"update user", "UPDATE users", badChar, func(db *sqlx.DB) error {
			name := "al\x00ice"
			_, err := NewUserWriteRepository(db, nil).Update(context.Background(), 1, &name, nil)
			return err
		}},
		{"create chat", "INSERT INTO chats", tooLong, func(db *sqlx.DB) error {
			_, err := NewChatWriteRepository(db, nil).Create(context.Background(), 1, "general")
			return err
		}},
		{"rename chat", "UPDATE chats", badChar, func(db *sqlx.DB) error {
			_, err := NewChatWriteRepository(db, nil).Rename(context.Background(), 1, "lobby")
			return err
		}},
		{"create message", "INSERT INTO messages", badChar, func(db *sqlx.DB) error {
			_, err := NewMessageWriteRepository(db, nil).Create(context.Background(), 1, 1, "hi")
			return err
		}},
		{"edit message", "UPDATE messages", badChar, func(db *sqlx.DB) error {
			_, err := NewMessageWriteRepository(db, nil).UpdateText(context.Background(), 1, "hi")
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			mock.ExpectQuery(regexp.QuoteMeta(tt.stmt)).WillReturnError(tt.err)

			err := tt.call(db)

			var v *errs.ValidationError
			assert.ErrorAs(t, err, &v)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMessageWriteRepository_Create_MissingChat(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO messages")).
		WithArgs("hi", int64(404), int64(1)).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "messages_chat_id_fkey"})

	msg, err := NewMessageWriteRepository(db, nil).Create(context.Background(), 404, 1, "hi")

	assert.Nil(t, msg)
	assert.Equal(t, errs.NotFound("Chat", 404), err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChatWriteRepository_AddMember_MissingUser(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO chat_members")).
		WithArgs(int64(1), int64(77)).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "chat_members_user_id_fkey"})

	users, added, err := NewChatWriteRepository(db, nil).AddMember(context.Background(), 1, 77)

	assert.Nil(t, users)
	assert.False(t, added)
	assert.Equal(t, errs.NotFound("User", 77), err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChatWriteRepository_MembershipChangeFromRowsAffected(t *testing.T) {
	members := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "created_at"}).
			AddRow(int64(1), "alice", "alice@example.com", "digest", time.Now())
	}

	tests := []struct {
		name     string
		stmt     string
		affected int64
		call     func(r *ChatWriteRepository) (bool, error)
	}{
		{"add inserted", "INSERT INTO chat_members", 1, func(r *ChatWriteRepository) (bool, error) {
			_, ok, err := r.AddMember(context.Background(), 1, 2)
			return ok, err
		}},
		{"add conflicted", "INSERT INTO chat_members", 0, func(r *ChatWriteRepository) (bool, error) {
			_, ok, err := r.AddMember(context.Background(), 1, 2)
			return ok, err
		}},
		{"remove deleted", "DELETE FROM chat_members", 1, func(r *ChatWriteRepository) (bool, error) {
			_, ok, err := r.RemoveMember(context.Background(), 1, 2)
			return ok, err
		}},
		{"remove missing", "DELETE FROM chat_members", 0, func(r *ChatWriteRepository) (bool, error) {
			_, ok, err := r.RemoveMember(context.Background(), 1, 2)
			return ok, err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			mock.ExpectExec(regexp.QuoteMeta(tt.stmt)).
				WithArgs(int64(1), int64(2)).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))
			mock.ExpectQuery(regexp.QuoteMeta("FROM users u")).
				WithArgs(int64(1)).
				WillReturnRows(members())

			changed, err := tt.call(NewChatWriteRepository(db, nil))

			require.NoError(t, err)
			assert.Equal(t, tt.affected == 1, changed)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMessageWriteRepository_Delete_Missing(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM messages")).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewMessageWriteRepository(db, nil).Delete(context.Background(), 5)

	assert.Equal(t, errs.NotFound("Message", 5), err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
