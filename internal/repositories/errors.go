package repositories

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sbilibin2017/restchat/internal/errs"
	"github.com/sbilibin2017/restchat/internal/logger"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	integrityClass      = "23"

	stringTooLong           = "22001"
	characterNotInCharset   = "22021"
	untranslatableCharacter = "22P05"
)

// uniqueFields maps unique constraint names to the entity field they guard.
var uniqueFields = map[string]struct{ entity, field string }{
	"users_username_key": {"User", "username"},
	"users_email_key":    {"User", "email"},
}

// foreignKeys maps foreign key constraint names to the referenced entity.
var foreignKeys = map[string]string{
	"chats_owner_id_fkey":       "User",
	"chat_members_chat_id_fkey": "Chat",
	"chat_members_user_id_fkey": "User",
	"messages_chat_id_fkey":     "Chat",
	"messages_author_id_fkey":   "User",
}

// written holds what the failing statement tried to write:
// values by unique field name, referenced ids by entity name.
type written struct {
	values map[string]string
	ids    map[string]int64
}

// classify maps an integrity violation to the domain error for the constraint
// that fired, and a value the column cannot hold to errs.ValidationError.
// Violations of unknown constraints are returned wrapped but unclassified;
// other errors pass through untouched.
func classify(err error, w written) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case stringTooLong:
		return errs.Validation("value too long")
	case characterNotInCharset, untranslatableCharacter:
		return errs.Validation("value contains characters that cannot be stored")
	case uniqueViolation:
		if f, ok := uniqueFields[pgErr.ConstraintName]; ok {
			if v, ok := w.values[f.field]; ok {
				return errs.DuplicateField(f.entity, f.field, v)
			}
		}
	case foreignKeyViolation:
		if entity, ok := foreignKeys[pgErr.ConstraintName]; ok {
			if id, ok := w.ids[entity]; ok {
				return errs.NotFound(entity, id)
			}
		}
	}

	if strings.HasPrefix(pgErr.Code, integrityClass) {
		return fmt.Errorf("unclassified integrity violation on %q: %w", pgErr.ConstraintName, err)
	}
	return err
}

// logQuery logs a statement on a single line.
func logQuery(query string, args []any, result any, err error) {
	logger.Log.Debugw("sql",
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"result", result,
		"error", err,
	)
}
