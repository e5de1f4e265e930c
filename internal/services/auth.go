package services

import (
	"context"
	"time"

	"github.com/sbilibin2017/restchat/internal/errs"
	"github.com/sbilibin2017/restchat/internal/logger"
	"github.com/sbilibin2017/restchat/internal/models"
)

//go:generate mockgen -source=auth.go -destination=mock_auth.go -package=services

// UserReader defines read-only operations for users.
type UserReader interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Create(ctx context.Context, username, email, passwordHash string) (*models.User, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
}

// Tokener issues and verifies access tokens.
type Tokener interface {
	Generate(ctx context.Context, userID int64) (string, error)
	GetUserID(ctx context.Context, token string) (int64, error)
	Expiration() time.Duration
}

// AuthService handles registration, login and token authentication.
type AuthService struct {
	tx     TxRunner
	reader UserReader
	writer UserWriter
	hasher PasswordHasher
	tokens Tokener
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(tx TxRunner, reader UserReader, writer UserWriter, hasher PasswordHasher, tokens Tokener) *AuthService {
	return &AuthService{
		tx:     tx,
		reader: reader,
		writer: writer,
		hasher: hasher,
		tokens: tokens,
	}
}

// Register creates a user. A taken username or email is reported by the
// store as *errs.DuplicateFieldError.
func (svc *AuthService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	digest, err := svc.hasher.Hash(password)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return nil, err
	}

	var user *models.User
	err = svc.tx.Do(ctx, func(ctx context.Context) error {
		user, err = svc.writer.Create(ctx, username, email, digest)
		return err
	})
	if err != nil {
		logger.Log.Errorw("failed to register user", "username", username, "err", err)
		return nil, err
	}

	return user, nil
}

// Login checks the credentials and returns an access token.
func (svc *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := svc.reader.GetByUsername(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return "", err
	}
	// An unknown user is verified against an empty digest so that it costs
	// the same as a wrong password.
	digest := ""
	if user != nil {
		digest = user.PasswordHash
	}
	if ok := svc.hasher.Verify(password, digest); !ok || user == nil {
		logger.Log.Infow("invalid credentials", "username", username)
		return "", errs.ErrInvalidCredentials
	}

	token, err := svc.tokens.Generate(ctx, user.ID)
	if err != nil {
		logger.Log.Errorw("failed to generate JWT", "err", err)
		return "", err
	}

	return token, nil
}

// Authenticate resolves a bearer token to its user. A token whose subject no
// longer exists is rejected with errs.ErrTokenInvalid.
func (svc *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	userID, err := svc.tokens.GetUserID(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := svc.reader.GetByID(ctx, userID)
	if errs.IsNotFound(err, "User") {
		logger.Log.Infow("token subject does not exist", "user_id", userID)
		return nil, errs.ErrTokenInvalid
	}
	if err != nil {
		logger.Log.Errorw("failed to load token subject", "user_id", userID, "err", err)
		return nil, err
	}

	return user, nil
}

// TokenTTL is the lifetime of tokens returned by Login.
func (svc *AuthService) TokenTTL() time.Duration {
	return svc.tokens.Expiration()
}
