package services

import (
	"context"

	"github.com/sbilibin2017/restchat/internal/logger"
	"github.com/sbilibin2017/restchat/internal/models"
	"github.com/sbilibin2017/restchat/internal/policy"
)

//go:generate mockgen -source=user.go -destination=mock_user.go -package=services

// UserDirectory lists and looks up users.
type UserDirectory interface {
	List(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// UserChatLister lists the chats a user belongs to.
type UserChatLister interface {
	ListByUserID(ctx context.Context, userID int64) ([]models.Chat, error)
}

// ProfileWriter updates user profiles.
type ProfileWriter interface {
	Update(ctx context.Context, id int64, username, email *string) (*models.User, error)
}

// UserService serves user listings and profile updates.
type UserService struct {
	tx     TxRunner
	users  UserDirectory
	chats  UserChatLister
	writer ProfileWriter
}

func NewUserService(tx TxRunner, users UserDirectory, chats UserChatLister, writer ProfileWriter) *UserService {
	return &UserService{tx: tx, users: users, chats: chats, writer: writer}
}

// List returns every user.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		logger.Log.Errorw("failed to list users", "error", err)
		return nil, err
	}
	return users, nil
}

// Get returns a user by id.
func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to get user", "user_id", id, "error", err)
		return nil, err
	}
	return user, nil
}

// ListChats returns the chats of an existing user.
func (s *UserService) ListChats(ctx context.Context, userID int64) ([]models.Chat, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		logger.Log.Errorw("failed to get user", "user_id", userID, "error", err)
		return nil, err
	}

	chats, err := s.chats.ListByUserID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to list user chats", "user_id", userID, "error", err)
		return nil, err
	}
	return chats, nil
}

// UpdateProfile changes the actor's username and/or email. Nil fields are left as is.
func (s *UserService) UpdateProfile(ctx context.Context, actorID int64, username, email *string) (*models.User, error) {
	if err := policy.Check(actorID, policy.UpdateProfile, policy.Target{SubjectUserID: actorID}); err != nil {
		return nil, err
	}

	var user *models.User
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		var err error
		user, err = s.writer.Update(ctx, actorID, username, email)
		return err
	})
	if err != nil {
		logger.Log.Errorw("failed to update profile", "user_id", actorID, "error", err)
		return nil, err
	}
	return user, nil
}
