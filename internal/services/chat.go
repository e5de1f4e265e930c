package services

import (
	"context"

	"github.com/sbilibin2017/restchat/internal/errs"
	"github.com/sbilibin2017/restchat/internal/logger"
	"github.com/sbilibin2017/restchat/internal/models"
	"github.com/sbilibin2017/restchat/internal/policy"
)

//go:generate mockgen -source=chat.go -destination=mock_chat.go -package=services

// ChatReader defines read operations for chats.
type ChatReader interface {
	GetByID(ctx context.Context, id int64) (*models.Chat, error)           // Returns the chat with its owner
	ListByUserID(ctx context.Context, userID int64) ([]models.Chat, error) // Returns chats the user belongs to
	IsMember(ctx context.Context, chatID, userID int64) (bool, error)      // Reports chat membership
}

// ChatWriter defines write operations for chats and their membership.
type ChatWriter interface {
	Create(ctx context.Context, ownerID int64, name string) (*models.Chat, error)
	Rename(ctx context.Context, id int64, name string) (*models.Chat, error)
	AddMember(ctx context.Context, chatID, userID int64) ([]models.User, bool, error)    // Reports whether the user was added
	RemoveMember(ctx context.Context, chatID, userID int64) ([]models.User, bool, error) // Reports whether the user was removed
}

// MemberReader lists chat members.
type MemberReader interface {
	ListByChatID(ctx context.Context, chatID int64) ([]models.User, error)
}

// MessageReader defines read operations for messages.
type MessageReader interface {
	GetByID(ctx context.Context, id int64) (*models.Message, error)
	ListByChatID(ctx context.Context, chatID int64) ([]models.Message, error)
}

// MessageWriter defines write operations for messages.
type MessageWriter interface {
	Create(ctx context.Context, chatID, authorID int64, text string) (*models.Message, error)
	UpdateText(ctx context.Context, id int64, text string) (*models.Message, error)
	Delete(ctx context.Context, id int64) error
}

// ChatService runs chat, membership and message operations on behalf of an
// authenticated actor. Mutations check the policy and write inside one
// transaction, and publish an event once it has committed.
type ChatService struct {
	tx          TxRunner
	chatRepo    ChatReader
	chatWriter  ChatWriter
	memberRepo  MemberReader
	msgRepo     MessageReader
	msgWriter   MessageWriter
	kafkaWriter KafkaWriter
}

// NewChatService creates a new ChatService. kafkaWriter may be nil.
func NewChatService(
	tx TxRunner,
	chatRepo ChatReader,
	chatWriter ChatWriter,
	memberRepo MemberReader,
	msgRepo MessageReader,
	msgWriter MessageWriter,
	kafkaWriter KafkaWriter,
) *ChatService {
	return &ChatService{
		tx:          tx,
		chatRepo:    chatRepo,
		chatWriter:  chatWriter,
		memberRepo:  memberRepo,
		msgRepo:     msgRepo,
		msgWriter:   msgWriter,
		kafkaWriter: kafkaWriter,
	}
}

// authorizeChat loads the chat and checks that actorID may perform action on it.
// A missing chat is reported before any permission check.
func (s *ChatService) authorizeChat(ctx context.Context, actorID, chatID int64, action policy.Action, subjectID int64) (*models.Chat, error) {
	chat, err := s.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}

	target := policy.Target{Chat: chat, SubjectUserID: subjectID}
	switch action {
	case policy.ViewChat, policy.ListChatMessages, policy.ListChatMembers, policy.PostMessage:
		target.ActorIsMember, err = s.chatRepo.IsMember(ctx, chatID, actorID)
		if err != nil {
			return nil, err
		}
	}

	if err := policy.Check(actorID, action, target); err != nil {
		return nil, err
	}
	return chat, nil
}

// authorizeMessage loads a message of the chat and checks that actorID may
// perform action on it. A message of another chat is reported as missing.
func (s *ChatService) authorizeMessage(ctx context.Context, actorID, chatID, messageID int64, action policy.Action) (*models.Message, error) {
	if _, err := s.chatRepo.GetByID(ctx, chatID); err != nil {
		return nil, err
	}

	msg, err := s.msgRepo.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if msg.ChatID != chatID {
		return nil, errs.NotFound("Message", messageID)
	}

	if err := policy.Check(actorID, action, policy.Target{Message: msg}); err != nil {
		return nil, err
	}
	return msg, nil
}

// ListForUser returns the chats the actor belongs to.
func (s *ChatService) ListForUser(ctx context.Context, actorID int64) ([]models.Chat, error) {
	chats, err := s.chatRepo.ListByUserID(ctx, actorID)
	if err != nil {
		logger.Log.Errorw("failed to list chats", "user_id", actorID, "error", err)
		return nil, err
	}
	return chats, nil
}

// Create makes a chat owned by the actor, who becomes its only member.
func (s *ChatService) Create(ctx context.Context, actorID int64, name string) (*models.Chat, error) {
	var chat *models.Chat
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		var err error
		chat, err = s.chatWriter.Create(ctx, actorID, name)
		return err
	})
	if err != nil {
		logger.Log.Errorw("failed to create chat", "owner_id", actorID, "error", err)
		return nil, err
	}

	publishEvent(ctx, s.kafkaWriter, models.Event{Type: models.EventChatCreated, ActorID: actorID, ChatID: chat.ID})
	return chat, nil
}

// Get returns the chat together with its members and messages.
func (s *ChatService) Get(ctx context.Context, actorID, chatID int64) (*models.ChatDetails, error) {
	var details *models.ChatDetails
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		chat, err := s.authorizeChat(ctx, actorID, chatID, policy.ViewChat, 0)
		if err != nil {
			return err
		}
		members, err := s.memberRepo.ListByChatID(ctx, chatID)
		if err != nil {
			return err
		}
		msgs, err := s.msgRepo.ListByChatID(ctx, chatID)
		if err != nil {
			return err
		}
		details = &models.ChatDetails{Chat: *chat, Members: members, Messages: msgs}
		return nil
	})
	if err != nil {
		logger.Log.Errorw("failed to get chat", "chat_id", chatID, "actor_id", actorID, "error", err)
		return nil, err
	}
	return details, nil
}

// Rename changes the chat's name. Only the owner may rename.
func (s *ChatService) Rename(ctx context.Context, actorID, chatID int64, name string) (*models.Chat, error) {
	var chat *models.Chat
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		if _, err := s.authorizeChat(ctx, actorID, chatID, policy.RenameChat, 0); err != nil {
			return err
		}
		var err error
		chat, err = s.chatWriter.Rename(ctx, chatID, name)
		return err
	})
	if err != nil {
		logger.Log.Errorw("failed to rename chat", "chat_id", chatID, "actor_id", actorID, "error", err)
		return nil, err
	}

	publishEvent(ctx, s.kafkaWriter, models.Event{Type: models.EventChatRenamed, ActorID: actorID, ChatID: chatID})
	return chat, nil
}

// ListMessages returns the chat's messages.
func (s *ChatService) ListMessages(ctx context.Context, actorID, chatID int64) ([]models.Message, error) {
	if _, err := s.authorizeChat(ctx, actorID, chatID, policy.ListChatMessages, 0); err != nil {
		logger.Log.Errorw("failed to authorize message listing", "chat_id", chatID, "actor_id", actorID, "error", err)
		return nil, err
	}

	msgs, err := s.msgRepo.ListByChatID(ctx, chatID)
	if err != nil {
		logger.Log.Errorw("failed to list messages", "chat_id", chatID, "error", err)
		return nil, err
	}
	return msgs, nil
}

// PostMessage adds a message authored by the actor.
func (s *ChatService) PostMessage(ctx context.Context, actorID, chatID int64, text string) (*models.Message, error) {
	var msg *models.Message
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		if _, err := s.authorizeChat(ctx, actorID, chatID, policy.PostMessage, 0); err != nil {
			return err
		}
		var err error
		msg, err = s.msgWriter.Create(ctx, chatID, actorID, text)
		return err
	})
	if err != nil {
		logger.Log.Errorw("failed to post message", "chat_id", chatID, "actor_id", actorID, "error", err)
		return nil, err
	}

	publishEvent(ctx, s.kafkaWriter, models.Event{Type: models.EventMessageCreated, ActorID: actorID, ChatID: chatID, MessageID: msg.ID})
	return msg, nil
}

// EditMessage replaces the text of a message. Only the author may edit.
func (s *ChatService) EditMessage(ctx context.Context, actorID, chatID, messageID int64, text string) (*models.Message, error) {
	var msg *models.Message
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		if _, err := s.authorizeMessage(ctx, actorID, chatID, messageID, policy.EditMessage); err != nil {
			return err
		}
		var err error
		msg, err = s.msgWriter.UpdateText(ctx, messageID, text)
		return err
	})
	if err != nil {
		logger.Log.Errorw("failed to edit message", "message_id", messageID, "actor_id", actorID, "error", err)
		return nil, err
	}

	publishEvent(ctx, s.kafkaWriter, models.Event{Type: models.EventMessageEdited, ActorID: actorID, ChatID: chatID, MessageID: messageID})
	return msg, nil
}

// DeleteMessage removes a message. Only the author may delete.
func (s *ChatService) DeleteMessage(ctx context.Context, actorID, chatID, messageID int64) error {
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		if _, err := s.authorizeMessage(ctx, actorID, chatID, messageID, policy.DeleteMessage); err != nil {
			return err
		}
		return s.msgWriter.Delete(ctx, messageID)
	})
	if err != nil {
		logger.Log.Errorw("failed to delete message", "message_id", messageID, "actor_id", actorID, "error", err)
		return err
	}

	publishEvent(ctx, s.kafkaWriter, models.Event{Type: models.EventMessageDeleted, ActorID: actorID, ChatID: chatID, MessageID: messageID})
	return nil
}

// ListMembers returns the chat's members.
func (s *ChatService) ListMembers(ctx context.Context, actorID, chatID int64) ([]models.User, error) {
	if _, err := s.authorizeChat(ctx, actorID, chatID, policy.ListChatMembers, 0); err != nil {
		logger.Log.Errorw("failed to authorize member listing", "chat_id", chatID, "actor_id", actorID, "error", err)
		return nil, err
	}

	users, err := s.memberRepo.ListByChatID(ctx, chatID)
	if err != nil {
		logger.Log.Errorw("failed to list members", "chat_id", chatID, "error", err)
		return nil, err
	}
	return users, nil
}

// AddMember adds userID to the chat and returns the members. Adding an
// existing member changes nothing.
func (s *ChatService) AddMember(ctx context.Context, actorID, chatID, userID int64) ([]models.User, error) {
	var (
		users []models.User
		added bool
	)
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		if _, err := s.authorizeChat(ctx, actorID, chatID, policy.AddMember, userID); err != nil {
			return err
		}
		var err error
		users, added, err = s.chatWriter.AddMember(ctx, chatID, userID)
		return err
	})
	if err != nil {
		logger.Log.Errorw("failed to add member", "chat_id", chatID, "user_id", userID, "actor_id", actorID, "error", err)
		return nil, err
	}

	if added {
		publishEvent(ctx, s.kafkaWriter, models.Event{Type: models.EventMemberAdded, ActorID: actorID, ChatID: chatID, UserID: userID})
	}
	return users, nil
}

// RemoveMember removes userID from the chat and returns the members. The
// owner can never be removed. Removing a non-member changes nothing.
func (s *ChatService) RemoveMember(ctx context.Context, actorID, chatID, userID int64) ([]models.User, error) {
	var (
		users   []models.User
		removed bool
	)
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		if _, err := s.authorizeChat(ctx, actorID, chatID, policy.RemoveMember, userID); err != nil {
			return err
		}
		var err error
		users, removed, err = s.chatWriter.RemoveMember(ctx, chatID, userID)
		return err
	})
	if err != nil {
		logger.Log.Errorw("failed to remove member", "chat_id", chatID, "user_id", userID, "actor_id", actorID, "error", err)
		return nil, err
	}

	if removed {
		publishEvent(ctx, s.kafkaWriter, models.Event{Type: models.EventMemberRemoved, ActorID: actorID, ChatID: chatID, UserID: userID})
	}
	return users, nil
}
