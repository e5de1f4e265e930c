package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/sbilibin2017/restchat/internal/errs"
	"github.com/sbilibin2017/restchat/internal/models"
	"github.com/sbilibin2017/restchat/internal/services"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	ownerID    int64 = 1
	memberID   int64 = 2
	outsiderID int64 = 3
	chatID     int64 = 10
)

var general = &models.Chat{ID: chatID, Name: "general", OwnerID: ownerID, Owner: models.User{ID: ownerID}}

type chatFixture struct {
	chatRepo   *services.MockChatReader
	chatWriter *services.MockChatWriter
	members    *services.MockMemberReader
	msgRepo    *services.MockMessageReader
	msgWriter  *services.MockMessageWriter
	kafka      *services.MockKafkaWriter
	svc        *services.ChatService
}

func newChatFixture(t *testing.T) *chatFixture {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := &chatFixture{
		chatRepo:   services.NewMockChatReader(ctrl),
		chatWriter: services.NewMockChatWriter(ctrl),
		members:    services.NewMockMemberReader(ctrl),
		msgRepo:    services.NewMockMessageReader(ctrl),
		msgWriter:  services.NewMockMessageWriter(ctrl),
		kafka:      services.NewMockKafkaWriter(ctrl),
	}
	f.svc = services.NewChatService(newPassThroughTx(ctrl), f.chatRepo, f.chatWriter, f.members, f.msgRepo, f.msgWriter, f.kafka)
	return f
}

// expectEvent expects one published event and returns a pointer that holds it
// once the call has happened.
func (f *chatFixture) expectEvent(t *testing.T) *models.Event {
	var got models.Event
	f.kafka.EXPECT().
		WriteMessages(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msgs ...kafka.Message) error {
			require.Len(t, msgs, 1)
			require.NoError(t, json.Unmarshal(msgs[0].Value, &got))
			return nil
		})
	return &got
}

func (f *chatFixture) expectChat(isMember map[int64]bool) {
	f.chatRepo.EXPECT().GetByID(gomock.Any(), chatID).Return(general, nil).AnyTimes()
	f.chatRepo.EXPECT().
		IsMember(gomock.Any(), chatID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, userID int64) (bool, error) {
			return isMember[userID], nil
		}).
		AnyTimes()
}

var defaultMembers = map[int64]bool{ownerID: true, memberID: true}

func assertNoPermission(t *testing.T, err error) {
	t.Helper()
	var np *errs.NoPermissionError
	assert.ErrorAs(t, err, &np)
}

func TestChatService_ListForUser(t *testing.T) {
	f := newChatFixture(t)
	f.chatRepo.EXPECT().ListByUserID(gomock.Any(), memberID).Return([]models.Chat{*general}, nil)

	chats, err := f.svc.ListForUser(context.Background(), memberID)
	require.NoError(t, err)
	assert.Len(t, chats, 1)
}

func TestChatService_Create(t *testing.T) {
	f := newChatFixture(t)
	f.chatWriter.EXPECT().Create(gomock.Any(), ownerID, "general").Return(general, nil)
	event := f.expectEvent(t)

	chat, err := f.svc.Create(context.Background(), ownerID, "general")
	require.NoError(t, err)
	assert.Equal(t, general, chat)

	assert.Equal(t, models.EventChatCreated, event.Type)
	assert.Equal(t, chatID, event.ChatID)
	assert.Equal(t, ownerID, event.ActorID)
	assert.NotEmpty(t, event.EventID)
}

func TestChatService_Create_WriterErrorPublishesNothing(t *testing.T) {
	f := newChatFixture(t)
	f.chatWriter.EXPECT().Create(gomock.Any(), ownerID, "general").Return(nil, errs.NotFound("User", ownerID))

	_, err := f.svc.Create(context.Background(), ownerID, "general")
	assert.True(t, errs.IsNotFound(err, "User"))
}

func TestChatService_Create_WithoutKafka(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	writer := services.NewMockChatWriter(ctrl)
	writer.EXPECT().Create(gomock.Any(), ownerID, "general").Return(general, nil)

	svc := services.NewChatService(newPassThroughTx(ctrl), nil, writer, nil, nil, nil, nil)
	chat, err := svc.Create(context.Background(), ownerID, "general")
	require.NoError(t, err)
	assert.Equal(t, chatID, chat.ID)
}

func TestChatService_Create_PublishFailureIsIgnored(t *testing.T) {
	f := newChatFixture(t)
	f.chatWriter.EXPECT().Create(gomock.Any(), ownerID, "general").Return(general, nil)
	f.kafka.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

	_, err := f.svc.Create(context.Background(), ownerID, "general")
	assert.NoError(t, err)
}

func TestChatService_Get(t *testing.T) {
	t.Run("member sees details", func(t *testing.T) {
		f := newChatFixture(t)
		f.expectChat(defaultMembers)
		f.members.EXPECT().ListByChatID(gomock.Any(), chatID).Return([]models.User{{ID: ownerID}, {ID: memberID}}, nil)
		f.msgRepo.EXPECT().ListByChatID(gomock.Any(), chatID).Return([]models.Message{{ID: 1, Text: "hi"}}, nil)

		details, err := f.svc.Get(context.Background(), memberID, chatID)
		require.NoError(t, err)
		assert.Equal(t, "general", details.Chat.Name)
		assert.Len(t, details.Members, 2)
		assert.Len(t, details.Messages, 1)
	})

	t.Run("non-member is denied", func(t *testing.T) {
		f := newChatFixture(t)
		f.expectChat(defaultMembers)

		_, err := f.svc.Get(context.Background(), outsiderID, chatID)
		assertNoPermission(t, err)
	})

	t.Run("missing chat", func(t *testing.T) {
		f := newChatFixture(t)
		f.chatRepo.EXPECT().GetByID(gomock.Any(), int64(99)).Return(nil, errs.NotFound("Chat", 99))

		_, err := f.svc.Get(context.Background(), ownerID, 99)
		assert.True(t, errs.IsNotFound(err, "Chat"))
	})
}

func TestChatService_Rename(t *testing.T) {
	t.Run("owner renames", func(t *testing.T) {
		f := newChatFixture(t)
		f.expectChat(defaultMembers)
		renamed := *general
		renamed.Name = "random"
		f.chatWriter.EXPECT().Rename(gomock.Any(), chatID, "random").Return(&renamed, nil)
		event := f.expectEvent(t)

		chat, err := f.svc.Rename(context.Background(), ownerID, chatID, "random")
		require.NoError(t, err)
		assert.Equal(t, "random", chat.Name)
		assert.Equal(t, models.EventChatRenamed, event.Type)
	})

	t.Run("member is denied", func(t *testing.T) {
		f := newChatFixture(t)
		f.expectChat(defaultMembers)

		_, err := f.svc.Rename(context.Background(), memberID, chatID, "random")
		assertNoPermission(t, err)
	})
}

func TestChatService_ListMessages(t *testing.T) {
	t.Run("member", func(t *testing.T) {
		f := newChatFixture(t)
		f.expectChat(defaultMembers)
		f.msgRepo.EXPECT().ListByChatID(gomock.Any(), chatID).Return([]models.Message{{ID: 1}}, nil)

		msgs, err := f.svc.ListMessages(context.Background(), memberID, chatID)
		require.NoError(t, err)
		assert.Len(t, msgs, 1)
	})

	t.Run("non-member", func(t *testing.T) {
		f := newChatFixture(t)
		f.expectChat(defaultMembers)

		_, err := f.svc.ListMessages(context.Background(), outsiderID, chatID)
		assertNoPermission(t, err)
	})
}

func TestChatService_PostMessage(t *testing.T) {
	t.Run("member posts", func(t *testing.T) {
		f := newChatFixture(t)
		f.expectChat(defaultMembers)
		f.msgWriter.EXPECT().
			Create(gomock.Any(), chatID, memberID, "hi").
			Return(&models.Message{ID: 5, Text: "hi", ChatID: chatID, AuthorID: memberID}, nil)
		event := f.expectEvent(t)

		msg, err := f.svc.PostMessage(context.Background(), memberID, chatID, "hi")
		require.NoError(t, err)
		assert.Equal(t, "hi", msg.Text)
		assert.Equal(t, models.EventMessageCreated, event.Type)
		assert.Equal(t, int64(5), event.MessageID)
	})

	t.Run("non-member is denied and nothing is written", func(t *testing.T) {
		f := newChatFixture(t)
		f.expectChat(defaultMembers)

		_, err := f.svc.PostMessage(context.Background(), outsiderID, chatID, "hi")
		assertNoPermission(t, err)
	})
}

func TestChatService_EditMessage(t *testing.T) {
	authored := &models.Message{ID: 5, Text: "hi", ChatID: chatID, AuthorID: memberID}

	t.Run("author edits", func(t *testing.T) {
		f := newChatFixture(t)
		f.expectChat(defaultMembers)
		f.msgRepo.EXPECT().GetByID(gomock.Any(), int64(5)).Return(authored, nil)
		f.msgWriter.EXPECT().
			UpdateText(gomock.Any(), int64(5), "hello").
			Return(&models.Message{ID: 5, Text: "hello", ChatID: chatID, AuthorID: memberID}, nil)
		event := f.expectEvent(t)

		msg, err := f.svc.EditMessage(context.Background(), memberID, chatID, 5, "hello")
		require.NoError(t, err)
		assert.Equal(t, "hello", msg.Text)
		assert.Equal(t, models.EventMessageEdited, event.Type)
	})

	t.Run("owner of the chat is not the author", func(t *testing.T) {
		f := newChatFixture(t)
		f.expectChat(defaultMembers)
		f.msgRepo.EXPECT().GetByID(gomock.Any(), int64(5)).Return(authored, nil)

		_, err := f.svc.EditMessage(context.Background(), ownerID, chatID, 5, "hello")
		assertNoPermission(t, err)
	})

	t.Run("message of another chat", func(t *testing.T) {
		f := newChatFixture(t)
		f.expectChat(defaultMembers)
		f.msgRepo.EXPECT().
			GetByID(gomock.Any(), int64(6)).
			Return(&models.Message{ID: 6, ChatID: 77, AuthorID: memberID}, nil)

		_, err := f.svc.EditMessage(context.Background(), memberID, chatID, 6, "hello")
		assert.True(t, errs.IsNotFound(err, "Message"))
	})

	t.Run("missing message", func(t *testing.T) {
		f := newChatFixture(t)
		f.expectChat(defaultMembers)
		f.msgRepo.EXPECT().GetByID(gomock.Any(), int64(8)).Return(nil, errs.NotFound("Message", 8))

		_, err := f.svc.EditMessage(context.Background(), memberID, chatID, 8, "hello")
		assert.True(t, errs.IsNotFound(err, "Message"))
	})
}

func TestChatService_DeleteMessage(t *testing.T) {
	authored := &models.Message{ID: 5, Text: "hi", ChatID: chatID, AuthorID: memberID}

	t.Run("author deletes", func(t *testing.T) {
		f := newChatFixture(t)
		f.expectChat(defaultMembers)
		f.msgRepo.EXPECT().GetByID(gomock.Any(), int64(5)).Return(authored, nil)
		f.msgWriter.EXPECT().Delete(gomock.Any(), int64(5)).Return(nil)
		event := f.expectEvent(t)

		require.NoError(t, f.svc.DeleteMessage(context.Background(), memberID, chatID, 5))
		assert.Equal(t, models.EventMessageDeleted, event.Type)
	})

	t.Run("non-author is denied", func(t *testing.T) {
		f := newChatFixture(t)
		f.expectChat(defaultMembers)
		f.msgRepo.EXPECT().GetByID(gomock.Any(), int64(5)).Return(authored, nil)

		assertNoPermission(t, f.svc.DeleteMessage(context.Background(), outsiderID, chatID, 5))
	})
}

func TestChatService_ListMembers(t *testing.T) {
	t.Run("member", func(t *testing.T) {
		f := newChatFixture(t)
		f.expectChat(defaultMembers)
		f.members.EXPECT().ListByChatID(gomock.Any(), chatID).Return([]models.User{{ID: ownerID}, {ID: memberID}}, nil)

		users, err := f.svc.ListMembers(context.Background(), memberID, chatID)
		require.NoError(t, err)
		assert.Len(t, users, 2)
	})

	t.Run("non-member", func(t *testing.T) {
		f := newChatFixture(t)
		f.expectChat(defaultMembers)

		_, err := f.svc.ListMembers(context.Background(), outsiderID, chatID)
		assertNoPermission(t, err)
	})
}

func TestChatService_AddMember(t *testing.T) {
	all := []models.User{{ID: ownerID}, {ID: memberID}, {ID: outsiderID}}

	t.Run("owner adds a new member", func(t *testing.T) {
		f := newChatFixture(t)
		f.expectChat(defaultMembers)
		f.chatWriter.EXPECT().AddMember(gomock.Any(), chatID, outsiderID).Return(all, true, nil)
		event := f.expectEvent(t)

		users, err := f.svc.AddMember(context.Background(), ownerID, chatID, outsiderID)
		require.NoError(t, err)
		assert.Equal(t, all, users)
		assert.Equal(t, models.EventMemberAdded, event.Type)
		assert.Equal(t, outsiderID, event.UserID)
	})

	t.Run("adding an existing member is a no-op", func(t *testing.T) {
		f := newChatFixture(t)
		f.expectChat(defaultMembers)
		existing := []models.User{{ID: ownerID}, {ID: memberID}}
		f.chatWriter.EXPECT().AddMember(gomock.Any(), chatID, memberID).Return(existing, false, nil).Times(2)

		first, err := f.svc.AddMember(context.Background(), ownerID, chatID, memberID)
		require.NoError(t, err)
		second, err := f.svc.AddMember(context.Background(), ownerID, chatID, memberID)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("no event when a concurrent add inserted first", func(t *testing.T) {
		f := newChatFixture(t)
		// The membership read still says outsider is not a member, but the
		// insert found the row already there.
		f.expectChat(defaultMembers)
		f.chatWriter.EXPECT().AddMember(gomock.Any(), chatID, outsiderID).Return(all, false, nil)

		users, err := f.svc.AddMember(context.Background(), ownerID, chatID, outsiderID)
		require.NoError(t, err)
		assert.Equal(t, all, users)
	})

	t.Run("member is denied", func(t *testing.T) {
		f := newChatFixture(t)
		f.expectChat(defaultMembers)

		_, err := f.svc.AddMember(context.Background(), memberID, chatID, outsiderID)
		assertNoPermission(t, err)
	})

	t.Run("missing user", func(t *testing.T) {
		f := newChatFixture(t)
		f.expectChat(defaultMembers)
		f.chatWriter.EXPECT().AddMember(gomock.Any(), chatID, int64(404)).Return(nil, false, errs.NotFound("User", 404))

		_, err := f.svc.AddMember(context.Background(), ownerID, chatID, 404)
		assert.True(t, errs.IsNotFound(err, "User"))
	})
}

func TestChatService_RemoveMember(t *testing.T) {
	t.Run("owner removes a member", func(t *testing.T) {
		f := newChatFixture(t)
		f.expectChat(defaultMembers)
		remaining := []models.User{{ID: ownerID}}
		f.chatWriter.EXPECT().RemoveMember(gomock.Any(), chatID, memberID).Return(remaining, true, nil)
		event := f.expectEvent(t)

		users, err := f.svc.RemoveMember(context.Background(), ownerID, chatID, memberID)
		require.NoError(t, err)
		assert.Equal(t, remaining, users)
		assert.Equal(t, models.EventMemberRemoved, event.Type)
	})

	t.Run("removing a non-member is a no-op", func(t *testing.T) {
		f := newChatFixture(t)
		f.expectChat(defaultMembers)
		f.chatWriter.EXPECT().RemoveMember(gomock.Any(), chatID, outsiderID).Return([]models.User{{ID: ownerID}, {ID: memberID}}, false, nil)

		users, err := f.svc.RemoveMember(context.Background(), ownerID, chatID, outsiderID)
		require.NoError(t, err)
		assert.Len(t, users, 2)
	})

	t.Run("no event when a concurrent remove deleted first", func(t *testing.T) {
		f := newChatFixture(t)
		f.expectChat(defaultMembers)
		remaining := []models.User{{ID: ownerID}}
		f.chatWriter.EXPECT().RemoveMember(gomock.Any(), chatID, memberID).Return(remaining, false, nil)

		users, err := f.svc.RemoveMember(context.Background(), ownerID, chatID, memberID)
		require.NoError(t, err)
		assert.Equal(t, remaining, users)
	})

	t.Run("owner cannot remove self", func(t *testing.T) {
		f := newChatFixture(t)
		f.expectChat(defaultMembers)

		_, err := f.svc.RemoveMember(context.Background(), ownerID, chatID, ownerID)
		var inv *errs.InvalidStateError
		assert.ErrorAs(t, err, &inv)
	})

	t.Run("non-owner removing the owner is denied", func(t *testing.T) {
		f := newChatFixture(t)
		f.expectChat(defaultMembers)

		_, err := f.svc.RemoveMember(context.Background(), memberID, chatID, ownerID)
		assertNoPermission(t, err)
	})
}
