package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/sbilibin2017/restchat/internal/errs"
	"github.com/sbilibin2017/restchat/internal/models"
	"github.com/sbilibin2017/restchat/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	users := services.NewMockUserDirectory(ctrl)
	users.EXPECT().List(gomock.Any()).Return([]models.User{{ID: 1}, {ID: 2}}, nil)

	svc := services.NewUserService(nil, users, nil, nil)
	got, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestUserService_Get_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	users := services.NewMockUserDirectory(ctrl)
	users.EXPECT().GetByID(gomock.Any(), int64(42)).Return(nil, errs.NotFound("User", 42))

	svc := services.NewUserService(nil, users, nil, nil)
	_, err := svc.Get(context.Background(), 42)
	assert.True(t, errs.IsNotFound(err, "User"))
}

func TestUserService_ListChats(t *testing.T) {
	t.Run("existing user", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		users := services.NewMockUserDirectory(ctrl)
		chats := services.NewMockUserChatLister(ctrl)
		users.EXPECT().GetByID(gomock.Any(), int64(1)).Return(&models.User{ID: 1}, nil)
		chats.EXPECT().ListByUserID(gomock.Any(), int64(1)).Return([]models.Chat{{ID: 5, Name: "general"}}, nil)

		svc := services.NewUserService(nil, users, chats, nil)
		got, err := svc.ListChats(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, "general", got[0].Name)
	})

	t.Run("missing user", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		users := services.NewMockUserDirectory(ctrl)
		chats := services.NewMockUserChatLister(ctrl)
		users.EXPECT().GetByID(gomock.Any(), int64(9)).Return(nil, errs.NotFound("User", 9))

		svc := services.NewUserService(nil, users, chats, nil)
		_, err := svc.ListChats(context.Background(), 9)
		assert.True(t, errs.IsNotFound(err, "User"))
	})
}

func TestUserService_UpdateProfile(t *testing.T) {
	name := "alice2"

	tests := []struct {
		name      string
		writerErr error
		wantErr   bool
	}{
		{name: "updated"},
		{name: "duplicate", writerErr: errs.DuplicateField("User", "username", name), wantErr: true},
		{name: "store error", writerErr: errors.New("db error"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			writer := services.NewMockProfileWriter(ctrl)
			var updated *models.User
			if tt.writerErr == nil {
				updated = &models.User{ID: 1, Username: name}
			}
			writer.EXPECT().Update(gomock.Any(), int64(1), &name, nil).Return(updated, tt.writerErr)

			svc := services.NewUserService(newPassThroughTx(ctrl), nil, nil, writer)
			got, err := svc.UpdateProfile(context.Background(), 1, &name, nil)
			if tt.wantErr {
				assert.ErrorIs(t, err, tt.writerErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, name, got.Username)
		})
	}
}
