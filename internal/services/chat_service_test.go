package services

import (
	"context"
	"testing"

	"github.com/Zh4nibek/LinguaLink/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGetTokenReturnsProviderToken(t *testing.T) {
	chat := &fakeChatClient{}
	service := NewChatService(chat)

	token, err := service.GetToken(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "chat-token-user-1", token)
}

func TestGetTokenFailureIsFatal(t *testing.T) {
	chat := &fakeChatClient{tokenErr: assert.AnError}
	service := NewChatService(chat)

	_, err := service.GetToken(context.Background(), "user-1")
	require.Error(t, err, "token issuance failures must surface to the caller")
}

func TestSyncUserSwallowsFailure(t *testing.T) {
	chat := &fakeChatClient{upsertErr: assert.AnError}
	service := NewChatService(chat)

	user := &models.User{ID: primitive.NewObjectID(), FullName: "Alice"}

	// Must not panic or propagate; sync is best-effort.
	service.SyncUser(context.Background(), user)
	assert.Empty(t, chat.upserts)
}
