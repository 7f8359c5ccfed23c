package services

import (
	"context"
	"fmt"

	"github.com/Zh4nibek/LinguaLink/internal/models"
	"github.com/Zh4nibek/LinguaLink/internal/stream"
	"github.com/Zh4nibek/LinguaLink/pkg/logger"
)

// ChatService issues chat provider identity tokens and mirrors user
// identity records into the provider. Token issuance failures are
// fatal for the caller; identity sync is best-effort.
type ChatService struct {
	chat stream.Client
}

func NewChatService(chat stream.Client) *ChatService {
	return &ChatService{chat: chat}
}

// GetToken mints the identity token the web client uses to connect to
// the chat/video provider.
func (s *ChatService) GetToken(ctx context.Context, userID string) (string, error) {
	token, err := s.chat.CreateToken(userID)
	if err != nil {
		return "", fmt.Errorf("failed to generate chat token: %v", err)
	}
	return token, nil
}

// SyncUser pushes a user's display identity into the provider,
// logging and swallowing failures.
func (s *ChatService) SyncUser(ctx context.Context, user *models.User) {
	if err := s.chat.UpsertUser(ctx, user.ID.Hex(), user.FullName, user.ProfilePic); err != nil {
		logger.Log.WithError(err).WithField("userID", user.ID.Hex()).Warn("Failed to sync user to chat provider")
	}
}
