// Package stream wraps the hosted chat/video provider. The rest of
// the codebase only sees the narrow Client contract: it can upsert a
// user's identity record and mint an identity token. Message and call
// transport happen entirely inside the provider.
package stream

import (
	"context"
	"fmt"
	"time"

	stream "github.com/GetStream/stream-chat-go/v6"
)

// Client is the contract this app has with the chat/video provider.
type Client interface {
	UpsertUser(ctx context.Context, id, name, image string) error
	CreateToken(userID string) (string, error)
}

type chatClient struct {
	inner *stream.Client
}

// NewClient builds a provider client from API credentials.
func NewClient(apiKey, apiSecret string) (Client, error) {
	inner, err := stream.NewClient(apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create stream client: %v", err)
	}
	return &chatClient{inner: inner}, nil
}

func (c *chatClient) UpsertUser(ctx context.Context, id, name, image string) error {
	_, err := c.inner.UpsertUser(ctx, &stream.User{
		ID:    id,
		Name:  name,
		Image: image,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert stream user %s: %v", id, err)
	}
	return nil
}

func (c *chatClient) CreateToken(userID string) (string, error) {
	// Zero expiry issues a non-expiring token; the provider SDK on the
	// frontend handles refresh by re-fetching from /api/chat/token.
	token, err := c.inner.CreateToken(userID, time.Time{})
	if err != nil {
		return "", fmt.Errorf("failed to create stream token for user %s: %v", userID, err)
	}
	return token, nil
}
