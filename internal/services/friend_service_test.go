package services

import (
	"context"
	"testing"

	"github.com/Zh4nibek/LinguaLink/internal/models"
	"github.com/Zh4nibek/LinguaLink/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newFriendFixture(t *testing.T) (*FriendService, *fakeUserStore, *models.User, *models.User) {
	t.Helper()
	users := newFakeUserStore()
	alice := users.add(&models.User{FullName: "Alice", Email: "alice@example.com", IsOnboarded: true})
	bob := users.add(&models.User{FullName: "Bob", Email: "bob@example.com", IsOnboarded: true})
	service := NewFriendService(newFakeFriendRequestStore(), users)
	return service, users, alice, bob
}

func TestSendRequestToSelfFails(t *testing.T) {
	service, _, alice, _ := newFriendFixture(t)

	_, err := service.SendRequest(context.Background(), alice.ID, alice.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestSendRequestToUnknownUserFails(t *testing.T) {
	service, _, alice, _ := newFriendFixture(t)

	_, err := service.SendRequest(context.Background(), alice.ID, primitive.NewObjectID())
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestSendRequestToExistingFriendFails(t *testing.T) {
	service, users, alice, bob := newFriendFixture(t)
	require.NoError(t, users.AddFriend(context.Background(), bob.ID, alice.ID))

	_, err := service.SendRequest(context.Background(), alice.ID, bob.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestSendRequestDuplicatePairFails(t *testing.T) {
	service, _, alice, bob := newFriendFixture(t)
	ctx := context.Background()

	_, err := service.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	// Same direction
	_, err = service.SendRequest(ctx, alice.ID, bob.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	// Reverse direction before acceptance must fail too
	_, err = service.SendRequest(ctx, bob.ID, alice.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestAcceptRequestMakesFriendshipSymmetric(t *testing.T) {
	service, users, alice, bob := newFriendFixture(t)
	ctx := context.Background()

	request, err := service.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FriendRequestPending, request.Status)

	require.NoError(t, service.AcceptRequest(ctx, request.ID, bob.ID))

	aliceAfter, err := users.GetUserByID(ctx, alice.ID)
	require.NoError(t, err)
	bobAfter, err := users.GetUserByID(ctx, bob.ID)
	require.NoError(t, err)

	assert.True(t, aliceAfter.HasFriend(bob.ID), "sender must gain recipient as friend")
	assert.True(t, bobAfter.HasFriend(alice.ID), "recipient must gain sender as friend")
}

func TestAcceptRequestOnlyByRecipient(t *testing.T) {
	service, _, alice, bob := newFriendFixture(t)
	ctx := context.Background()

	request, err := service.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	// The sender cannot accept their own request.
	err = service.AcceptRequest(ctx, request.ID, alice.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	// Neither can an unrelated user.
	err = service.AcceptRequest(ctx, request.ID, primitive.NewObjectID())
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestAcceptRequestNotFound(t *testing.T) {
	service, _, _, bob := newFriendFixture(t)

	err := service.AcceptRequest(context.Background(), primitive.NewObjectID(), bob.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestAcceptRequestIsTerminal(t *testing.T) {
	service, _, alice, bob := newFriendFixture(t)
	ctx := context.Background()

	request, err := service.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.NoError(t, service.AcceptRequest(ctx, request.ID, bob.ID))

	err = service.AcceptRequest(ctx, request.ID, bob.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestGetRequestsFeed(t *testing.T) {
	service, users, alice, bob := newFriendFixture(t)
	carol := users.add(&models.User{FullName: "Carol", Email: "carol@example.com", IsOnboarded: true})
	ctx := context.Background()

	// Bob has one incoming pending request from Alice and one accepted
	// request from Carol.
	_, err := service.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	accepted, err := service.SendRequest(ctx, carol.ID, bob.ID)
	require.NoError(t, err)
	require.NoError(t, service.AcceptRequest(ctx, accepted.ID, bob.ID))

	feed, err := service.GetRequests(ctx, bob.ID)
	require.NoError(t, err)

	require.Len(t, feed.IncomingRequests, 1)
	assert.Equal(t, alice.ID, feed.IncomingRequests[0].SenderID)
	assert.Equal(t, "Alice", feed.IncomingRequests[0].User.FullName)

	require.Len(t, feed.AcceptedRequests, 1)
	assert.Equal(t, carol.ID, feed.AcceptedRequests[0].SenderID)
	assert.Equal(t, "Carol", feed.AcceptedRequests[0].User.FullName)
}

func TestGetOutgoingRequests(t *testing.T) {
	service, _, alice, bob := newFriendFixture(t)
	ctx := context.Background()

	_, err := service.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	outgoing, err := service.GetOutgoingRequests(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, outgoing, 1)
	assert.Equal(t, bob.ID, outgoing[0].RecipientID)
	assert.Equal(t, "Bob", outgoing[0].User.FullName)

	// Acceptance empties the outgoing feed but keeps the record for
	// the recipient's accepted feed.
	require.NoError(t, service.AcceptRequest(ctx, outgoing[0].ID, bob.ID))

	outgoing, err = service.GetOutgoingRequests(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, outgoing)
}
