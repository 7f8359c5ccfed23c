package services

import (
	"context"
	"fmt"

	"github.com/Zh4nibek/LinguaLink/internal/models"
	"github.com/Zh4nibek/LinguaLink/pkg/apperr"
	"github.com/Zh4nibek/LinguaLink/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FriendRequestStore is the persistence surface of the friend request
// state machine. *repository.FriendRequestRepository satisfies it.
type FriendRequestStore interface {
	CreateRequest(ctx context.Context, req *models.FriendRequest) (*models.FriendRequest, error)
	GetRequestByID(ctx context.Context, id primitive.ObjectID) (*models.FriendRequest, error)
	FindBetween(ctx context.Context, userA, userB primitive.ObjectID) (*models.FriendRequest, error)
	UpdateRequestStatus(ctx context.Context, id primitive.ObjectID, status models.FriendRequestStatus) error
	GetPendingByRecipient(ctx context.Context, recipientID primitive.ObjectID) ([]models.FriendRequest, error)
	GetPendingBySender(ctx context.Context, senderID primitive.ObjectID) ([]models.FriendRequest, error)
	GetAcceptedByRecipient(ctx context.Context, recipientID primitive.ObjectID) ([]models.FriendRequest, error)
}

// FriendService implements the friend request lifecycle:
// none -> pending -> accepted. Acceptance is terminal and makes the
// friendship symmetric on both user documents.
type FriendService struct {
	requests FriendRequestStore
	users    UserStore
}

// NewFriendService creates a new FriendService.
func NewFriendService(requests FriendRequestStore, users UserStore) *FriendService {
	return &FriendService{
		requests: requests,
		users:    users,
	}
}

// SendRequest creates a pending friend request from sender to
// recipient. At most one request may exist per unordered user pair.
func (s *FriendService) SendRequest(ctx context.Context, senderID, recipientID primitive.ObjectID) (*models.FriendRequest, error) {
	if senderID == recipientID {
		return nil, apperr.New(apperr.KindValidation, "cannot send friend request to yourself")
	}

	recipient, err := s.users.GetUserByID(ctx, recipientID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindNotFound, "user not found", err)
	}

	if recipient.HasFriend(senderID) {
		return nil, apperr.New(apperr.KindValidation, "user is already your friend")
	}

	existing, err := s.requests.FindBetween(ctx, senderID, recipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing request: %v", err)
	}
	if existing != nil {
		return nil, apperr.New(apperr.KindConflict, "friend request already exists between you and this user")
	}

	request, err := s.requests.CreateRequest(ctx, &models.FriendRequest{
		SenderID:    senderID,
		RecipientID: recipientID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create friend request: %v", err)
	}

	logger.Log.WithField("request_id", request.ID.Hex()).Info("Friend request sent")
	return request, nil
}

// AcceptRequest transitions a pending request to accepted and inserts
// each user into the other's friend set. Only the recipient may
// accept. The inserts use set semantics, so a racing double-accept
// cannot duplicate friendships.
func (s *FriendService) AcceptRequest(ctx context.Context, requestID, actorID primitive.ObjectID) error {
	request, err := s.requests.GetRequestByID(ctx, requestID)
	if err != nil {
		return fmt.Errorf("failed to load friend request: %v", err)
	}
	if request == nil {
		return apperr.New(apperr.KindNotFound, "friend request not found")
	}

	if request.RecipientID != actorID {
		return apperr.New(apperr.KindForbidden, "you are not authorized to accept this friend request")
	}

	if request.Status != models.FriendRequestPending {
		return apperr.New(apperr.KindValidation, "friend request already accepted")
	}

	if err := s.requests.UpdateRequestStatus(ctx, requestID, models.FriendRequestAccepted); err != nil {
		return fmt.Errorf("failed to accept request: %v", err)
	}

	if err := s.users.AddFriend(ctx, request.SenderID, request.RecipientID); err != nil {
		return fmt.Errorf("failed to add friend to sender: %v", err)
	}
	if err := s.users.AddFriend(ctx, request.RecipientID, request.SenderID); err != nil {
		return fmt.Errorf("failed to add friend to recipient: %v", err)
	}

	logger.Log.WithField("request_id", requestID.Hex()).Info("Friend request accepted")
	return nil
}

// GetRequests returns the notification feed for a user: incoming
// pending requests plus requests of theirs that were accepted.
func (s *FriendService) GetRequests(ctx context.Context, userID primitive.ObjectID) (*models.FriendRequestFeed, error) {
	incoming, err := s.requests.GetPendingByRecipient(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch incoming requests: %v", err)
	}

	accepted, err := s.requests.GetAcceptedByRecipient(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accepted requests: %v", err)
	}

	// Incoming requests show the sender, accepted ones the sender who
	// is now a friend.
	incomingWithUsers, err := s.attachUsers(ctx, incoming, func(req models.FriendRequest) primitive.ObjectID {
		return req.SenderID
	})
	if err != nil {
		return nil, err
	}

	acceptedWithUsers, err := s.attachUsers(ctx, accepted, func(req models.FriendRequest) primitive.ObjectID {
		return req.SenderID
	})
	if err != nil {
		return nil, err
	}

	return &models.FriendRequestFeed{
		IncomingRequests: incomingWithUsers,
		AcceptedRequests: acceptedWithUsers,
	}, nil
}

// GetOutgoingRequests returns the user's pending outgoing requests
// with recipient profiles attached.
func (s *FriendService) GetOutgoingRequests(ctx context.Context, userID primitive.ObjectID) ([]models.FriendRequestWithUser, error) {
	outgoing, err := s.requests.GetPendingBySender(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch outgoing requests: %v", err)
	}

	return s.attachUsers(ctx, outgoing, func(req models.FriendRequest) primitive.ObjectID {
		return req.RecipientID
	})
}

func (s *FriendService) attachUsers(ctx context.Context, requests []models.FriendRequest, pick func(models.FriendRequest) primitive.ObjectID) ([]models.FriendRequestWithUser, error) {
	result := make([]models.FriendRequestWithUser, 0, len(requests))
	if len(requests) == 0 {
		return result, nil
	}

	ids := make([]primitive.ObjectID, 0, len(requests))
	for _, req := range requests {
		ids = append(ids, pick(req))
	}

	users, err := s.users.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch request users: %v", err)
	}

	byID := make(map[primitive.ObjectID]models.PublicUser, len(users))
	for i := range users {
		byID[users[i].ID] = users[i].Public()
	}

	for _, req := range requests {
		result = append(result, models.FriendRequestWithUser{
			FriendRequest: req,
			User:          byID[pick(req)],
		})
	}

	return result, nil
}
