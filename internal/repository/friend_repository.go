package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Zh4nibek/LinguaLink/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type FriendRequestRepository struct {
	collection *mongo.Collection
}

func NewFriendRequestRepository(db *mongo.Database) *FriendRequestRepository {
	return &FriendRequestRepository{
		collection: db.Collection("friend_requests"),
	}
}

func (r *FriendRequestRepository) CreateRequest(ctx context.Context, req *models.FriendRequest) (*models.FriendRequest, error) {
	req.Status = models.FriendRequestPending
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt

	result, err := r.collection.InsertOne(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create friend request: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	req.ID = insertedID

	return req, nil
}

func (r *FriendRequestRepository) GetRequestByID(ctx context.Context, id primitive.ObjectID) (*models.FriendRequest, error) {
	var request models.FriendRequest
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&request)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find friend request: %v", err)
	}
	return &request, nil
}

// FindBetween looks up the request linking two users in either
// direction, regardless of status. Returns (nil, nil) when the pair
// has no request.
func (r *FriendRequestRepository) FindBetween(ctx context.Context, userA, userB primitive.ObjectID) (*models.FriendRequest, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"sender_id": userA, "recipient_id": userB},
			{"sender_id": userB, "recipient_id": userA},
		},
	}

	var request models.FriendRequest
	err := r.collection.FindOne(ctx, filter).Decode(&request)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up friend request: %v", err)
	}
	return &request, nil
}

func (r *FriendRequestRepository) UpdateRequestStatus(ctx context.Context, id primitive.ObjectID, status models.FriendRequestStatus) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to update request status: %v", err)
	}
	return nil
}

func (r *FriendRequestRepository) GetPendingByRecipient(ctx context.Context, recipientID primitive.ObjectID) ([]models.FriendRequest, error) {
	return r.find(ctx, bson.M{"recipient_id": recipientID, "status": models.FriendRequestPending})
}

func (r *FriendRequestRepository) GetPendingBySender(ctx context.Context, senderID primitive.ObjectID) ([]models.FriendRequest, error) {
	return r.find(ctx, bson.M{"sender_id": senderID, "status": models.FriendRequestPending})
}

// GetAcceptedByRecipient feeds the "new connection" notifications.
// Accepted requests are never deleted, so the feed doubles as history.
func (r *FriendRequestRepository) GetAcceptedByRecipient(ctx context.Context, recipientID primitive.ObjectID) ([]models.FriendRequest, error) {
	return r.find(ctx, bson.M{"recipient_id": recipientID, "status": models.FriendRequestAccepted})
}

func (r *FriendRequestRepository) find(ctx context.Context, filter bson.M) ([]models.FriendRequest, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find friend requests: %v", err)
	}
	defer cursor.Close(ctx)

	var requests []models.FriendRequest
	for cursor.Next(ctx) {
		var req models.FriendRequest
		if err := cursor.Decode(&req); err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}

	return requests, nil
}
