package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FriendRequestStatus is the lifecycle state of a friend request.
// There is no rejected state: a request stays pending until the
// recipient accepts it, and acceptance is terminal.
type FriendRequestStatus string

const (
	FriendRequestPending  FriendRequestStatus = "pending"
	FriendRequestAccepted FriendRequestStatus = "accepted"
)

type FriendRequest struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	SenderID    primitive.ObjectID  `bson:"sender_id" json:"senderId"`
	RecipientID primitive.ObjectID  `bson:"recipient_id" json:"recipientId"`
	Status      FriendRequestStatus `bson:"status" json:"status"`
	CreatedAt   time.Time           `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time           `bson:"updated_at" json:"updatedAt"`
}

// FriendRequestWithUser pairs a request with the profile of the other
// party (the sender for incoming requests, the recipient for outgoing
// and accepted ones).
type FriendRequestWithUser struct {
	FriendRequest
	User PublicUser `json:"user"`
}

// FriendRequestFeed is what the notifications page renders: pending
// requests awaiting the user's answer plus recently accepted ones.
type FriendRequestFeed struct {
	IncomingRequests []FriendRequestWithUser `json:"incomingRequests"`
	AcceptedRequests []FriendRequestWithUser `json:"acceptedRequests"`
}
