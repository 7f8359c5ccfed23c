package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group is a chat group owned by a single admin. The admin is always
// part of the member set and cannot be removed from it.
type Group struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name        string               `bson:"name" json:"name"`
	Description string               `bson:"description" json:"description"`
	Avatar      string               `bson:"avatar" json:"avatar"`
	AdminID     primitive.ObjectID   `bson:"admin_id" json:"adminId"`
	Members     []primitive.ObjectID `bson:"members" json:"members"`
	ChannelID   string               `bson:"channel_id" json:"channelId"`
	CreatedAt   time.Time            `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updated_at" json:"updatedAt"`
}

// HasMember reports whether the given user is in the member set.
func (g *Group) HasMember(id primitive.ObjectID) bool {
	for _, memberID := range g.Members {
		if memberID == id {
			return true
		}
	}
	return false
}

// GroupChannelID derives the chat provider channel identifier for a
// group. It is deterministic so the channel can always be found again
// from the group document alone.
func GroupChannelID(groupID primitive.ObjectID) string {
	return fmt.Sprintf("group-%s", groupID.Hex())
}
