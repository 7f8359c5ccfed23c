package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Zh4nibek/LinguaLink/internal/models"
	"github.com/Zh4nibek/LinguaLink/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GroupRepository handles database operations related to groups.
type GroupRepository struct {
	collection *mongo.Collection
}

// NewGroupRepository creates a new instance of GroupRepository.
func NewGroupRepository(db *mongo.Database) *GroupRepository {
	return &GroupRepository{
		collection: db.Collection("groups"),
	}
}

// CreateGroup inserts a new group. The caller assigns the ID up front
// so the chat channel identifier can be derived before the write.
func (r *GroupRepository) CreateGroup(ctx context.Context, group *models.Group) (*models.Group, error) {
	group.CreatedAt = time.Now()
	group.UpdatedAt = group.CreatedAt

	_, err := r.collection.InsertOne(ctx, group)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert group")
		return nil, fmt.Errorf("failed to insert group: %v", err)
	}

	logger.Log.WithField("group_id", group.ID.Hex()).Info("Group created successfully")
	return group, nil
}

// GetGroupByID fetches a group by its ID. Returns (nil, nil) when the
// group does not exist.
func (r *GroupRepository) GetGroupByID(ctx context.Context, id primitive.ObjectID) (*models.Group, error) {
	var group models.Group
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&group)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find group: %v", err)
	}
	return &group, nil
}

// GetGroupsByMember returns every group the user belongs to, most
// recently active first.
func (r *GroupRepository) GetGroupsByMember(ctx context.Context, userID primitive.ObjectID) ([]models.Group, error) {
	filter := bson.M{"members": userID}
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch groups: %v", err)
	}
	defer cursor.Close(ctx)

	var groups []models.Group
	for cursor.Next(ctx) {
		var group models.Group
		if err := cursor.Decode(&group); err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}

	return groups, nil
}

// UpdateGroup applies a partial update and returns the updated group.
func (r *GroupRepository) UpdateGroup(ctx context.Context, id primitive.ObjectID, update map[string]interface{}) (*models.Group, error) {
	update["updated_at"] = time.Now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var group models.Group
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": update}, opts).Decode(&group)
	if err != nil {
		logger.Log.WithError(err).WithField("group_id", id.Hex()).Error("Failed to update group")
		return nil, fmt.Errorf("failed to update group: %v", err)
	}

	return &group, nil
}

// AddMembers inserts the given users into the member set. $addToSet
// with $each keeps member insertion idempotent so concurrent admin
// edits cannot produce duplicates.
func (r *GroupRepository) AddMembers(ctx context.Context, id primitive.ObjectID, memberIDs []primitive.ObjectID) (*models.Group, error) {
	update := bson.M{
		"$addToSet": bson.M{"members": bson.M{"$each": memberIDs}},
		"$set":      bson.M{"updated_at": time.Now()},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var group models.Group
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&group)
	if err != nil {
		return nil, fmt.Errorf("failed to add members: %v", err)
	}

	return &group, nil
}

// RemoveMember pulls a user from the member set.
func (r *GroupRepository) RemoveMember(ctx context.Context, id, memberID primitive.ObjectID) (*models.Group, error) {
	update := bson.M{
		"$pull": bson.M{"members": memberID},
		"$set":  bson.M{"updated_at": time.Now()},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var group models.Group
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&group)
	if err != nil {
		return nil, fmt.Errorf("failed to remove member: %v", err)
	}

	return &group, nil
}

// DeleteGroup deletes a group from the database by its ID.
func (r *GroupRepository) DeleteGroup(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logger.Log.WithError(err).WithField("group_id", id.Hex()).Error("Failed to delete group")
		return fmt.Errorf("failed to delete group: %v", err)
	}

	logger.Log.WithField("group_id", id.Hex()).Info("Group deleted successfully")
	return nil
}
