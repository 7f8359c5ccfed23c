package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Zh4nibek/LinguaLink/internal/models"
	"github.com/Zh4nibek/LinguaLink/internal/stream"
	"github.com/Zh4nibek/LinguaLink/pkg/apperr"
	"github.com/Zh4nibek/LinguaLink/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	maxGroupNameLen        = 50
	maxGroupDescriptionLen = 200
)

// GroupStore is the persistence surface the group service needs.
// *repository.GroupRepository satisfies it.
type GroupStore interface {
	CreateGroup(ctx context.Context, group *models.Group) (*models.Group, error)
	GetGroupByID(ctx context.Context, id primitive.ObjectID) (*models.Group, error)
	GetGroupsByMember(ctx context.Context, userID primitive.ObjectID) ([]models.Group, error)
	UpdateGroup(ctx context.Context, id primitive.ObjectID, update map[string]interface{}) (*models.Group, error)
	AddMembers(ctx context.Context, id primitive.ObjectID, memberIDs []primitive.ObjectID) (*models.Group, error)
	RemoveMember(ctx context.Context, id, memberID primitive.ObjectID) (*models.Group, error)
	DeleteGroup(ctx context.Context, id primitive.ObjectID) error
}

// GroupUpdate carries the optional fields of a group update. Nil
// means "leave unchanged".
type GroupUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Avatar      *string `json:"avatar"`
}

// GroupService owns group membership authority: the single admin
// manages the member set, members may only remove themselves, and the
// admin is always a member and can never be removed.
type GroupService struct {
	groups GroupStore
	users  UserStore
	chat   stream.Client
}

// NewGroupService creates a new GroupService.
func NewGroupService(groups GroupStore, users UserStore, chat stream.Client) *GroupService {
	return &GroupService{
		groups: groups,
		users:  users,
		chat:   chat,
	}
}

// canManage reports whether the actor holds admin authority over the
// group. Centralized so every admin-gated operation shares one check.
func canManage(actorID primitive.ObjectID, group *models.Group) bool {
	return group.AdminID == actorID
}

// canRemoveMember allows the admin to remove anyone and members to
// remove themselves ("leave").
func canRemoveMember(actorID, targetID primitive.ObjectID, group *models.Group) bool {
	return canManage(actorID, group) || actorID == targetID
}

// CreateGroup creates a group with the admin plus the given members.
// Every member must already be a friend of the admin; a single
// non-friend ID rejects the whole call.
func (s *GroupService) CreateGroup(ctx context.Context, adminID primitive.ObjectID, name, description string, memberIDs []string) (*models.Group, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)

	if name == "" {
		return nil, apperr.New(apperr.KindValidation, "group name is required")
	}
	if len(name) > maxGroupNameLen {
		return nil, apperr.Newf(apperr.KindValidation, "group name must be at most %d characters", maxGroupNameLen)
	}
	if len(description) > maxGroupDescriptionLen {
		return nil, apperr.Newf(apperr.KindValidation, "group description must be at most %d characters", maxGroupDescriptionLen)
	}
	if len(memberIDs) == 0 {
		return nil, apperr.New(apperr.KindValidation, "at least one member is required")
	}

	admin, err := s.users.GetUserByID(ctx, adminID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindNotFound, "user not found", err)
	}

	members := []primitive.ObjectID{adminID}
	for _, idHex := range memberIDs {
		memberID, err := primitive.ObjectIDFromHex(idHex)
		if err != nil {
			return nil, apperr.Newf(apperr.KindValidation, "invalid member ID: %s", idHex)
		}
		if !admin.HasFriend(memberID) {
			return nil, apperr.New(apperr.KindValidation, "all members must be your friends")
		}
		if memberID != adminID {
			members = appendUnique(members, memberID)
		}
	}

	groupID := primitive.NewObjectID()
	group := &models.Group{
		ID:          groupID,
		Name:        name,
		Description: description,
		Avatar:      randomAvatarURL(),
		AdminID:     adminID,
		Members:     members,
		ChannelID:   models.GroupChannelID(groupID),
	}

	created, err := s.groups.CreateGroup(ctx, group)
	if err != nil {
		return nil, fmt.Errorf("failed to create group: %v", err)
	}

	s.syncMembersToChat(ctx, created)

	logger.Log.WithField("group_id", created.ID.Hex()).Info("Group created")
	return created, nil
}

// GetMyGroups returns every group the user is a member of.
func (s *GroupService) GetMyGroups(ctx context.Context, userID primitive.ObjectID) ([]models.Group, error) {
	groups, err := s.groups.GetGroupsByMember(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch groups: %v", err)
	}
	if groups == nil {
		groups = []models.Group{}
	}
	return groups, nil
}

// GetGroup returns a group the user is a member of.
func (s *GroupService) GetGroup(ctx context.Context, groupID, userID primitive.ObjectID) (*models.Group, error) {
	group, err := s.loadGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if !group.HasMember(userID) {
		return nil, apperr.New(apperr.KindForbidden, "you are not a member of this group")
	}

	return group, nil
}

// UpdateGroup updates the group's display fields. Admin only.
func (s *GroupService) UpdateGroup(ctx context.Context, groupID, actorID primitive.ObjectID, update GroupUpdate) (*models.Group, error) {
	group, err := s.loadGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if !canManage(actorID, group) {
		return nil, apperr.New(apperr.KindForbidden, "only the admin can update the group")
	}

	fields := map[string]interface{}{}
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, apperr.New(apperr.KindValidation, "group name cannot be empty")
		}
		if len(name) > maxGroupNameLen {
			return nil, apperr.Newf(apperr.KindValidation, "group name must be at most %d characters", maxGroupNameLen)
		}
		fields["name"] = name
	}
	if update.Description != nil {
		description := strings.TrimSpace(*update.Description)
		if len(description) > maxGroupDescriptionLen {
			return nil, apperr.Newf(apperr.KindValidation, "group description must be at most %d characters", maxGroupDescriptionLen)
		}
		fields["description"] = description
	}
	if update.Avatar != nil && *update.Avatar != "" {
		fields["avatar"] = *update.Avatar
	}
	if len(fields) == 0 {
		return nil, apperr.New(apperr.KindValidation, "no group fields to update")
	}

	updated, err := s.groups.UpdateGroup(ctx, groupID, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to update group: %v", err)
	}

	s.syncMembersToChat(ctx, updated)

	return updated, nil
}

// AddMembers adds users to the group. Admin only. IDs that are not
// friends of the admin or already members are silently filtered; the
// call fails only when nothing valid remains.
func (s *GroupService) AddMembers(ctx context.Context, groupID, actorID primitive.ObjectID, memberIDs []string) (*models.Group, error) {
	if len(memberIDs) == 0 {
		return nil, apperr.New(apperr.KindValidation, "member IDs are required")
	}

	group, err := s.loadGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if !canManage(actorID, group) {
		return nil, apperr.New(apperr.KindForbidden, "only the admin can add members")
	}

	admin, err := s.users.GetUserByID(ctx, actorID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindNotFound, "user not found", err)
	}

	var valid []primitive.ObjectID
	for _, idHex := range memberIDs {
		memberID, err := primitive.ObjectIDFromHex(idHex)
		if err != nil {
			return nil, apperr.Newf(apperr.KindValidation, "invalid member ID: %s", idHex)
		}
		if admin.HasFriend(memberID) && !group.HasMember(memberID) {
			valid = appendUnique(valid, memberID)
		}
	}

	if len(valid) == 0 {
		return nil, apperr.New(apperr.KindValidation, "no valid members to add")
	}

	updated, err := s.groups.AddMembers(ctx, groupID, valid)
	if err != nil {
		return nil, fmt.Errorf("failed to add members: %v", err)
	}

	s.syncMembersToChat(ctx, updated)

	logger.Log.WithFields(map[string]interface{}{
		"group_id": groupID.Hex(),
		"added":    len(valid),
	}).Info("Group members added")
	return updated, nil
}

// RemoveMember removes a user from the group. The admin may remove
// anyone but themselves; members may remove themselves.
func (s *GroupService) RemoveMember(ctx context.Context, groupID, actorID, memberID primitive.ObjectID) (*models.Group, error) {
	group, err := s.loadGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if !canRemoveMember(actorID, memberID, group) {
		return nil, apperr.New(apperr.KindForbidden, "not authorized to remove members")
	}

	if memberID == group.AdminID {
		return nil, apperr.New(apperr.KindValidation, "admin cannot be removed from the group")
	}

	if !group.HasMember(memberID) {
		return nil, apperr.New(apperr.KindNotFound, "user is not a member of this group")
	}

	updated, err := s.groups.RemoveMember(ctx, groupID, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to remove member: %v", err)
	}

	s.syncMembersToChat(ctx, updated)

	return updated, nil
}

// DeleteGroup deletes the group. Admin only.
func (s *GroupService) DeleteGroup(ctx context.Context, groupID, actorID primitive.ObjectID) error {
	group, err := s.loadGroup(ctx, groupID)
	if err != nil {
		return err
	}

	if !canManage(actorID, group) {
		return apperr.New(apperr.KindForbidden, "only the admin can delete the group")
	}

	if err := s.groups.DeleteGroup(ctx, groupID); err != nil {
		return fmt.Errorf("failed to delete group: %v", err)
	}

	logger.Log.WithField("group_id", groupID.Hex()).Info("Group deleted")
	return nil
}

func (s *GroupService) loadGroup(ctx context.Context, groupID primitive.ObjectID) (*models.Group, error) {
	group, err := s.groups.GetGroupByID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to load group: %v", err)
	}
	if group == nil {
		return nil, apperr.New(apperr.KindNotFound, "group not found")
	}
	return group, nil
}

// syncMembersToChat refreshes the member identity records in the chat
// provider after a membership or display change. Best-effort: errors
// are logged and the parent operation is never failed.
func (s *GroupService) syncMembersToChat(ctx context.Context, group *models.Group) {
	members, err := s.users.GetUsersByIDs(ctx, group.Members)
	if err != nil {
		logger.Log.WithError(err).WithField("group_id", group.ID.Hex()).Warn("Failed to load members for chat sync")
		return
	}

	for i := range members {
		member := &members[i]
		if err := s.chat.UpsertUser(ctx, member.ID.Hex(), member.FullName, member.ProfilePic); err != nil {
			logger.Log.WithError(err).WithField("userID", member.ID.Hex()).Warn("Failed to sync member to chat provider")
		}
	}
}

func appendUnique(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}
