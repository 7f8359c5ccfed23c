package services

import (
	"context"
	"strings"
	"testing"

	"github.com/Zh4nibek/LinguaLink/internal/models"
	"github.com/Zh4nibek/LinguaLink/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type groupFixture struct {
	service *GroupService
	groups  *fakeGroupStore
	users   *fakeUserStore
	chat    *fakeChatClient
	admin   *models.User
	friend1 *models.User
	friend2 *models.User
}

func newGroupFixture(t *testing.T) *groupFixture {
	t.Helper()
	users := newFakeUserStore()
	admin := users.add(&models.User{FullName: "Admin", Email: "admin@example.com", IsOnboarded: true})
	friend1 := users.add(&models.User{FullName: "Friend One", Email: "one@example.com", IsOnboarded: true})
	friend2 := users.add(&models.User{FullName: "Friend Two", Email: "two@example.com", IsOnboarded: true})

	ctx := context.Background()
	require.NoError(t, users.AddFriend(ctx, admin.ID, friend1.ID))
	require.NoError(t, users.AddFriend(ctx, friend1.ID, admin.ID))
	require.NoError(t, users.AddFriend(ctx, admin.ID, friend2.ID))
	require.NoError(t, users.AddFriend(ctx, friend2.ID, admin.ID))

	groups := newFakeGroupStore()
	chat := &fakeChatClient{}
	return &groupFixture{
		service: NewGroupService(groups, users, chat),
		groups:  groups,
		users:   users,
		chat:    chat,
		admin:   admin,
		friend1: friend1,
		friend2: friend2,
	}
}

func (f *groupFixture) createGroup(t *testing.T, memberIDs ...string) *models.Group {
	t.Helper()
	group, err := f.service.CreateGroup(context.Background(), f.admin.ID, "Trip", "planning our trip", memberIDs)
	require.NoError(t, err)
	return group
}

func TestCreateGroupMembersAndChannel(t *testing.T) {
	f := newGroupFixture(t)

	group := f.createGroup(t, f.friend1.ID.Hex(), f.friend2.ID.Hex())

	assert.Equal(t, "Trip", group.Name)
	assert.Equal(t, f.admin.ID, group.AdminID)
	assert.ElementsMatch(t,
		[]primitive.ObjectID{f.admin.ID, f.friend1.ID, f.friend2.ID},
		group.Members)
	assert.Equal(t, "group-"+group.ID.Hex(), group.ChannelID)
	assert.True(t, group.HasMember(group.AdminID), "admin must always be a member")
}

func TestCreateGroupValidation(t *testing.T) {
	f := newGroupFixture(t)
	ctx := context.Background()

	_, err := f.service.CreateGroup(ctx, f.admin.ID, "  ", "", []string{f.friend1.ID.Hex()})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = f.service.CreateGroup(ctx, f.admin.ID, "Trip", "", nil)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = f.service.CreateGroup(ctx, f.admin.ID, strings.Repeat("x", 51), "", []string{f.friend1.ID.Hex()})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCreateGroupRejectsNonFriends(t *testing.T) {
	f := newGroupFixture(t)
	stranger := f.users.add(&models.User{FullName: "Stranger", Email: "stranger@example.com", IsOnboarded: true})

	// One non-friend rejects the whole request; no group is created.
	_, err := f.service.CreateGroup(context.Background(), f.admin.ID, "Trip", "",
		[]string{f.friend1.ID.Hex(), stranger.ID.Hex()})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Empty(t, f.groups.groups, "no partial group may be created")
}

func TestAddMembersFiltersAndRejectsEmpty(t *testing.T) {
	f := newGroupFixture(t)
	ctx := context.Background()
	group := f.createGroup(t, f.friend1.ID.Hex())

	// friend2 is valid, friend1 is already a member and gets filtered.
	updated, err := f.service.AddMembers(ctx, group.ID, f.admin.ID,
		[]string{f.friend1.ID.Hex(), f.friend2.ID.Hex()})
	require.NoError(t, err)
	assert.ElementsMatch(t,
		[]primitive.ObjectID{f.admin.ID, f.friend1.ID, f.friend2.ID},
		updated.Members)

	// A lone already-member ID leaves nothing to add.
	_, err = f.service.AddMembers(ctx, group.ID, f.admin.ID, []string{f.friend1.ID.Hex()})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Contains(t, apperr.Message(err), "no valid members to add")
}

func TestAddMembersAdminOnly(t *testing.T) {
	f := newGroupFixture(t)
	group := f.createGroup(t, f.friend1.ID.Hex())

	_, err := f.service.AddMembers(context.Background(), group.ID, f.friend1.ID, []string{f.friend2.ID.Hex()})
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestRemoveMemberAuthority(t *testing.T) {
	f := newGroupFixture(t)
	ctx := context.Background()
	group := f.createGroup(t, f.friend1.ID.Hex(), f.friend2.ID.Hex())

	// A regular member cannot remove another member.
	_, err := f.service.RemoveMember(ctx, group.ID, f.friend1.ID, f.friend2.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	// A member can leave.
	updated, err := f.service.RemoveMember(ctx, group.ID, f.friend1.ID, f.friend1.ID)
	require.NoError(t, err)
	assert.False(t, updated.HasMember(f.friend1.ID))
	assert.True(t, updated.HasMember(updated.AdminID))

	// The admin can remove anyone else.
	updated, err = f.service.RemoveMember(ctx, group.ID, f.admin.ID, f.friend2.ID)
	require.NoError(t, err)
	assert.False(t, updated.HasMember(f.friend2.ID))
}

func TestAdminCannotBeRemoved(t *testing.T) {
	f := newGroupFixture(t)
	group := f.createGroup(t, f.friend1.ID.Hex())

	// Not even by themselves.
	_, err := f.service.RemoveMember(context.Background(), group.ID, f.admin.ID, f.admin.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	stored, err := f.groups.GetGroupByID(context.Background(), group.ID)
	require.NoError(t, err)
	assert.True(t, stored.HasMember(f.admin.ID))
}

func TestDeleteGroupAdminOnly(t *testing.T) {
	f := newGroupFixture(t)
	ctx := context.Background()
	group := f.createGroup(t, f.friend1.ID.Hex())

	err := f.service.DeleteGroup(ctx, group.ID, f.friend1.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	stored, err := f.groups.GetGroupByID(ctx, group.ID)
	require.NoError(t, err)
	require.NotNil(t, stored, "group must persist after forbidden delete")

	require.NoError(t, f.service.DeleteGroup(ctx, group.ID, f.admin.ID))
	stored, err = f.groups.GetGroupByID(ctx, group.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestGetGroupMembersOnly(t *testing.T) {
	f := newGroupFixture(t)
	ctx := context.Background()
	group := f.createGroup(t, f.friend1.ID.Hex())

	_, err := f.service.GetGroup(ctx, group.ID, f.friend2.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	got, err := f.service.GetGroup(ctx, group.ID, f.friend1.ID)
	require.NoError(t, err)
	assert.Equal(t, group.ID, got.ID)
}

func TestGroupMutationsSurviveChatOutage(t *testing.T) {
	f := newGroupFixture(t)
	f.chat.upsertErr = assert.AnError

	// Provider sync failures must never fail the group operation.
	group, err := f.service.CreateGroup(context.Background(), f.admin.ID, "Trip", "",
		[]string{f.friend1.ID.Hex()})
	require.NoError(t, err)

	_, err = f.service.AddMembers(context.Background(), group.ID, f.admin.ID, []string{f.friend2.ID.Hex()})
	require.NoError(t, err)
}
