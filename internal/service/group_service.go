package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/rlee603166/sharify/internal/models"
	"github.com/rlee603166/sharify/internal/storage"
	"github.com/rlee603166/sharify/pkg/api"
	"github.com/rlee603166/sharify/pkg/api/apiconnect"
)

var _ apiconnect.GroupServiceHandler = (*GroupService)(nil)

// GroupService implements the Connect GroupService. It manages the caller's
// saved friends and named groups, which feed party selection.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// CreateGroup creates a new group.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	slog.Info("CreateGroup request received",
		"user_id", userID,
		"name", req.Msg.Name,
		"members_count", len(req.Msg.Members),
	)

	members, err := validateGroup(req.Msg.Name, req.Msg.Members)
	if err != nil {
		return nil, err
	}

	group := &models.Group{
		OwnerID: userID,
		Name:    strings.TrimSpace(req.Msg.Name),
		Members: members,
	}

	// Save to storage (generates ID and CreatedAt)
	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Group created", "group_id", group.ID)

	return connect.NewResponse(&api.CreateGroupResponse{Group: groupToAPI(group)}), nil
}

// GetGroup retrieves a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	slog.Info("GetGroup request received", "group_id", req.Msg.GroupId)

	group, err := ownedGroup(ctx, s.store, userID, req.Msg.GroupId)
	if err != nil {
		slog.Error("GetGroup failed", "group_id", req.Msg.GroupId, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetGroupResponse{Group: groupToAPI(group)}), nil
}

// ListGroups retrieves the caller's groups.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	groups, err := s.store.ListGroups(ctx, userID)
	if err != nil {
		slog.Error("ListGroups failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	out := make([]*api.Group, len(groups))
	for i := range groups {
		out[i] = groupToAPI(&groups[i])
	}

	slog.Info("ListGroups successful", "user_id", userID, "count", len(groups))

	return connect.NewResponse(&api.ListGroupsResponse{Groups: out}), nil
}

// UpdateGroup replaces a group's name and members.
func (s *GroupService) UpdateGroup(ctx context.Context, req *connect.Request[api.UpdateGroupRequest]) (*connect.Response[api.UpdateGroupResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	slog.Info("UpdateGroup request received",
		"group_id", req.Msg.GroupId,
		"name", req.Msg.Name,
		"members_count", len(req.Msg.Members),
	)

	members, err := validateGroup(req.Msg.Name, req.Msg.Members)
	if err != nil {
		return nil, err
	}

	group, err := ownedGroup(ctx, s.store, userID, req.Msg.GroupId)
	if err != nil {
		slog.Error("UpdateGroup failed", "group_id", req.Msg.GroupId, "error", err)
		return nil, toConnectError(err)
	}

	group.Name = strings.TrimSpace(req.Msg.Name)
	group.Members = members
	if err := s.store.UpdateGroup(ctx, group); err != nil {
		slog.Error("UpdateGroup failed", "error", err)
		return nil, toConnectError(err)
	}

	// Fetch the stored form, which drops duplicate members
	updated, err := s.store.GetGroup(ctx, group.ID)
	if err != nil {
		slog.Error("Failed to fetch updated group", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Group updated", "group_id", group.ID)

	return connect.NewResponse(&api.UpdateGroupResponse{Group: groupToAPI(updated)}), nil
}

// DeleteGroup removes a group by ID.
func (s *GroupService) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	slog.Info("DeleteGroup request received", "group_id", req.Msg.GroupId)

	if _, err := ownedGroup(ctx, s.store, userID, req.Msg.GroupId); err != nil {
		slog.Error("DeleteGroup failed", "group_id", req.Msg.GroupId, "error", err)
		return nil, toConnectError(err)
	}
	if err := s.store.DeleteGroup(ctx, req.Msg.GroupId); err != nil {
		slog.Error("DeleteGroup failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Group deleted", "group_id", req.Msg.GroupId)

	return connect.NewResponse(&api.DeleteGroupResponse{}), nil
}

// AddFriend saves a participant to the caller's friend list.
func (s *GroupService) AddFriend(ctx context.Context, req *connect.Request[api.AddFriendRequest]) (*connect.Response[api.AddFriendResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	f := req.Msg.Friend
	if f == nil || f.Id == "" || strings.TrimSpace(f.DisplayName) == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("friend id and display name are required"))
	}
	if f.Id == userID {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("cannot add yourself as a friend"))
	}

	slog.Info("AddFriend request received", "user_id", userID, "friend_id", f.Id)

	friend := &models.Friend{
		OwnerID:     userID,
		Participant: models.Participant{ID: f.Id, DisplayName: strings.TrimSpace(f.DisplayName)},
	}
	if err := s.store.AddFriend(ctx, friend); err != nil {
		slog.Error("AddFriend failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	return connect.NewResponse(&api.AddFriendResponse{Friend: participantToAPI(friend.Participant)}), nil
}

// ListFriends returns the caller's saved friends.
func (s *GroupService) ListFriends(ctx context.Context, req *connect.Request[api.ListFriendsRequest]) (*connect.Response[api.ListFriendsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	friends, err := s.store.ListFriends(ctx, userID)
	if err != nil {
		slog.Error("ListFriends failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	out := make([]*api.Participant, len(friends))
	for i, f := range friends {
		out[i] = participantToAPI(f.Participant)
	}
	return connect.NewResponse(&api.ListFriendsResponse{Friends: out}), nil
}

// RemoveFriend deletes a saved friend.
func (s *GroupService) RemoveFriend(ctx context.Context, req *connect.Request[api.RemoveFriendRequest]) (*connect.Response[api.RemoveFriendResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	slog.Info("RemoveFriend request received", "user_id", userID, "friend_id", req.Msg.FriendId)

	if err := s.store.RemoveFriend(ctx, userID, req.Msg.FriendId); err != nil {
		slog.Error("RemoveFriend failed", "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.RemoveFriendResponse{}), nil
}

// ownedGroup loads a group and checks that userID owns it.
func ownedGroup(ctx context.Context, store storage.Store, userID, groupID string) (*models.Group, error) {
	if groupID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("group_id required"))
	}
	group, err := store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.OwnerID != userID {
		return nil, fmt.Errorf("group %s: %w", groupID, errNotOwner)
	}
	return group, nil
}

func validateGroup(name string, members []*api.Participant) ([]models.Participant, error) {
	if strings.TrimSpace(name) == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("group name is required"))
	}
	out := participantsFromAPI(members)
	for _, m := range out {
		if m.ID == "" {
			return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("group members need an id"))
		}
	}
	return out, nil
}
