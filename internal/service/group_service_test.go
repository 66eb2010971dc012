package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"

	"github.com/rlee603166/sharify/pkg/api"
)

func TestCreateGroup(t *testing.T) {
	ts := setupTestServer(t, "")

	resp, err := ts.group.CreateGroup(context.Background(), connect.NewRequest(&api.CreateGroupRequest{
		Name: "Roommates",
		Members: []*api.Participant{
			{Id: "bob", DisplayName: "Bob"},
			{Id: "carol", DisplayName: "Carol"},
		},
	}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	group := resp.Msg.Group
	if group.Id == "" {
		t.Error("expected group ID to be generated")
	}
	if group.Name != "Roommates" {
		t.Errorf("expected name 'Roommates', got %q", group.Name)
	}
	if len(group.Members) != 2 || group.Members[0].Id != "bob" {
		t.Errorf("unexpected members: %+v", group.Members)
	}
	if group.CreatedAt == 0 {
		t.Error("expected CreatedAt to be set")
	}
}

func TestCreateGroup_Invalid(t *testing.T) {
	ts := setupTestServer(t, "")

	tests := []struct {
		name string
		req  *api.CreateGroupRequest
	}{
		{name: "blank name", req: &api.CreateGroupRequest{Name: "  "}},
		{name: "member without id", req: &api.CreateGroupRequest{
			Name:    "Team",
			Members: []*api.Participant{{DisplayName: "Nobody"}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ts.group.CreateGroup(context.Background(), connect.NewRequest(tt.req))
			assertCode(t, err, connect.CodeInvalidArgument)
		})
	}
}

func TestGetGroup(t *testing.T) {
	ts := setupTestServer(t, "")
	ctx := context.Background()

	created, err := ts.group.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{
		Name:    "Lunch",
		Members: []*api.Participant{{Id: "dan", DisplayName: "Dan"}},
	}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	resp, err := ts.group.GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{GroupId: created.Msg.Group.Id}))
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if resp.Msg.Group.Name != "Lunch" || len(resp.Msg.Group.Members) != 1 {
		t.Errorf("unexpected group: %+v", resp.Msg.Group)
	}

	t.Run("not found", func(t *testing.T) {
		_, err := ts.group.GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{GroupId: "missing"}))
		assertCode(t, err, connect.CodeNotFound)
	})

	t.Run("other owner", func(t *testing.T) {
		_, err := ts.group.GetGroup(ctx, asUser("bob", &api.GetGroupRequest{GroupId: created.Msg.Group.Id}))
		assertCode(t, err, connect.CodePermissionDenied)
	})
}

func TestListGroups(t *testing.T) {
	ts := setupTestServer(t, "")
	ctx := context.Background()

	for _, name := range []string{"A", "B"} {
		if _, err := ts.group.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{Name: name})); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
	}

	resp, err := ts.group.ListGroups(ctx, connect.NewRequest(&api.ListGroupsRequest{}))
	if err != nil {
		t.Fatalf("ListGroups failed: %v", err)
	}
	if len(resp.Msg.Groups) != 2 {
		t.Errorf("expected 2 groups, got %d", len(resp.Msg.Groups))
	}

	other, err := ts.group.ListGroups(ctx, asUser("bob", &api.ListGroupsRequest{}))
	if err != nil {
		t.Fatalf("ListGroups failed: %v", err)
	}
	if len(other.Msg.Groups) != 0 {
		t.Errorf("expected bob to see no groups, got %d", len(other.Msg.Groups))
	}
}

func TestUpdateGroup(t *testing.T) {
	ts := setupTestServer(t, "")
	ctx := context.Background()

	created, err := ts.group.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{
		Name:    "Trip",
		Members: []*api.Participant{{Id: "bob", DisplayName: "Bob"}},
	}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	resp, err := ts.group.UpdateGroup(ctx, connect.NewRequest(&api.UpdateGroupRequest{
		GroupId: created.Msg.Group.Id,
		Name:    "Ski Trip",
		Members: []*api.Participant{
			{Id: "carol", DisplayName: "Carol"},
			{Id: "dan", DisplayName: "Dan"},
			{Id: "carol", DisplayName: "Carol"},
		},
	}))
	if err != nil {
		t.Fatalf("UpdateGroup failed: %v", err)
	}
	if resp.Msg.Group.Name != "Ski Trip" {
		t.Errorf("expected name 'Ski Trip', got %q", resp.Msg.Group.Name)
	}
	if len(resp.Msg.Group.Members) != 2 {
		t.Errorf("expected duplicate member dropped, got %+v", resp.Msg.Group.Members)
	}

	_, err = ts.group.UpdateGroup(ctx, connect.NewRequest(&api.UpdateGroupRequest{GroupId: "missing", Name: "x"}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestDeleteGroup(t *testing.T) {
	ts := setupTestServer(t, "")
	ctx := context.Background()

	created, err := ts.group.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{Name: "Temp"}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	id := created.Msg.Group.Id

	_, err = ts.group.DeleteGroup(ctx, asUser("bob", &api.DeleteGroupRequest{GroupId: id}))
	assertCode(t, err, connect.CodePermissionDenied)

	if _, err := ts.group.DeleteGroup(ctx, connect.NewRequest(&api.DeleteGroupRequest{GroupId: id})); err != nil {
		t.Fatalf("DeleteGroup failed: %v", err)
	}

	_, err = ts.group.GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{GroupId: id}))
	assertCode(t, err, connect.CodeNotFound)

	_, err = ts.group.DeleteGroup(ctx, connect.NewRequest(&api.DeleteGroupRequest{GroupId: id}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestFriends(t *testing.T) {
	ts := setupTestServer(t, "")
	ctx := context.Background()

	for _, f := range []*api.Participant{
		{Id: "carol", DisplayName: "Carol"},
		{Id: "bob", DisplayName: "Bob"},
	} {
		if _, err := ts.group.AddFriend(ctx, connect.NewRequest(&api.AddFriendRequest{Friend: f})); err != nil {
			t.Fatalf("AddFriend failed: %v", err)
		}
	}

	_, err := ts.group.AddFriend(ctx, connect.NewRequest(&api.AddFriendRequest{Friend: &api.Participant{Id: "alice", DisplayName: "Me"}}))
	assertCode(t, err, connect.CodeInvalidArgument)

	_, err = ts.group.AddFriend(ctx, connect.NewRequest(&api.AddFriendRequest{}))
	assertCode(t, err, connect.CodeInvalidArgument)

	resp, err := ts.group.ListFriends(ctx, connect.NewRequest(&api.ListFriendsRequest{}))
	if err != nil {
		t.Fatalf("ListFriends failed: %v", err)
	}
	if len(resp.Msg.Friends) != 2 || resp.Msg.Friends[0].DisplayName != "Bob" {
		t.Errorf("unexpected friends: %+v", resp.Msg.Friends)
	}

	if _, err := ts.group.RemoveFriend(ctx, connect.NewRequest(&api.RemoveFriendRequest{FriendId: "bob"})); err != nil {
		t.Fatalf("RemoveFriend failed: %v", err)
	}
	_, err = ts.group.RemoveFriend(ctx, connect.NewRequest(&api.RemoveFriendRequest{FriendId: "bob"}))
	assertCode(t, err, connect.CodeNotFound)
}
