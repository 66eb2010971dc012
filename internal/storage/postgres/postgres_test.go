package postgres

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"

	"github.com/rlee603166/sharify/internal/models"
	"github.com/rlee603166/sharify/internal/storage"
)

// newTestStore connects to SHARIFY_TEST_DATABASE_URL or skips.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	url := os.Getenv("SHARIFY_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("SHARIFY_TEST_DATABASE_URL not set")
	}
	store, err := New(context.Background(), url, 2)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_UsersFriendsGroups(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	email := "pg-" + uuid.New().String() + "@example.com"
	owner := models.NewUser(email, "Owner", "hash")
	if err := store.CreateUser(ctx, owner); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	t.Cleanup(func() {
		store.pool.Exec(context.Background(), "DELETE FROM users WHERE id = $1", owner.ID)
	})

	got, err := store.GetUserByEmail(ctx, email)
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if got.ID != owner.ID {
		t.Errorf("Expected ID %s, got %s", owner.ID, got.ID)
	}
	if _, err := store.GetUserByID(ctx, "missing-"+uuid.New().String()); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	friend := &models.Friend{OwnerID: owner.ID, Participant: models.Participant{ID: "f1", DisplayName: "Fay"}}
	if err := store.AddFriend(ctx, friend); err != nil {
		t.Fatalf("AddFriend failed: %v", err)
	}
	friends, err := store.ListFriends(ctx, owner.ID)
	if err != nil {
		t.Fatalf("ListFriends failed: %v", err)
	}
	if len(friends) != 1 || friends[0].DisplayName != "Fay" {
		t.Errorf("Unexpected friends: %+v", friends)
	}
	if err := store.RemoveFriend(ctx, owner.ID, "f1"); err != nil {
		t.Fatalf("RemoveFriend failed: %v", err)
	}

	group := &models.Group{
		OwnerID: owner.ID,
		Name:    "Lunch",
		Members: []models.Participant{{ID: "b", DisplayName: "B"}, {ID: "a", DisplayName: "A"}},
	}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	loaded, err := store.GetGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if len(loaded.Members) != 2 || loaded.Members[0].ID != "b" {
		t.Errorf("Unexpected members: %+v", loaded.Members)
	}
	if err := store.DeleteGroup(ctx, group.ID); err != nil {
		t.Fatalf("DeleteGroup failed: %v", err)
	}
	if _, err := store.GetGroup(ctx, group.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
