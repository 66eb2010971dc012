// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/rlee603166/sharify/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the persistence operations for users and their saved
// selection sources (friends and named groups).
// This abstraction allows swapping storage backends (SQLite, PostgreSQL)
// without changing the service layer.
type Store interface {
	// CreateUser persists a new user. user.ID must be set.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail returns ErrNotFound if no user has that email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID returns ErrNotFound if the user does not exist.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// AddFriend saves a friend for friend.OwnerID. Adding the same friend
	// twice updates the display name.
	AddFriend(ctx context.Context, friend *models.Friend) error

	// ListFriends returns the owner's friends ordered by display name.
	ListFriends(ctx context.Context, ownerID string) ([]models.Friend, error)

	// RemoveFriend returns ErrNotFound if the friend was not saved.
	RemoveFriend(ctx context.Context, ownerID, friendID string) error

	// CreateGroup persists a new group. The group.ID and CreatedAt fields
	// are populated by the store when empty.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup returns the group with members in saved order.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroups returns the owner's groups, newest first.
	ListGroups(ctx context.Context, ownerID string) ([]models.Group, error)

	// UpdateGroup replaces the name and member list of an existing group.
	UpdateGroup(ctx context.Context, group *models.Group) error

	// DeleteGroup returns ErrNotFound if the group does not exist.
	DeleteGroup(ctx context.Context, groupID string) error

	// Close releases any resources held by the store.
	Close() error
}
