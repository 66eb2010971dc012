package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rlee603166/sharify/internal/models"
	"github.com/rlee603166/sharify/internal/storage"
)

// AddFriend saves a friend, updating the display name if already saved.
func (s *SQLiteStore) AddFriend(ctx context.Context, friend *models.Friend) error {
	if friend.CreatedAt == 0 {
		friend.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO friends (owner_id, friend_id, display_name, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (owner_id, friend_id) DO UPDATE SET display_name = excluded.display_name`,
		friend.OwnerID, friend.ID, friend.DisplayName, friend.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert friend: %w", err)
	}
	return nil
}

// ListFriends retrieves the owner's friends ordered by display name.
func (s *SQLiteStore) ListFriends(ctx context.Context, ownerID string) ([]models.Friend, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT friend_id, display_name, created_at FROM friends
		 WHERE owner_id = ? ORDER BY display_name, friend_id`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	defer rows.Close()

	var friends []models.Friend
	for rows.Next() {
		f := models.Friend{OwnerID: ownerID}
		if err := rows.Scan(&f.ID, &f.DisplayName, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan friend: %w", err)
		}
		friends = append(friends, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate friends: %w", err)
	}
	return friends, nil
}

// RemoveFriend deletes a saved friend.
func (s *SQLiteStore) RemoveFriend(ctx context.Context, ownerID, friendID string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM friends WHERE owner_id = ? AND friend_id = ?",
		ownerID, friendID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete friend: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("friend %s: %w", friendID, storage.ErrNotFound)
	}
	return nil
}
