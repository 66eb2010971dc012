// Package postgres provides a PostgreSQL-backed implementation of the
// storage.Store interface using a pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rlee603166/sharify/internal/models"
	"github.com/rlee603166/sharify/internal/storage"
)

var _ storage.Store = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at BIGINT NOT NULL,
    updated_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS friends (
    owner_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    friend_id TEXT NOT NULL,
    display_name TEXT NOT NULL,
    created_at BIGINT NOT NULL,
    PRIMARY KEY (owner_id, friend_id)
);

CREATE TABLE IF NOT EXISTS saved_groups (
    id TEXT PRIMARY KEY,
    owner_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS group_members (
    group_id TEXT NOT NULL REFERENCES saved_groups(id) ON DELETE CASCADE,
    participant_id TEXT NOT NULL,
    display_name TEXT NOT NULL,
    position INTEGER NOT NULL,
    PRIMARY KEY (group_id, participant_id)
);

CREATE INDEX IF NOT EXISTS idx_friends_owner_id ON friends(owner_id);
CREATE INDEX IF NOT EXISTS idx_saved_groups_owner_id ON saved_groups(owner_id);
`

// Store implements storage.Store on PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to the database at connStr and runs migrations.
func New(ctx context.Context, connStr string, maxConns int) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres config: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = int32(maxConns)
	}
	cfg.HealthCheckPeriod = 15 * time.Second
	cfg.ConnConfig.ConnectTimeout = 5 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, email, display_name, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Email, user.DisplayName, user.PasswordHash, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, "email", email)
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.getUser(ctx, "id", id)
}

func (s *Store) getUser(ctx context.Context, column, value string) (*models.User, error) {
	user := &models.User{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, email, display_name, password_hash, created_at, updated_at
		 FROM users WHERE `+column+` = $1`,
		value,
	).Scan(&user.ID, &user.Email, &user.DisplayName, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", value, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by %s: %w", column, err)
	}
	return user, nil
}

func (s *Store) AddFriend(ctx context.Context, friend *models.Friend) error {
	if friend.CreatedAt == 0 {
		friend.CreatedAt = time.Now().Unix()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO friends (owner_id, friend_id, display_name, created_at) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (owner_id, friend_id) DO UPDATE SET display_name = EXCLUDED.display_name`,
		friend.OwnerID, friend.ID, friend.DisplayName, friend.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert friend: %w", err)
	}
	return nil
}

func (s *Store) ListFriends(ctx context.Context, ownerID string) ([]models.Friend, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT friend_id, display_name, created_at FROM friends
		 WHERE owner_id = $1 ORDER BY display_name, friend_id`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	friends, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Friend, error) {
		f := models.Friend{OwnerID: ownerID}
		err := row.Scan(&f.ID, &f.DisplayName, &f.CreatedAt)
		return f, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan friends: %w", err)
	}
	return friends, nil
}

func (s *Store) RemoveFriend(ctx context.Context, ownerID, friendID string) error {
	tag, err := s.pool.Exec(ctx,
		"DELETE FROM friends WHERE owner_id = $1 AND friend_id = $2",
		ownerID, friendID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete friend: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("friend %s: %w", friendID, storage.ErrNotFound)
	}
	return nil
}

func (s *Store) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			"INSERT INTO saved_groups (id, owner_id, name, created_at) VALUES ($1, $2, $3, $4)",
			group.ID, group.OwnerID, group.Name, group.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group: %w", err)
		}
		return insertMembers(ctx, tx, group)
	})
}

func (s *Store) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group := &models.Group{}
	err := s.pool.QueryRow(ctx,
		"SELECT id, owner_id, name, created_at FROM saved_groups WHERE id = $1",
		groupID,
	).Scan(&group.ID, &group.OwnerID, &group.Name, &group.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	group.Members, err = s.getMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return group, nil
}

func (s *Store) ListGroups(ctx context.Context, ownerID string) ([]models.Group, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT id, owner_id, name, created_at FROM saved_groups WHERE owner_id = $1 ORDER BY created_at DESC, name",
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	groups, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Group, error) {
		var g models.Group
		err := row.Scan(&g.ID, &g.OwnerID, &g.Name, &g.CreatedAt)
		return g, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan groups: %w", err)
	}

	for i := range groups {
		groups[i].Members, err = s.getMembers(ctx, groups[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return groups, nil
}

func (s *Store) UpdateGroup(ctx context.Context, group *models.Group) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, "UPDATE saved_groups SET name = $1 WHERE id = $2", group.Name, group.ID)
		if err != nil {
			return fmt.Errorf("failed to update group: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("group %s: %w", group.ID, storage.ErrNotFound)
		}
		if _, err := tx.Exec(ctx, "DELETE FROM group_members WHERE group_id = $1", group.ID); err != nil {
			return fmt.Errorf("failed to clear group members: %w", err)
		}
		return insertMembers(ctx, tx, group)
	})
}

func (s *Store) DeleteGroup(ctx context.Context, groupID string) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM saved_groups WHERE id = $1", groupID)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	return nil
}

// insertMembers queues every member insert in a single batch round trip.
func insertMembers(ctx context.Context, tx pgx.Tx, group *models.Group) error {
	batch := &pgx.Batch{}
	seen := make(map[string]bool, len(group.Members))
	for _, m := range group.Members {
		if seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		batch.Queue(
			"INSERT INTO group_members (group_id, participant_id, display_name, position) VALUES ($1, $2, $3, $4)",
			group.ID, m.ID, m.DisplayName, len(seen)-1,
		)
	}
	if batch.Len() == 0 {
		return nil
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert group members: %w", err)
	}
	return nil
}

func (s *Store) getMembers(ctx context.Context, groupID string) ([]models.Participant, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT participant_id, display_name FROM group_members WHERE group_id = $1 ORDER BY position",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get group members: %w", err)
	}
	members, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Participant, error) {
		var p models.Participant
		err := row.Scan(&p.ID, &p.DisplayName)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan group members: %w", err)
	}
	return members, nil
}
