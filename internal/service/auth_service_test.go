package service

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/rlee603166/sharify/internal/auth"
	"github.com/rlee603166/sharify/internal/middleware"
	"github.com/rlee603166/sharify/internal/storage/sqlite"
	"github.com/rlee603166/sharify/pkg/api"
	"github.com/rlee603166/sharify/pkg/api/apiconnect"
)

func setupAuthServer(t *testing.T) apiconnect.AuthServiceClient {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "auth.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	svc := NewAuthService(auth.NewPasswordAuthenticator(store), store, jwtManager, slog.New(slog.NewTextHandler(os.Stderr, nil)))

	path, handler := apiconnect.NewAuthServiceHandler(svc,
		connect.WithInterceptors(middleware.OptionalAuth(jwtManager)),
	)
	mux := http.NewServeMux()
	mux.Handle(path, handler)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL)
}

func TestAuthService_RegisterLoginCurrentUser(t *testing.T) {
	client := setupAuthServer(t)
	ctx := context.Background()

	reg, err := client.Register(ctx, connect.NewRequest(&api.RegisterRequest{
		Email:       "alice@example.com",
		DisplayName: "Alice",
		Password:    "correct-horse",
	}))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if reg.Msg.Token == "" || reg.Msg.User.Id == "" {
		t.Fatalf("expected token and user, got %+v", reg.Msg)
	}

	login, err := client.Login(ctx, connect.NewRequest(&api.LoginRequest{
		Email:    "alice@example.com",
		Password: "correct-horse",
	}))
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if login.Msg.User.Id != reg.Msg.User.Id {
		t.Errorf("expected same user, got %s and %s", reg.Msg.User.Id, login.Msg.User.Id)
	}

	req := connect.NewRequest(&api.GetCurrentUserRequest{})
	req.Header().Set("Authorization", "Bearer "+login.Msg.Token)
	me, err := client.GetCurrentUser(ctx, req)
	if err != nil {
		t.Fatalf("GetCurrentUser failed: %v", err)
	}
	if me.Msg.User.DisplayName != "Alice" || me.Msg.User.Email != "alice@example.com" {
		t.Errorf("unexpected user: %+v", me.Msg.User)
	}
}

func TestAuthService_Errors(t *testing.T) {
	client := setupAuthServer(t)
	ctx := context.Background()

	if _, err := client.Register(ctx, connect.NewRequest(&api.RegisterRequest{
		Email:       "bob@example.com",
		DisplayName: "Bob",
		Password:    "password123",
	})); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	tests := []struct {
		name string
		call func() error
		want connect.Code
	}{
		{
			name: "duplicate email",
			call: func() error {
				_, err := client.Register(ctx, connect.NewRequest(&api.RegisterRequest{
					Email: "bob@example.com", DisplayName: "Bob", Password: "password123",
				}))
				return err
			},
			want: connect.CodeAlreadyExists,
		},
		{
			name: "weak password",
			call: func() error {
				_, err := client.Register(ctx, connect.NewRequest(&api.RegisterRequest{
					Email: "carol@example.com", DisplayName: "Carol", Password: "short",
				}))
				return err
			},
			want: connect.CodeInvalidArgument,
		},
		{
			name: "missing display name",
			call: func() error {
				_, err := client.Register(ctx, connect.NewRequest(&api.RegisterRequest{
					Email: "dan@example.com", Password: "password123",
				}))
				return err
			},
			want: connect.CodeInvalidArgument,
		},
		{
			name: "wrong password",
			call: func() error {
				_, err := client.Login(ctx, connect.NewRequest(&api.LoginRequest{
					Email: "bob@example.com", Password: "wrong-password",
				}))
				return err
			},
			want: connect.CodeUnauthenticated,
		},
		{
			name: "unknown user",
			call: func() error {
				_, err := client.Login(ctx, connect.NewRequest(&api.LoginRequest{
					Email: "nobody@example.com", Password: "password123",
				}))
				return err
			},
			want: connect.CodeUnauthenticated,
		},
		{
			name: "current user without token",
			call: func() error {
				_, err := client.GetCurrentUser(ctx, connect.NewRequest(&api.GetCurrentUserRequest{}))
				return err
			},
			want: connect.CodeUnauthenticated,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertCode(t, tt.call(), tt.want)
		})
	}
}
