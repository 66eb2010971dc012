package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/rlee603166/sharify/internal/calculator"
	"github.com/rlee603166/sharify/internal/ingestion"
	"github.com/rlee603166/sharify/internal/middleware"
	"github.com/rlee603166/sharify/internal/models"
	"github.com/rlee603166/sharify/internal/session"
	"github.com/rlee603166/sharify/internal/storage/sqlite"
	"github.com/rlee603166/sharify/pkg/api/apiconnect"
)

// testUserHeader selects which seeded user a request acts as.
const testUserHeader = "X-Test-User"

// testAuthInterceptor returns a Connect interceptor that sets a test user in
// the context. Requests act as "alice" unless testUserHeader says otherwise.
func testAuthInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			userID := req.Header().Get(testUserHeader)
			if userID == "" {
				userID = "alice"
			}
			ctx = context.WithValue(ctx, middleware.UserIDKey, userID)
			ctx = context.WithValue(ctx, middleware.NameKey, "User "+userID)
			return next(ctx, req)
		}
	}
}

// asUser returns a request that acts as userID.
func asUser[T any](userID string, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set(testUserHeader, userID)
	return req
}

type testServer struct {
	split apiconnect.SplitServiceClient
	group apiconnect.GroupServiceClient
	store *sqlite.SQLiteStore
}

// setupTestServer creates a test server backed by a temporary SQLite database
// with users "alice" and "bob". ocrURL enables ingestion when non-empty.
func setupTestServer(t *testing.T, ocrURL string) *testServer {
	t.Helper()

	// Create temp database
	tmpFile, err := os.CreateTemp("", "test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()
	t.Cleanup(func() { os.Remove(tmpFile.Name()) })

	store, err := sqlite.New(tmpFile.Name())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	for _, id := range []string{"alice", "bob"} {
		user := &models.User{ID: id, Email: id + "@example.com", DisplayName: "User " + id, PasswordHash: "x"}
		if err := store.CreateUser(context.Background(), user); err != nil {
			t.Fatalf("failed to seed user: %v", err)
		}
	}

	var transport ingestion.Transport
	if ocrURL != "" {
		transport = ingestion.NewClient(ocrURL, "test-key", 5*time.Second)
	}
	manager := session.NewManager(calculator.DefaultRates(), transport, nil,
		ingestion.WithInterval(5*time.Millisecond),
		ingestion.WithMaxAttempts(5),
	)
	t.Cleanup(manager.CloseAll)

	// Create services and handlers with test auth interceptor
	authInterceptor := connect.WithInterceptors(testAuthInterceptor())
	splitPath, splitHandler := apiconnect.NewSplitServiceHandler(NewSplitService(manager, store), authInterceptor)
	groupPath, groupHandler := apiconnect.NewGroupServiceHandler(NewGroupService(store), authInterceptor)

	mux := http.NewServeMux()
	mux.Handle(splitPath, splitHandler)
	mux.Handle(groupPath, groupHandler)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testServer{
		split: apiconnect.NewSplitServiceClient(http.DefaultClient, server.URL),
		group: apiconnect.NewGroupServiceClient(http.DefaultClient, server.URL),
		store: store,
	}
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %v, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Errorf("expected code %v, got %v (%v)", want, got, err)
	}
}
