package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/rlee603166/sharify/pkg/api"
)

func createSession(t *testing.T, ts *testServer) string {
	t.Helper()
	resp, err := ts.split.CreateSession(context.Background(), connect.NewRequest(&api.CreateSessionRequest{}))
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	return resp.Msg.SessionId
}

func addItem(t *testing.T, ts *testServer, sessionID, name, price string) *api.LineItem {
	t.Helper()
	resp, err := ts.split.AddItem(context.Background(), connect.NewRequest(&api.AddItemRequest{
		SessionId: sessionID,
		Name:      name,
		Price:     price,
	}))
	if err != nil {
		t.Fatalf("AddItem(%s, %s) failed: %v", name, price, err)
	}
	return resp.Msg.Item
}

func toggle(t *testing.T, ts *testServer, sessionID, itemID, participantID string) []string {
	t.Helper()
	resp, err := ts.split.ToggleAssignment(context.Background(), connect.NewRequest(&api.ToggleAssignmentRequest{
		SessionId:     sessionID,
		ItemId:        itemID,
		ParticipantId: participantID,
	}))
	if err != nil {
		t.Fatalf("ToggleAssignment failed: %v", err)
	}
	return resp.Msg.AssignedTo
}

func TestCreateSession(t *testing.T) {
	ts := setupTestServer(t, "")

	resp, err := ts.split.CreateSession(context.Background(), connect.NewRequest(&api.CreateSessionRequest{}))
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if resp.Msg.SessionId == "" {
		t.Error("expected session ID")
	}
	if len(resp.Msg.Party) != 1 || resp.Msg.Party[0].Id != "alice" {
		t.Errorf("expected party of just the caller, got %+v", resp.Msg.Party)
	}
}

func TestSplitFlow(t *testing.T) {
	ts := setupTestServer(t, "")
	ctx := context.Background()
	sessionID := createSession(t, ts)

	if _, err := ts.group.AddFriend(ctx, connect.NewRequest(&api.AddFriendRequest{
		Friend: &api.Participant{Id: "bob", DisplayName: "Bob"},
	})); err != nil {
		t.Fatalf("AddFriend failed: %v", err)
	}
	grp, err := ts.group.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{
		Name:    "Office",
		Members: []*api.Participant{{Id: "carol", DisplayName: "Carol"}, {Id: "bob", DisplayName: "Bob"}},
	}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	resolved, err := ts.split.ResolveGroup(ctx, connect.NewRequest(&api.ResolveGroupRequest{
		SessionId: sessionID,
		Contacts:  []*api.Candidate{{Id: "dave", Name: "Dave", Selected: true}},
		Friends:   []*api.FriendSelection{{FriendId: "bob", Selected: true}},
		Groups:    []*api.GroupSelection{{GroupId: grp.Msg.Group.Id, Selected: true}},
	}))
	if err != nil {
		t.Fatalf("ResolveGroup failed: %v", err)
	}
	wantParty := []string{"alice", "dave", "bob", "carol"}
	if len(resolved.Msg.Party) != len(wantParty) {
		t.Fatalf("expected party %v, got %+v", wantParty, resolved.Msg.Party)
	}
	for i, id := range wantParty {
		if resolved.Msg.Party[i].Id != id {
			t.Errorf("party[%d]: expected %s, got %s", i, id, resolved.Msg.Party[i].Id)
		}
	}

	pizza := addItem(t, ts, sessionID, "Pizza", "$10.00")
	wine := addItem(t, ts, sessionID, "Wine", "30")
	addItem(t, ts, sessionID, "Shared Bread", "5.5")

	if pizza.PriceCents != 1000 || wine.PriceCents != 3000 {
		t.Fatalf("unexpected prices: pizza=%d wine=%d", pizza.PriceCents, wine.PriceCents)
	}

	for _, id := range []string{"alice", "bob", "carol"} {
		toggle(t, ts, sessionID, pizza.Id, id)
	}
	assigned := toggle(t, ts, sessionID, wine.Id, "bob")
	if len(assigned) != 1 || assigned[0] != "bob" {
		t.Errorf("expected wine assigned to bob, got %v", assigned)
	}

	resp, err := ts.split.ComputeSplit(ctx, connect.NewRequest(&api.ComputeSplitRequest{SessionId: sessionID}))
	if err != nil {
		t.Fatalf("ComputeSplit failed: %v", err)
	}

	want := map[string]struct{ subtotal, total int64 }{
		"alice": {334, 421},
		"dave":  {0, 0},
		"bob":   {3333, 4200},
		"carol": {333, 420},
	}
	var assignedSum int64
	for _, share := range resp.Msg.PerPerson {
		w, ok := want[share.Participant.Id]
		if !ok {
			t.Errorf("unexpected participant %s", share.Participant.Id)
			continue
		}
		if share.SubtotalCents != w.subtotal || share.TotalCents != w.total {
			t.Errorf("%s: expected subtotal=%d total=%d, got subtotal=%d total=%d",
				share.Participant.Id, w.subtotal, w.total, share.SubtotalCents, share.TotalCents)
		}
		assignedSum += share.SubtotalCents
	}
	if assignedSum != 4000 {
		t.Errorf("expected per-person subtotals to sum to 4000, got %d", assignedSum)
	}

	totals := resp.Msg.Totals
	if totals.SubtotalCents != 4550 || totals.AssignedSubtotalCents != 4000 {
		t.Errorf("unexpected subtotals: %+v", totals)
	}
	if totals.TaxCents != 364 || totals.TipCents != 819 || totals.TotalCents != 5733 {
		t.Errorf("unexpected totals: %+v", totals)
	}

	owed := map[string]int64{}
	for _, e := range resp.Msg.Settlements {
		if e.To != "alice" {
			t.Errorf("expected debts to alice, got %+v", e)
		}
		owed[e.From] = e.AmountCents
	}
	if len(owed) != 2 || owed["bob"] != 4200 || owed["carol"] != 420 {
		t.Errorf("unexpected settlements: %v", owed)
	}
}

func TestResolveGroup_DeselectPrunesAssignments(t *testing.T) {
	ts := setupTestServer(t, "")
	ctx := context.Background()
	sessionID := createSession(t, ts)

	contacts := []*api.Candidate{
		{Id: "bob", Name: "Bob", Selected: true},
		{Id: "carol", Name: "Carol", Selected: true},
	}
	if _, err := ts.split.ResolveGroup(ctx, connect.NewRequest(&api.ResolveGroupRequest{
		SessionId: sessionID,
		Contacts:  contacts,
	})); err != nil {
		t.Fatalf("ResolveGroup failed: %v", err)
	}

	item := addItem(t, ts, sessionID, "Nachos", "12")
	toggle(t, ts, sessionID, item.Id, "bob")
	toggle(t, ts, sessionID, item.Id, "carol")

	contacts[1].Selected = false
	resp, err := ts.split.ResolveGroup(ctx, connect.NewRequest(&api.ResolveGroupRequest{
		SessionId:  sessionID,
		Contacts:   contacts,
		Deselected: []string{"carol"},
	}))
	if err != nil {
		t.Fatalf("ResolveGroup failed: %v", err)
	}
	if len(resp.Msg.Party) != 2 {
		t.Errorf("expected alice and bob, got %+v", resp.Msg.Party)
	}
	if got := resp.Msg.Items[0].AssignedTo; len(got) != 1 || got[0] != "bob" {
		t.Errorf("expected carol pruned from assignment, got %v", got)
	}
}

func TestResolveGroup_UnknownSources(t *testing.T) {
	ts := setupTestServer(t, "")
	ctx := context.Background()
	sessionID := createSession(t, ts)

	_, err := ts.split.ResolveGroup(ctx, connect.NewRequest(&api.ResolveGroupRequest{
		SessionId: sessionID,
		Friends:   []*api.FriendSelection{{FriendId: "stranger", Selected: true}},
	}))
	assertCode(t, err, connect.CodeNotFound)

	_, err = ts.split.ResolveGroup(ctx, connect.NewRequest(&api.ResolveGroupRequest{
		SessionId: sessionID,
		Groups:    []*api.GroupSelection{{GroupId: "missing", Selected: true}},
	}))
	assertCode(t, err, connect.CodeNotFound)

	// Deselecting something that no longer exists is not an error.
	resp, err := ts.split.ResolveGroup(ctx, connect.NewRequest(&api.ResolveGroupRequest{
		SessionId: sessionID,
		Friends:   []*api.FriendSelection{{FriendId: "stranger", Selected: false}},
		Groups:    []*api.GroupSelection{{GroupId: "missing", Selected: false}},
	}))
	if err != nil {
		t.Fatalf("ResolveGroup failed: %v", err)
	}
	if len(resp.Msg.Party) != 1 {
		t.Errorf("expected only the caller, got %+v", resp.Msg.Party)
	}

	bobGroup, err := ts.group.CreateGroup(ctx, asUser("bob", &api.CreateGroupRequest{Name: "Bob's"}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	_, err = ts.split.ResolveGroup(ctx, connect.NewRequest(&api.ResolveGroupRequest{
		SessionId: sessionID,
		Groups:    []*api.GroupSelection{{GroupId: bobGroup.Msg.Group.Id, Selected: true}},
	}))
	assertCode(t, err, connect.CodePermissionDenied)
}

func TestToggleAssignment_Errors(t *testing.T) {
	ts := setupTestServer(t, "")
	ctx := context.Background()
	sessionID := createSession(t, ts)
	item := addItem(t, ts, sessionID, "Soup", "8")

	tests := []struct {
		name          string
		itemID        string
		participantID string
		want          connect.Code
	}{
		{name: "participant outside party", itemID: item.Id, participantID: "zed", want: connect.CodeInvalidArgument},
		{name: "unknown item", itemID: "nope", participantID: "alice", want: connect.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ts.split.ToggleAssignment(ctx, connect.NewRequest(&api.ToggleAssignmentRequest{
				SessionId:     sessionID,
				ItemId:        tt.itemID,
				ParticipantId: tt.participantID,
			}))
			assertCode(t, err, tt.want)
		})
	}

	// Toggling twice restores the original assignment.
	toggle(t, ts, sessionID, item.Id, "alice")
	if got := toggle(t, ts, sessionID, item.Id, "alice"); len(got) != 0 {
		t.Errorf("expected no assignees after double toggle, got %v", got)
	}
}

func TestItemEditing(t *testing.T) {
	ts := setupTestServer(t, "")
	ctx := context.Background()
	sessionID := createSession(t, ts)

	_, err := ts.split.AddItem(ctx, connect.NewRequest(&api.AddItemRequest{SessionId: sessionID, Name: "Bad", Price: "abc"}))
	assertCode(t, err, connect.CodeInvalidArgument)

	item := addItem(t, ts, sessionID, "Salad", "1,299")
	if item.PriceCents != 129900 {
		t.Errorf("expected 129900 cents, got %d", item.PriceCents)
	}

	updated, err := ts.split.UpdateItem(ctx, connect.NewRequest(&api.UpdateItemRequest{
		SessionId: sessionID,
		ItemId:    item.Id,
		Name:      "Caesar Salad",
		Price:     "12.99",
	}))
	if err != nil {
		t.Fatalf("UpdateItem failed: %v", err)
	}
	if updated.Msg.Item.Name != "Caesar Salad" || updated.Msg.Item.PriceCents != 1299 {
		t.Errorf("unexpected item: %+v", updated.Msg.Item)
	}

	_, err = ts.split.UpdateItem(ctx, connect.NewRequest(&api.UpdateItemRequest{
		SessionId: sessionID,
		ItemId:    item.Id,
		Price:     "12.9x",
	}))
	assertCode(t, err, connect.CodeInvalidArgument)

	sess, err := ts.split.GetSession(ctx, connect.NewRequest(&api.GetSessionRequest{SessionId: sessionID}))
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got := sess.Msg.Items[0].PriceCents; got != 1299 {
		t.Errorf("expected last valid price 1299, got %d", got)
	}

	if _, err := ts.split.RemoveItem(ctx, connect.NewRequest(&api.RemoveItemRequest{SessionId: sessionID, ItemId: item.Id})); err != nil {
		t.Fatalf("RemoveItem failed: %v", err)
	}
	_, err = ts.split.RemoveItem(ctx, connect.NewRequest(&api.RemoveItemRequest{SessionId: sessionID, ItemId: item.Id}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestSessionAccess(t *testing.T) {
	ts := setupTestServer(t, "")
	ctx := context.Background()
	sessionID := createSession(t, ts)

	_, err := ts.split.GetSession(ctx, asUser("bob", &api.GetSessionRequest{SessionId: sessionID}))
	assertCode(t, err, connect.CodePermissionDenied)

	_, err = ts.split.GetSession(ctx, connect.NewRequest(&api.GetSessionRequest{SessionId: "missing"}))
	assertCode(t, err, connect.CodeNotFound)

	_, err = ts.split.GetSession(ctx, connect.NewRequest(&api.GetSessionRequest{}))
	assertCode(t, err, connect.CodeInvalidArgument)

	if _, err := ts.split.CloseSession(ctx, connect.NewRequest(&api.CloseSessionRequest{SessionId: sessionID})); err != nil {
		t.Fatalf("CloseSession failed: %v", err)
	}
	_, err = ts.split.GetSession(ctx, connect.NewRequest(&api.GetSessionRequest{SessionId: sessionID}))
	assertCode(t, err, connect.CodeNotFound)
}

// newFakeOCR serves one receipt that completes after pendingPolls pending
// responses.
func newFakeOCR(t *testing.T, pendingPolls int32) *httptest.Server {
	t.Helper()
	var polls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /receipts", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"receipt_id": "rcpt-42"})
	})
	mux.HandleFunc("GET /receipts/rcpt-42", func(w http.ResponseWriter, r *http.Request) {
		if polls.Add(1) <= pendingPolls {
			json.NewEncoder(w).Encode(map[string]any{"status": "pending"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"status": "completed",
			"processed_data": map[string]any{
				"items": []map[string]any{
					{"id": 1, "name": "Burger", "price": 14.5},
					{"id": 2, "name": "Fries", "price": "4.25"},
				},
			},
		})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func waitForIngestion(t *testing.T, ts *testServer, sessionID string) *api.GetIngestionResponse {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := ts.split.GetIngestion(context.Background(), connect.NewRequest(&api.GetIngestionRequest{SessionId: sessionID}))
		if err != nil {
			t.Fatalf("GetIngestion failed: %v", err)
		}
		switch resp.Msg.Ingestion.State {
		case "completed", "failed", "timed_out":
			return resp.Msg
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("ingestion did not finish")
	return nil
}

func TestIngestion(t *testing.T) {
	ocr := newFakeOCR(t, 2)
	ts := setupTestServer(t, ocr.URL)
	ctx := context.Background()
	sessionID := createSession(t, ts)

	idle, err := ts.split.GetIngestion(ctx, connect.NewRequest(&api.GetIngestionRequest{SessionId: sessionID}))
	if err != nil {
		t.Fatalf("GetIngestion failed: %v", err)
	}
	if idle.Msg.Ingestion.State != "idle" {
		t.Errorf("expected idle before upload, got %q", idle.Msg.Ingestion.State)
	}

	// A manually entered item is replaced by the scanned receipt.
	manual := addItem(t, ts, sessionID, "Manual", "1")
	toggle(t, ts, sessionID, manual.Id, "alice")

	_, err = ts.split.StartIngestion(ctx, connect.NewRequest(&api.StartIngestionRequest{SessionId: sessionID}))
	assertCode(t, err, connect.CodeInvalidArgument)

	if _, err := ts.split.StartIngestion(ctx, connect.NewRequest(&api.StartIngestionRequest{
		SessionId: sessionID,
		Filename:  "receipt.jpg",
		Image:     []byte("jpeg bytes"),
	})); err != nil {
		t.Fatalf("StartIngestion failed: %v", err)
	}

	result := waitForIngestion(t, ts, sessionID)
	if result.Ingestion.State != "completed" {
		t.Fatalf("expected completed, got %+v", result.Ingestion)
	}
	if result.Ingestion.ReceiptId != "rcpt-42" || result.Ingestion.Attempts != 3 {
		t.Errorf("unexpected status: %+v", result.Ingestion)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 scanned items, got %+v", result.Items)
	}
	if result.Items[0].Name != "Burger" || result.Items[0].PriceCents != 1450 || result.Items[1].PriceCents != 425 {
		t.Errorf("unexpected items: %+v %+v", result.Items[0], result.Items[1])
	}
	for _, item := range result.Items {
		if len(item.AssignedTo) != 0 {
			t.Errorf("expected scanned items unassigned, got %v", item.AssignedTo)
		}
	}
}

func TestIngestion_Disabled(t *testing.T) {
	ts := setupTestServer(t, "")
	sessionID := createSession(t, ts)

	_, err := ts.split.StartIngestion(context.Background(), connect.NewRequest(&api.StartIngestionRequest{
		SessionId: sessionID,
		Image:     []byte("x"),
	}))
	assertCode(t, err, connect.CodeFailedPrecondition)
}
