package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/rlee603166/sharify/internal/calculator"
	"github.com/rlee603166/sharify/internal/group"
	"github.com/rlee603166/sharify/internal/ingestion"
	"github.com/rlee603166/sharify/internal/middleware"
	"github.com/rlee603166/sharify/internal/models"
	"github.com/rlee603166/sharify/internal/session"
	"github.com/rlee603166/sharify/internal/storage"
	"github.com/rlee603166/sharify/pkg/api"
	"github.com/rlee603166/sharify/pkg/api/apiconnect"
)

var _ apiconnect.SplitServiceHandler = (*SplitService)(nil)

// SplitService implements the Connect SplitService on top of in-memory
// split sessions.
type SplitService struct {
	sessions *session.Manager
	store    storage.Store
}

// NewSplitService creates a SplitService. The store supplies saved friends
// and groups for party selection.
func NewSplitService(sessions *session.Manager, store storage.Store) *SplitService {
	return &SplitService{sessions: sessions, store: store}
}

// CreateSession starts a split with the caller as the only participant.
func (s *SplitService) CreateSession(ctx context.Context, req *connect.Request[api.CreateSessionRequest]) (*connect.Response[api.CreateSessionResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	user := models.Participant{ID: userID, DisplayName: middleware.GetName(ctx)}
	if user.DisplayName == "" {
		if u, err := s.store.GetUserByID(ctx, userID); err == nil {
			user.DisplayName = u.DisplayName
		} else {
			user.DisplayName = middleware.GetEmail(ctx)
		}
	}

	sess := s.sessions.Create(user)

	return connect.NewResponse(&api.CreateSessionResponse{
		SessionId: sess.ID,
		Party:     participantsToAPI(sess.Party()),
	}), nil
}

// GetSession returns the session's party and items.
func (s *SplitService) GetSession(ctx context.Context, req *connect.Request[api.GetSessionRequest]) (*connect.Response[api.GetSessionResponse], error) {
	sess, err := s.session(ctx, req.Msg.SessionId)
	if err != nil {
		return nil, err
	}

	receipt := sess.Receipt()
	return connect.NewResponse(&api.GetSessionResponse{
		SessionId: sess.ID,
		Party:     participantsToAPI(sess.Party()),
		Items:     itemsToAPI(receipt.Items),
	}), nil
}

// CloseSession discards a session and cancels its ingestion job.
func (s *SplitService) CloseSession(ctx context.Context, req *connect.Request[api.CloseSessionRequest]) (*connect.Response[api.CloseSessionResponse], error) {
	if _, err := s.session(ctx, req.Msg.SessionId); err != nil {
		return nil, err
	}
	if err := s.sessions.Close(req.Msg.SessionId); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.CloseSessionResponse{}), nil
}

// ResolveGroup sets the party from contacts, saved friends and saved groups.
// Assignments to participants no longer in the party are dropped.
func (s *SplitService) ResolveGroup(ctx context.Context, req *connect.Request[api.ResolveGroupRequest]) (*connect.Response[api.ResolveGroupResponse], error) {
	sess, err := s.session(ctx, req.Msg.SessionId)
	if err != nil {
		return nil, err
	}

	slog.Info("ResolveGroup request received",
		"session_id", sess.ID,
		"contacts", len(req.Msg.Contacts),
		"friends", len(req.Msg.Friends),
		"groups", len(req.Msg.Groups),
	)

	sel, err := s.selection(ctx, sess.User.ID, req.Msg)
	if err != nil {
		slog.Error("ResolveGroup failed", "session_id", sess.ID, "error", err)
		return nil, toConnectError(err)
	}

	party := sess.ResolveGroup(sel)
	receipt := sess.Receipt()

	slog.Info("Party resolved", "session_id", sess.ID, "size", len(party))

	return connect.NewResponse(&api.ResolveGroupResponse{
		Party: participantsToAPI(party),
		Items: itemsToAPI(receipt.Items),
	}), nil
}

// selection expands request references into a group.Selection.
func (s *SplitService) selection(ctx context.Context, userID string, msg *api.ResolveGroupRequest) (group.Selection, error) {
	sel := group.Selection{Deselected: msg.Deselected}

	for _, c := range msg.Contacts {
		if c == nil || c.Id == "" {
			continue
		}
		sel.Contacts = append(sel.Contacts, models.Candidate{ID: c.Id, Name: c.Name, Selected: c.Selected})
	}

	if len(msg.Friends) > 0 {
		friends, err := s.store.ListFriends(ctx, userID)
		if err != nil {
			return group.Selection{}, err
		}
		byID := make(map[string]models.Friend, len(friends))
		for _, f := range friends {
			byID[f.ID] = f
		}
		for _, fs := range msg.Friends {
			if fs == nil {
				continue
			}
			f, ok := byID[fs.FriendId]
			if !ok {
				// A friend removed since the last selection can still be deselected.
				if !fs.Selected {
					continue
				}
				return group.Selection{}, fmt.Errorf("friend %s: %w", fs.FriendId, storage.ErrNotFound)
			}
			sel.Friends = append(sel.Friends, models.Candidate{ID: f.ID, Name: f.DisplayName, Selected: fs.Selected})
		}
	}

	for _, gs := range msg.Groups {
		if gs == nil {
			continue
		}
		g, err := ownedGroup(ctx, s.store, userID, gs.GroupId)
		if errors.Is(err, storage.ErrNotFound) && !gs.Selected {
			continue
		}
		if err != nil {
			return group.Selection{}, err
		}
		sel.Groups = append(sel.Groups, models.GroupCandidate{
			ID:       g.ID,
			Name:     g.Name,
			Selected: gs.Selected,
			Members:  g.Members,
		})
	}

	return sel, nil
}

// AddItem adds a line item from a name and free-form price.
func (s *SplitService) AddItem(ctx context.Context, req *connect.Request[api.AddItemRequest]) (*connect.Response[api.AddItemResponse], error) {
	sess, err := s.session(ctx, req.Msg.SessionId)
	if err != nil {
		return nil, err
	}

	item, err := sess.AddItem(req.Msg.Name, req.Msg.Price)
	if err != nil {
		slog.Warn("AddItem rejected", "session_id", sess.ID, "price", req.Msg.Price, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.AddItemResponse{Item: itemToAPI(item)}), nil
}

// UpdateItem edits an item's name and price. An invalid price is rejected and
// the item keeps its last valid price.
func (s *SplitService) UpdateItem(ctx context.Context, req *connect.Request[api.UpdateItemRequest]) (*connect.Response[api.UpdateItemResponse], error) {
	sess, err := s.session(ctx, req.Msg.SessionId)
	if err != nil {
		return nil, err
	}

	item, err := sess.UpdateItem(req.Msg.ItemId, req.Msg.Name, req.Msg.Price)
	if err != nil {
		slog.Warn("UpdateItem rejected", "session_id", sess.ID, "item_id", req.Msg.ItemId, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.UpdateItemResponse{Item: itemToAPI(item)}), nil
}

func (s *SplitService) RemoveItem(ctx context.Context, req *connect.Request[api.RemoveItemRequest]) (*connect.Response[api.RemoveItemResponse], error) {
	sess, err := s.session(ctx, req.Msg.SessionId)
	if err != nil {
		return nil, err
	}

	if err := sess.RemoveItem(req.Msg.ItemId); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.RemoveItemResponse{}), nil
}

// ToggleAssignment flips whether a participant shares an item.
func (s *SplitService) ToggleAssignment(ctx context.Context, req *connect.Request[api.ToggleAssignmentRequest]) (*connect.Response[api.ToggleAssignmentResponse], error) {
	sess, err := s.session(ctx, req.Msg.SessionId)
	if err != nil {
		return nil, err
	}

	assigned, err := sess.Toggle(req.Msg.ItemId, req.Msg.ParticipantId)
	if err != nil {
		slog.Warn("ToggleAssignment rejected",
			"session_id", sess.ID,
			"item_id", req.Msg.ItemId,
			"participant_id", req.Msg.ParticipantId,
			"error", err,
		)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.ToggleAssignmentResponse{
		ItemId:     req.Msg.ItemId,
		AssignedTo: append([]string{}, assigned...),
	}), nil
}

// ComputeSplit returns each participant's share with tax and tip, plus what
// every other participant owes the caller.
func (s *SplitService) ComputeSplit(ctx context.Context, req *connect.Request[api.ComputeSplitRequest]) (*connect.Response[api.ComputeSplitResponse], error) {
	sess, err := s.session(ctx, req.Msg.SessionId)
	if err != nil {
		return nil, err
	}

	breakdown, err := sess.Split()
	if err != nil {
		slog.Error("ComputeSplit failed", "session_id", sess.ID, "error", err)
		return nil, toConnectError(err)
	}
	edges := calculator.Settle(breakdown, sess.User.ID)

	slog.Info("Split computed",
		"session_id", sess.ID,
		"participants", len(breakdown.PerPerson),
		"total", breakdown.Totals.Total.String(),
	)

	return connect.NewResponse(breakdownToAPI(breakdown, edges)), nil
}

// StartIngestion uploads a receipt photo for OCR. The call returns once the
// job has started; progress is read with GetIngestion.
func (s *SplitService) StartIngestion(ctx context.Context, req *connect.Request[api.StartIngestionRequest]) (*connect.Response[api.StartIngestionResponse], error) {
	sess, err := s.session(ctx, req.Msg.SessionId)
	if err != nil {
		return nil, err
	}
	if len(req.Msg.Image) == 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("image is required"))
	}

	filename := req.Msg.Filename
	if filename == "" {
		filename = "receipt.jpg"
	}

	slog.Info("StartIngestion request received", "session_id", sess.ID, "filename", filename, "bytes", len(req.Msg.Image))

	job, err := sess.StartIngestion(ingestion.Image{Filename: filename, Data: req.Msg.Image})
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.StartIngestionResponse{
		Ingestion: ingestionStatusToAPI(job.Status()),
	}), nil
}

// GetIngestion reports the current ingestion job and the receipt items.
func (s *SplitService) GetIngestion(ctx context.Context, req *connect.Request[api.GetIngestionRequest]) (*connect.Response[api.GetIngestionResponse], error) {
	sess, err := s.session(ctx, req.Msg.SessionId)
	if err != nil {
		return nil, err
	}

	resp := &api.GetIngestionResponse{Ingestion: &api.IngestionStatus{State: ingestion.Idle.String()}}
	if status, ok := sess.Ingestion(); ok {
		resp.Ingestion = ingestionStatusToAPI(status)
	}
	receipt := sess.Receipt()
	resp.Items = itemsToAPI(receipt.Items)

	return connect.NewResponse(resp), nil
}

// session looks up a session owned by the caller.
func (s *SplitService) session(ctx context.Context, id string) (*session.Session, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("session_id required"))
	}
	sess, err := s.sessions.Get(id)
	if err != nil {
		return nil, toConnectError(err)
	}
	if sess.User.ID != userID {
		return nil, toConnectError(fmt.Errorf("session %s: %w", id, errNotOwner))
	}
	return sess, nil
}
