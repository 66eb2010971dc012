// Package session holds in-memory split sessions.
//
// A Session owns one Receipt, one Party, and at most one active ingestion job.
// Every read and write goes through the session mutex; ingestion completion is
// the only writer that does not come from a user request.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/rlee603166/sharify/internal/assignment"
	"github.com/rlee603166/sharify/internal/calculator"
	"github.com/rlee603166/sharify/internal/group"
	"github.com/rlee603166/sharify/internal/ingestion"
	"github.com/rlee603166/sharify/internal/models"
	"github.com/rlee603166/sharify/internal/money"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrItemNotFound    = errors.New("item not found")
	ErrIngestionOff    = errors.New("receipt ingestion is not configured")
)

// Session is one in-progress split.
type Session struct {
	ID        string
	User      models.Participant
	CreatedAt time.Time

	rates calculator.Rates

	// lastUsed is the unix-nano time of the last lookup through the manager.
	lastUsed atomic.Int64

	mu      sync.Mutex
	receipt models.Receipt
	party   models.Party
	poller  *ingestion.Poller
	ctx     context.Context
	cancel  context.CancelFunc
}

func newSession(user models.Participant, rates calculator.Rates, poller *ingestion.Poller, now time.Time) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		ID:        uuid.New().String(),
		User:      user,
		CreatedAt: now,
		rates:     rates,
		party:     models.Party{user},
		poller:    poller,
		ctx:       ctx,
		cancel:    cancel,
	}
	s.touch(now)
	return s
}

func (s *Session) touch(now time.Time) {
	s.lastUsed.Store(now.UnixNano())
}

// LastUsed returns when the session was created or last looked up.
func (s *Session) LastUsed() time.Time {
	return time.Unix(0, s.lastUsed.Load())
}

// Party returns a copy of the current party.
func (s *Session) Party() models.Party {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(models.Party(nil), s.party...)
}

// Receipt returns a copy of the current receipt.
func (s *Session) Receipt() models.Receipt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.receipt.Clone()
}

// ResolveGroup recomputes the party from a new selection and prunes
// assignments that reference removed participants.
func (s *Session) ResolveGroup(sel group.Selection) models.Party {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.party = group.Resolve(s.User, sel, s.party)
	if removed := assignment.Prune(&s.receipt, s.party); removed > 0 {
		slog.Debug("Pruned stale assignments", "session_id", s.ID, "removed", removed)
	}
	return append(models.Party(nil), s.party...)
}

// AddItem appends a new line item. The price must parse.
func (s *Session) AddItem(name, priceInput string) (models.LineItem, error) {
	price, err := money.ParsePrice(priceInput)
	if err != nil {
		return models.LineItem{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item := models.LineItem{ID: uuid.New().String(), Name: name, Price: price}
	s.receipt.Items = append(s.receipt.Items, item)
	return item, nil
}

// UpdateItem renames an item and edits its price. An empty name keeps the
// current name. If priceInput does not parse, the name change still applies,
// the last valid price is kept, and ErrInvalidPrice is returned.
func (s *Session) UpdateItem(itemID, name, priceInput string) (models.LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.receipt.Item(itemID)
	if item == nil {
		return models.LineItem{}, fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}
	if name != "" {
		item.Name = name
	}
	if priceInput == "" {
		return *item, nil
	}
	price, err := money.ParsePrice(priceInput)
	if err != nil {
		return *item, err
	}
	item.Price = price
	return *item, nil
}

// RemoveItem deletes an item from the receipt.
func (s *Session) RemoveItem(itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, item := range s.receipt.Items {
		if item.ID == itemID {
			s.receipt.Items = append(s.receipt.Items[:i:i], s.receipt.Items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
}

// Toggle flips whether participantID shares itemID.
func (s *Session) Toggle(itemID, participantID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := assignment.Toggle(&s.receipt, s.party, itemID, participantID); err != nil {
		return nil, err
	}
	return assignment.Assigned(&s.receipt, itemID)
}

// Split computes the breakdown from the current receipt and party.
func (s *Session) Split() (*models.Breakdown, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return calculator.CalculateSplit(s.receipt, s.party, s.rates)
}

// StartIngestion uploads a receipt photo, cancelling any job already running
// for this session. On completion the receipt is replaced by the processed
// items with no assignments. Failed or timed-out jobs leave the receipt as is.
func (s *Session) StartIngestion(img ingestion.Image) (*ingestion.Job, error) {
	if s.poller == nil {
		return nil, ErrIngestionOff
	}

	job := s.poller.Start(s.ctx, img, s.User.ID)
	job.OnOutcome(func(o ingestion.Outcome) {
		if o.State != ingestion.Completed {
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.poller.Active() != job {
			return
		}
		s.receipt = o.Receipt.Clone()
		assignment.Clear(&s.receipt)
		slog.Info("Receipt loaded from OCR", "session_id", s.ID, "receipt_id", o.ReceiptID, "items", len(s.receipt.Items))
	})
	return job, nil
}

// Ingestion returns the status of the most recent ingestion job. ok is false
// if none was started.
func (s *Session) Ingestion() (status ingestion.Status, ok bool) {
	if s.poller == nil {
		return ingestion.Status{}, false
	}
	job := s.poller.Active()
	if job == nil {
		return ingestion.Status{}, false
	}
	return job.Status(), true
}

// close cancels any running ingestion job.
func (s *Session) close() {
	s.cancel()
	if s.poller != nil {
		s.poller.Stop()
	}
}
