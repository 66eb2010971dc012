// Package assignment edits which participants share each receipt line item.
package assignment

import (
	"errors"
	"fmt"

	"github.com/rlee603166/sharify/internal/models"
)

var (
	// ErrInvalidParticipant is returned when toggling a participant that is
	// not in the current party.
	ErrInvalidParticipant = errors.New("participant is not in the group")

	// ErrItemNotFound is returned when the item ID is not on the receipt.
	ErrItemNotFound = errors.New("item not found")
)

// Toggle adds participantID to the item's assignees if absent, otherwise
// removes it. Every call flips the state once. On error the receipt is left
// unchanged.
func Toggle(receipt *models.Receipt, party models.Party, itemID, participantID string) error {
	if !party.Contains(participantID) {
		return fmt.Errorf("%w: %s", ErrInvalidParticipant, participantID)
	}
	item := receipt.Item(itemID)
	if item == nil {
		return fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}

	for i, id := range item.AssignedTo {
		if id == participantID {
			item.AssignedTo = append(item.AssignedTo[:i:i], item.AssignedTo[i+1:]...)
			return nil
		}
	}
	item.AssignedTo = append(item.AssignedTo, participantID)
	return nil
}

// Assigned returns a copy of the participant IDs sharing the item.
func Assigned(receipt *models.Receipt, itemID string) ([]string, error) {
	item := receipt.Item(itemID)
	if item == nil {
		return nil, fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}
	return append([]string(nil), item.AssignedTo...), nil
}

// Prune removes assignments that reference participants no longer in the
// party and returns how many were removed.
func Prune(receipt *models.Receipt, party models.Party) int {
	removed := 0
	for i := range receipt.Items {
		item := &receipt.Items[i]
		kept := item.AssignedTo[:0:0]
		for _, id := range item.AssignedTo {
			if party.Contains(id) {
				kept = append(kept, id)
			} else {
				removed++
			}
		}
		item.AssignedTo = kept
	}
	return removed
}

// Clear removes every assignment on the receipt.
func Clear(receipt *models.Receipt) {
	for i := range receipt.Items {
		receipt.Items[i].AssignedTo = nil
	}
}
