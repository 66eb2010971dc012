package models

import "github.com/rlee603166/sharify/internal/money"

// LineItem is one priced entry on a receipt.
type LineItem struct {
	// ID is the unique identifier for the item (UUID format unless the OCR
	// service supplied one).
	ID string

	// Name is the item label as printed on the receipt (e.g., "Pad Thai").
	Name string

	// Price is the full price of the item. Never negative.
	Price money.Cents

	// AssignedTo lists the participant IDs sharing this item, in the order
	// they were assigned. The order decides who absorbs rounding residue.
	// An empty list means the item is not distributed to anyone.
	AssignedTo []string
}

// IsAssigned reports whether participantID shares the item.
func (i *LineItem) IsAssigned(participantID string) bool {
	for _, id := range i.AssignedTo {
		if id == participantID {
			return true
		}
	}
	return false
}

// Receipt is the ordered sequence of line items of one split session.
type Receipt struct {
	Items []LineItem
}

// Item returns a pointer to the item with the given ID, or nil.
func (r *Receipt) Item(id string) *LineItem {
	for i := range r.Items {
		if r.Items[i].ID == id {
			return &r.Items[i]
		}
	}
	return nil
}

// Subtotal is the sum of all item prices regardless of assignment.
// This is the base for tax and tip.
func (r *Receipt) Subtotal() money.Cents {
	var sum money.Cents
	for _, item := range r.Items {
		sum += item.Price
	}
	return sum
}

// Clone returns a deep copy of the receipt.
func (r *Receipt) Clone() Receipt {
	items := make([]LineItem, len(r.Items))
	for i, item := range r.Items {
		items[i] = item
		items[i].AssignedTo = append([]string(nil), item.AssignedTo...)
	}
	return Receipt{Items: items}
}
