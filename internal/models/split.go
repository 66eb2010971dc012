package models

import "github.com/rlee603166/sharify/internal/money"

// ShareItem is one item's contribution to a person's share.
type ShareItem struct {
	ItemID string
	Name   string

	// Price is the full price of the item.
	Price money.Cents

	// ShareCount is how many participants split the item.
	ShareCount int

	// Amount is this person's portion of Price, rounded to the cent.
	Amount money.Cents
}

// PersonShare is one participant's calculated share of a receipt.
// It is the output of the split calculation and is never mutated directly.
type PersonShare struct {
	Participant Participant

	// Items are the items this person shares, in receipt order.
	Items []ShareItem

	// Subtotal is the sum of Items[].Amount (pre-tax).
	Subtotal money.Cents

	// Tax is Subtotal × tax rate.
	Tax money.Cents

	// Tip is Subtotal × tip rate.
	Tip money.Cents

	// Total is Subtotal + Tax + Tip.
	Total money.Cents
}

// Totals are the receipt-level figures.
type Totals struct {
	// Subtotal is the sum of every item price, assigned or not.
	Subtotal money.Cents

	// AssignedSubtotal is the sum of prices of items with at least one
	// assignee. It always equals the sum of PersonShare subtotals.
	AssignedSubtotal money.Cents

	Tax   money.Cents
	Tip   money.Cents
	Total money.Cents
}

// Breakdown is the full result of splitting a receipt across a party.
type Breakdown struct {
	// PerPerson follows party order, so the requesting user comes first.
	PerPerson []PersonShare
	Totals    Totals
}
