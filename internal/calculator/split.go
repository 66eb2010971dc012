package calculator

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rlee603166/sharify/internal/assignment"
	"github.com/rlee603166/sharify/internal/models"
	"github.com/rlee603166/sharify/internal/money"
)

var (
	// TaxRate is the fixed sales tax rate applied to the receipt subtotal.
	TaxRate = decimal.RequireFromString("0.08")
	// TipRate is the fixed tip rate applied to the receipt subtotal.
	TipRate = decimal.RequireFromString("0.18")
)

// Rates are the multipliers applied to subtotals for tax and tip.
type Rates struct {
	Tax decimal.Decimal
	Tip decimal.Decimal
}

// DefaultRates returns the 8% tax and 18% tip rates.
func DefaultRates() Rates {
	return Rates{Tax: TaxRate, Tip: TipRate}
}

// Validate rejects negative rates.
func (r Rates) Validate() error {
	if r.Tax.IsNegative() || r.Tip.IsNegative() {
		return fmt.Errorf("rates must not be negative (tax=%s, tip=%s)", r.Tax, r.Tip)
	}
	return nil
}

// CalculateSplit computes how much each participant owes.
//
// Items without assignees are not distributed to anyone, but their price still
// counts toward the receipt subtotal that tax and tip are based on. An assigned
// item is divided equally between its assignees; leftover cents go one each to
// the earliest assignees, so per-person amounts always sum to the item price.
//
// Each person's tax and tip are their own subtotal times the rate.
func CalculateSplit(receipt models.Receipt, party models.Party, rates Rates) (*models.Breakdown, error) {
	if len(party) == 0 {
		return nil, errors.New("must have at least one participant")
	}
	if err := rates.Validate(); err != nil {
		return nil, err
	}

	shares := make([]models.PersonShare, len(party))
	for i, p := range party {
		shares[i] = models.PersonShare{Participant: p}
	}

	var totals models.Totals
	for _, item := range receipt.Items {
		if item.Price < 0 {
			return nil, fmt.Errorf("%w: item %q is negative", money.ErrInvalidPrice, item.Name)
		}
		totals.Subtotal += item.Price

		if len(item.AssignedTo) == 0 {
			continue
		}
		totals.AssignedSubtotal += item.Price

		amounts := item.Price.Split(len(item.AssignedTo))
		for k, id := range item.AssignedTo {
			idx := party.Index(id)
			if idx < 0 {
				return nil, fmt.Errorf("item %q: %w: %s", item.Name, assignment.ErrInvalidParticipant, id)
			}
			share := &shares[idx]
			share.Items = append(share.Items, models.ShareItem{
				ItemID:     item.ID,
				Name:       item.Name,
				Price:      item.Price,
				ShareCount: len(item.AssignedTo),
				Amount:     amounts[k],
			})
			share.Subtotal += amounts[k]
		}
	}

	for i := range shares {
		s := &shares[i]
		s.Tax = s.Subtotal.ApplyRate(rates.Tax)
		s.Tip = s.Subtotal.ApplyRate(rates.Tip)
		s.Total = s.Subtotal + s.Tax + s.Tip
	}

	totals.Tax = totals.Subtotal.ApplyRate(rates.Tax)
	totals.Tip = totals.Subtotal.ApplyRate(rates.Tip)
	totals.Total = totals.Subtotal + totals.Tax + totals.Tip

	return &models.Breakdown{PerPerson: shares, Totals: totals}, nil
}
