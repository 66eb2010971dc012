package calculator

import (
	"github.com/rlee603166/sharify/internal/models"
	"github.com/rlee603166/sharify/internal/money"
)

// DebtEdge represents a debt from one person to another.
type DebtEdge struct {
	From   string // Person who owes
	To     string // Person who is owed
	Amount money.Cents
}

// Settle lists what each participant owes the payer for a breakdown.
// The payer and anyone with a zero total are skipped. Edges follow party order.
func Settle(breakdown *models.Breakdown, payerID string) []DebtEdge {
	var edges []DebtEdge
	for _, share := range breakdown.PerPerson {
		if share.Participant.ID == payerID || share.Total <= 0 {
			continue
		}
		edges = append(edges, DebtEdge{
			From:   share.Participant.ID,
			To:     payerID,
			Amount: share.Total,
		})
	}
	return edges
}
