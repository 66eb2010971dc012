package service

import (
	"github.com/rlee603166/sharify/internal/calculator"
	"github.com/rlee603166/sharify/internal/ingestion"
	"github.com/rlee603166/sharify/internal/models"
	"github.com/rlee603166/sharify/pkg/api"
)

func participantToAPI(p models.Participant) *api.Participant {
	return &api.Participant{Id: p.ID, DisplayName: p.DisplayName}
}

func participantsToAPI(ps []models.Participant) []*api.Participant {
	out := make([]*api.Participant, len(ps))
	for i, p := range ps {
		out[i] = participantToAPI(p)
	}
	return out
}

func participantsFromAPI(ps []*api.Participant) []models.Participant {
	out := make([]models.Participant, 0, len(ps))
	for _, p := range ps {
		if p == nil {
			continue
		}
		out = append(out, models.Participant{ID: p.Id, DisplayName: p.DisplayName})
	}
	return out
}

func groupToAPI(g *models.Group) *api.Group {
	return &api.Group{
		Id:        g.ID,
		Name:      g.Name,
		Members:   participantsToAPI(g.Members),
		CreatedAt: g.CreatedAt,
	}
}

func userToAPI(u *models.User) *api.User {
	return &api.User{Id: u.ID, Email: u.Email, DisplayName: u.DisplayName}
}

func itemToAPI(item models.LineItem) *api.LineItem {
	return &api.LineItem{
		Id:         item.ID,
		Name:       item.Name,
		PriceCents: int64(item.Price),
		AssignedTo: append([]string{}, item.AssignedTo...),
	}
}

func itemsToAPI(items []models.LineItem) []*api.LineItem {
	out := make([]*api.LineItem, len(items))
	for i, item := range items {
		out[i] = itemToAPI(item)
	}
	return out
}

func breakdownToAPI(b *models.Breakdown, edges []calculator.DebtEdge) *api.ComputeSplitResponse {
	resp := &api.ComputeSplitResponse{
		PerPerson: make([]*api.PersonShare, len(b.PerPerson)),
		Totals: &api.Totals{
			SubtotalCents:         int64(b.Totals.Subtotal),
			AssignedSubtotalCents: int64(b.Totals.AssignedSubtotal),
			TaxCents:              int64(b.Totals.Tax),
			TipCents:              int64(b.Totals.Tip),
			TotalCents:            int64(b.Totals.Total),
		},
		Settlements: make([]*api.DebtEdge, len(edges)),
	}
	for i, share := range b.PerPerson {
		items := make([]*api.ShareItem, len(share.Items))
		for j, it := range share.Items {
			items[j] = &api.ShareItem{
				ItemId:      it.ItemID,
				Name:        it.Name,
				PriceCents:  int64(it.Price),
				ShareCount:  int32(it.ShareCount),
				AmountCents: int64(it.Amount),
			}
		}
		resp.PerPerson[i] = &api.PersonShare{
			Participant:   participantToAPI(share.Participant),
			Items:         items,
			SubtotalCents: int64(share.Subtotal),
			TaxCents:      int64(share.Tax),
			TipCents:      int64(share.Tip),
			TotalCents:    int64(share.Total),
		}
	}
	for i, e := range edges {
		resp.Settlements[i] = &api.DebtEdge{From: e.From, To: e.To, AmountCents: int64(e.Amount)}
	}
	return resp
}

func ingestionStatusToAPI(st ingestion.Status) *api.IngestionStatus {
	out := &api.IngestionStatus{
		State:     st.State.String(),
		ReceiptId: st.ReceiptID,
		Attempts:  int32(st.Attempts),
	}
	if st.Cancelled {
		out.State = "cancelled"
	}
	if st.Outcome != nil && st.Outcome.Err != nil {
		out.Error = st.Outcome.Err.Error()
	}
	return out
}
