// Package group resolves the participant list of a split session from the
// selection sources offered to the user: device contacts, saved friends, and
// saved named groups.
package group

import "github.com/rlee603166/sharify/internal/models"

// Selection is what the selection UI returns after one visit.
type Selection struct {
	Contacts []models.Candidate
	Friends  []models.Candidate
	Groups   []models.GroupCandidate

	// Deselected holds the IDs (participant or group) the user explicitly
	// unchecked during this visit. Only these may drop a previously selected
	// participant.
	Deselected []string
}

// Resolve builds the session party.
//
// The requesting user always comes first. Selected contacts, then selected
// friends, then the members of selected groups follow in that order. When the
// same ID appears more than once the first occurrence wins, keeping its
// position and display name.
//
// Candidates that were part of the previous party stay selected even if this
// payload marks them unselected, unless they are listed in Deselected. A group
// counts as previously selected when all of its members were in the previous
// party.
func Resolve(user models.Participant, sel Selection, previous models.Party) models.Party {
	deselected := make(map[string]bool, len(sel.Deselected))
	for _, id := range sel.Deselected {
		deselected[id] = true
	}

	keep := func(id string, selected bool) bool {
		if selected {
			return true
		}
		return previous.Contains(id) && !deselected[id]
	}

	party := models.Party{user}
	seen := map[string]bool{user.ID: true}
	add := func(p models.Participant) {
		if p.ID == "" || seen[p.ID] {
			return
		}
		seen[p.ID] = true
		party = append(party, p)
	}

	for _, c := range sel.Contacts {
		if keep(c.ID, c.Selected) {
			add(models.Participant{ID: c.ID, DisplayName: c.Name})
		}
	}
	for _, f := range sel.Friends {
		if keep(f.ID, f.Selected) {
			add(models.Participant{ID: f.ID, DisplayName: f.Name})
		}
	}
	for _, g := range sel.Groups {
		if !g.Selected && (deselected[g.ID] || !allIn(g.Members, previous)) {
			continue
		}
		for _, m := range g.Members {
			if deselected[m.ID] {
				continue
			}
			add(m)
		}
	}

	return party
}

func allIn(members []models.Participant, party models.Party) bool {
	if len(members) == 0 {
		return false
	}
	for _, m := range members {
		if !party.Contains(m.ID) {
			return false
		}
	}
	return true
}
