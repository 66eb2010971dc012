package models

// Participant is a person eligible to owe money on a receipt.
// Identity is by ID; DisplayName is for presentation only.
type Participant struct {
	ID          string
	DisplayName string
}

// Party is the ordered, deduplicated participant list of one split session.
// The requesting user is always Party[0].
type Party []Participant

// Contains reports whether a participant with the given ID is in the party.
func (p Party) Contains(id string) bool {
	return p.Index(id) >= 0
}

// Index returns the position of the participant with the given ID, or -1.
func (p Party) Index(id string) int {
	for i, member := range p {
		if member.ID == id {
			return i
		}
	}
	return -1
}

// IDs returns the participant IDs in party order.
func (p Party) IDs() []string {
	ids := make([]string, len(p))
	for i, member := range p {
		ids[i] = member.ID
	}
	return ids
}

// Candidate is one entry of a selection source (a contact or a saved friend)
// as returned by the selection UI.
type Candidate struct {
	ID       string
	Name     string
	Selected bool
}

// GroupCandidate is a named group as returned by the selection UI.
// Selecting it selects all of its Members.
type GroupCandidate struct {
	ID       string
	Name     string
	Selected bool
	Members  []Participant
}
