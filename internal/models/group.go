package models

// Group is a saved, named list of participants (e.g., "Roommates").
// Selecting a group while building a Party expands it into its members.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// OwnerID is the user who saved the group.
	OwnerID string

	// Name is the display name of the group.
	Name string

	// Members are the participants in this group, in display order.
	Members []Participant

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// Friend is a participant saved to a user's friend list.
type Friend struct {
	// OwnerID is the user whose friend list this entry belongs to.
	OwnerID string

	Participant

	// CreatedAt is the Unix timestamp when the friend was added.
	CreatedAt int64
}
