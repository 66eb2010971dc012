// Package models defines the core domain models for Sharify.
//
// # Split models
//
// A split session works on three pieces of state:
//   - Receipt: the ordered line items being split
//   - Party: the resolved, deduplicated participants of the session
//   - LineItem.AssignedTo: which participants share each item
//
// Breakdown and PersonShare are derived from those and never stored.
//
// # Saved models
//
// Friend, Group and User are persisted by the storage layer. Friends and
// named groups are selection sources for building a Party.
//
// # Design Principles
//
//  1. Amounts are money.Cents, never float64
//  2. Relationships use ID strings instead of pointers
//  3. The requesting user is always the first participant of a Party
package models
