package rdf

import "github.com/google/uuid"

// NewAnonNode mints a blank node with a fresh label. Labels are unique per
// process; callers building graphs programmatically use this instead of
// inventing their own counters.
func NewAnonNode() BlankNode {
	return BlankNode{ID: "b-" + uuid.NewString()}
}
