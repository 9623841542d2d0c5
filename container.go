package rdflens

import "github.com/reoring/rdflens/rdf"

// Container is the focus carried through lens composition: a focus value plus
// the quad set it was found in. The quad slice is shared by reference across
// all sub-lenses; lenses never mutate it.
//
// I is rdf.Term for the common case; pivoting lenses use rdf.Quad so a triple
// itself can become the focus.
type Container[I any] struct {
	ID    I
	Quads []rdf.Quad
}

// NewContainer returns a term-focused container over quads.
func NewContainer(id rdf.Term, quads []rdf.Quad) Container[rdf.Term] {
	return Container[rdf.Term]{ID: id, Quads: quads}
}

// Record is the dynamic record tree produced by shape lenses. Field names come
// from the shape graph, so records are string-keyed maps rather than structs.
// Maps are reference values, which is what lets Cached hand out a record that
// is still being populated.
type Record = map[string]any

// MergeRecord copies src fields into dst, last-wins on key conflicts.
func MergeRecord(dst, src Record) {
	for k, v := range src {
		dst[k] = v
	}
}
