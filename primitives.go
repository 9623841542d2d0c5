package rdflens

import "github.com/reoring/rdflens/rdf"

// Pred yields one container per quad whose subject is the focus and whose
// predicate matches p. A nil p matches any predicate. Result order follows
// the quad slice.
func Pred(p rdf.Term) *Multi[Container[rdf.Term], Container[rdf.Term]] {
	return NewMulti(func(c Container[rdf.Term], r *Run) ([]Container[rdf.Term], error) {
		var out []Container[rdf.Term]
		for _, q := range c.Quads {
			if !rdf.Equal(q.S, c.ID) {
				continue
			}
			if p != nil && !rdf.Equal(q.P, p) {
				continue
			}
			out = append(out, Container[rdf.Term]{ID: q.O, Quads: c.Quads})
		}
		return out, nil
	})
}

// InvPred is the dual of Pred: it yields the subjects of quads whose object
// is the focus.
func InvPred(p rdf.Term) *Multi[Container[rdf.Term], Container[rdf.Term]] {
	return NewMulti(func(c Container[rdf.Term], r *Run) ([]Container[rdf.Term], error) {
		var out []Container[rdf.Term]
		for _, q := range c.Quads {
			if !rdf.Equal(q.O, c.ID) {
				continue
			}
			if p != nil && !rdf.Equal(q.P, p) {
				continue
			}
			out = append(out, Container[rdf.Term]{ID: q.S, Quads: c.Quads})
		}
		return out, nil
	})
}

// PredTriple is Pred with the matching quad itself as the new focus.
func PredTriple(p rdf.Term) *Multi[Container[rdf.Term], Container[rdf.Quad]] {
	return NewMulti(func(c Container[rdf.Term], r *Run) ([]Container[rdf.Quad], error) {
		var out []Container[rdf.Quad]
		for _, q := range c.Quads {
			if !rdf.Equal(q.S, c.ID) {
				continue
			}
			if p != nil && !rdf.Equal(q.P, p) {
				continue
			}
			out = append(out, Container[rdf.Quad]{ID: q, Quads: c.Quads})
		}
		return out, nil
	})
}

// Match yields quad containers from a bare quad set; nil components match
// anything.
func Match(s, p, o rdf.Term) *Multi[[]rdf.Quad, Container[rdf.Quad]] {
	return NewMulti(func(quads []rdf.Quad, r *Run) ([]Container[rdf.Quad], error) {
		var out []Container[rdf.Quad]
		for _, q := range quads {
			if s != nil && !rdf.Equal(q.S, s) {
				continue
			}
			if p != nil && !rdf.Equal(q.P, p) {
				continue
			}
			if o != nil && !rdf.Equal(q.O, o) {
				continue
			}
			out = append(out, Container[rdf.Quad]{ID: q, Quads: quads})
		}
		return out, nil
	})
}

// Subjects yields one term container per quad subject, duplicates included.
func Subjects() *Multi[[]rdf.Quad, Container[rdf.Term]] {
	return NewMulti(func(quads []rdf.Quad, r *Run) ([]Container[rdf.Term], error) {
		var out []Container[rdf.Term]
		for _, q := range quads {
			out = append(out, Container[rdf.Term]{ID: q.S, Quads: quads})
		}
		return out, nil
	})
}

// Unique deduplicates term containers by term identity. Emission order is
// Literals, then IRIs, then BlankNodes, keeping first-occurrence order within
// each group.
func Unique[C any](m *Multi[C, Container[rdf.Term]]) *Multi[C, Container[rdf.Term]] {
	return NewMulti(func(c C, r *Run) ([]Container[rdf.Term], error) {
		ts, err := m.Eval(c, r)
		if err != nil {
			return nil, err
		}
		seen := map[string]struct{}{}
		var literals, iris, blanks []Container[rdf.Term]
		for _, t := range ts {
			k := rdf.Key(t.ID)
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			switch t.ID.Kind() {
			case rdf.TermLiteral:
				literals = append(literals, t)
			case rdf.TermIRI:
				iris = append(iris, t)
			case rdf.TermBlankNode:
				blanks = append(blanks, t)
			default:
				iris = append(iris, t)
			}
		}
		out := make([]Container[rdf.Term], 0, len(literals)+len(iris)+len(blanks))
		out = append(out, literals...)
		out = append(out, iris...)
		return append(out, blanks...), nil
	})
}

// Subject pivots a quad container to its subject term.
func Subject() *Lens[Container[rdf.Quad], Container[rdf.Term]] {
	return New(func(c Container[rdf.Quad], r *Run) (Container[rdf.Term], error) {
		return Container[rdf.Term]{ID: c.ID.S, Quads: c.Quads}, nil
	})
}

// Predicate pivots a quad container to its predicate term.
func Predicate() *Lens[Container[rdf.Quad], Container[rdf.Term]] {
	return New(func(c Container[rdf.Quad], r *Run) (Container[rdf.Term], error) {
		return Container[rdf.Term]{ID: c.ID.P, Quads: c.Quads}, nil
	})
}

// Object pivots a quad container to its object term.
func Object() *Lens[Container[rdf.Quad], Container[rdf.Term]] {
	return New(func(c Container[rdf.Quad], r *Run) (Container[rdf.Term], error) {
		return Container[rdf.Term]{ID: c.ID.O, Quads: c.Quads}, nil
	})
}

// Empty is the identity lens.
func Empty[C any]() *Lens[C, C] {
	return New(func(c C, r *Run) (C, error) { return c, nil })
}
