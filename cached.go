package rdflens

import "github.com/reoring/rdflens/rdf"

// cachedLens is the memo identity: one per Cached call, stable for the life
// of the compiled lens, used as the key into Run's memo table.
type cachedLens struct {
	inner *Lens[Container[rdf.Term], any]
}

type cachedState struct {
	named map[string]any
	blank map[string]any
}

// Cached wraps a lens so that repeated evaluations for the same focus during
// one Run return the same result value. On first entry an empty Record is
// reserved under the focus before the inner lens runs; a cyclic re-entry
// finds the reservation and returns it immediately, which is what closes
// cycles in shape graphs. Once the inner lens finishes, its fields are merged
// into the reserved record in place, so holders of the early reference see
// the populated result.
//
// Only IRI and blank-node foci are cached; any other focus evaluates the
// inner lens directly.
func Cached(inner *Lens[Container[rdf.Term], any]) *Lens[Container[rdf.Term], any] {
	w := &cachedLens{inner: inner}
	return New(func(c Container[rdf.Term], r *Run) (any, error) {
		st, ok := r.Memo()[w].(*cachedState)
		if !ok {
			st = &cachedState{named: map[string]any{}, blank: map[string]any{}}
			r.Memo()[w] = st
		}
		var tbl map[string]any
		var key string
		switch id := c.ID.(type) {
		case rdf.IRI:
			tbl, key = st.named, id.Value
		case rdf.BlankNode:
			tbl, key = st.blank, id.ID
		default:
			return inner.Eval(c, r)
		}
		if v, hit := tbl[key]; hit {
			return v, nil
		}
		reserved := Record{}
		tbl[key] = reserved
		out, err := inner.Eval(c, r)
		if err != nil {
			delete(tbl, key)
			return nil, err
		}
		if rec, isRec := out.(Record); isRec {
			MergeRecord(reserved, rec)
			return reserved, nil
		}
		tbl[key] = out
		return out, nil
	})
}
