package shacl

import (
	"github.com/reoring/rdflens"
	"github.com/reoring/rdflens/rdf"
)

// CBD computes the concise bounded description of the focus: a breadth-first
// collection of its quads, following blank-node objects until no new blanks
// appear. Quad order follows the input slice per traversal level.
func CBD(c Cont) []rdf.Quad {
	var out []rdf.Quad
	seenQuad := map[string]struct{}{}
	visited := map[string]struct{}{}
	frontier := []rdf.Term{c.ID}
	for len(frontier) > 0 {
		var next []rdf.Term
		for _, s := range frontier {
			k := rdf.Key(s)
			if _, done := visited[k]; done {
				continue
			}
			visited[k] = struct{}{}
			for _, q := range c.Quads {
				if !rdf.Equal(q.S, s) {
					continue
				}
				qk := q.String()
				if _, dup := seenQuad[qk]; dup {
					continue
				}
				seenQuad[qk] = struct{}{}
				out = append(out, q)
				if _, blank := q.O.(rdf.BlankNode); blank {
					next = append(next, q.O)
				}
			}
		}
		frontier = next
	}
	return out
}

// cbdLens is the rdfl:CBD pseudo-class: the description as a quad slice.
func cbdLens() *rdflens.Lens[Cont, any] {
	return rdflens.New(func(c Cont, r *rdflens.Run) (any, error) {
		return CBD(c), nil
	})
}

// contextLens is the rdfl:Context pseudo-class: the surrounding quad set,
// unchanged.
func contextLens() *rdflens.Lens[Cont, any] {
	return rdflens.New(func(c Cont, r *rdflens.Run) (any, error) {
		return c.Quads, nil
	})
}

// pathLensLens is the rdfl:PathLens pseudo-class: it compiles the focus as a
// path expression and yields the compiled lens as a field value.
func pathLensLens() *rdflens.Lens[Cont, any] {
	return rdflens.New(func(c Cont, r *rdflens.Run) (any, error) {
		p, err := CompilePath(c)
		if err != nil {
			return nil, err
		}
		return p, nil
	})
}
