package shacl

import (
	"github.com/reoring/rdflens"
	"github.com/reoring/rdflens/vocab"
)

// typedExtractLens is the rdfl:TypedExtract dispatcher: it reads the focus
// node's rdf:type, walks the subClassOf chain upwards and runs every shape
// lens found along the way, merging ancestor records under the child's.
func (s *Shapes) typedExtractLens() *ClassLens {
	typeLens := rdflens.Pred(rdfType)
	return rdflens.New(func(c Cont, r *rdflens.Run) (any, error) {
		types, err := typeLens.Eval(c, r)
		if err != nil {
			return nil, err
		}
		if len(types) == 0 {
			return nil, rdflens.Failf(r, rdflens.CodeNoType, "expected a type, found none")
		}
		ty := classKey(types[0].ID)

		var chain []string
		visited := map[string]struct{}{}
		for cur := ty; cur != ""; cur = s.SubClasses[cur] {
			if _, seen := visited[cur]; seen {
				break
			}
			visited[cur] = struct{}{}
			if cur == vocab.LensTypedExtract {
				continue
			}
			if _, ok := s.cached[cur]; ok {
				chain = append(chain, cur)
			}
		}
		if len(chain) == 0 {
			return nil, rdflens.Failf(r, rdflens.CodeUnknownClass, "no shape lens found for type %s", ty)
		}

		// Ancestors first so the child's fields win the merge.
		rec := rdflens.Record{}
		for i := len(chain) - 1; i >= 0; i-- {
			out, err := s.cached[chain[i]].Eval(c, r)
			if err != nil {
				return nil, err
			}
			if m, ok := out.(rdflens.Record); ok {
				rdflens.MergeRecord(rec, m)
			} else if len(chain) == 1 {
				return out, nil
			}
		}
		if fn, ok := s.apply[ty]; ok {
			return fn(rec), nil
		}
		return rec, nil
	}).Named("TypedExtract", nil)
}
