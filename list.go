package rdflens

import (
	"github.com/reoring/rdflens/rdf"
	"github.com/reoring/rdflens/vocab"
)

var (
	rdfFirst = rdf.NewIRI(vocab.RdfFirst)
	rdfRest  = rdf.NewIRI(vocab.RdfRest)
	rdfNil   = rdf.NewIRI(vocab.RdfNil)
)

// DecodeList decodes an rdf:first/rdf:rest chain into its element containers,
// head to tail. The focus must be a list head or rdf:nil. Every cons cell
// needs exactly one rdf:first and one rdf:rest; missing or duplicated links
// and cycles fail with CodeListMalformed.
func DecodeList() *Lens[Container[rdf.Term], []Container[rdf.Term]] {
	first := Pred(rdfFirst).ExpectOne()
	rest := Pred(rdfRest).ExpectOne()
	return New(func(c Container[rdf.Term], r *Run) ([]Container[rdf.Term], error) {
		var out []Container[rdf.Term]
		visited := map[string]struct{}{}
		cur := c
		for !rdf.Equal(cur.ID, rdfNil) {
			k := rdf.Key(cur.ID)
			if _, seen := visited[k]; seen {
				return nil, Failf(r, CodeListMalformed, "rdf list cycles at %s", cur.ID)
			}
			visited[k] = struct{}{}
			head, err := first.Eval(cur, r)
			if err != nil {
				return nil, AppendIssues(issuesFromErr(r, err),
					Failf(r, CodeListMalformed, "rdf list node %s has no single rdf:first", cur.ID)...)
			}
			next, err := rest.Eval(cur, r)
			if err != nil {
				return nil, AppendIssues(issuesFromErr(r, err),
					Failf(r, CodeListMalformed, "rdf list node %s has no single rdf:rest", cur.ID)...)
			}
			out = append(out, head)
			cur = next
		}
		if out == nil {
			out = []Container[rdf.Term]{}
		}
		return out, nil
	})
}

// ListTerms is DecodeList projected onto the element terms.
func ListTerms() *Lens[Container[rdf.Term], []rdf.Term] {
	return Map(DecodeList(), func(cs []Container[rdf.Term]) []rdf.Term {
		out := make([]rdf.Term, 0, len(cs))
		for _, c := range cs {
			out = append(out, c.ID)
		}
		return out
	})
}
