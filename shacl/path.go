// Package shacl compiles SHACL shape graphs into rdflens extractors. Shapes
// are read as extraction descriptions, not validation constraints: every
// sh:NodeShape with a target class becomes a lens producing a Record, and
// sh:path expressions become multi lenses over term containers.
package shacl

import (
	"github.com/reoring/rdflens"
	"github.com/reoring/rdflens/rdf"
	"github.com/reoring/rdflens/vocab"
)

// Cont is the term-focused container every shacl lens operates on.
type Cont = rdflens.Container[rdf.Term]

var (
	rdfType     = rdf.NewIRI(vocab.RdfType)
	rdfFirst    = rdf.NewIRI(vocab.RdfFirst)
	rdfNil      = rdf.NewIRI(vocab.RdfNil)
	shAlt       = rdf.NewIRI(vocab.ShAlternativePath)
	shInverse   = rdf.NewIRI(vocab.ShInversePath)
	shZeroMore  = rdf.NewIRI(vocab.ShZeroOrMorePath)
	shOneMore   = rdf.NewIRI(vocab.ShOneOrMorePath)
	shZeroOrOne = rdf.NewIRI(vocab.ShZeroOrOnePath)
)

// PathLens is a compiled SHACL path: a first-class value that can be stored
// in a record field and executed later.
type PathLens struct {
	multi *rdflens.Multi[Cont, Cont]
}

// Multi exposes the underlying multi lens for composition.
func (p *PathLens) Multi() *rdflens.Multi[Cont, Cont] { return p.multi }

// Eval runs the path against an existing run.
func (p *PathLens) Eval(c Cont, r *rdflens.Run) ([]Cont, error) {
	return p.multi.Eval(c, r)
}

// Execute runs the path with a fresh run.
func (p *PathLens) Execute(c Cont, opts ...rdflens.ExecOption) ([]Cont, error) {
	return p.multi.Execute(c, opts...)
}

// CompilePath compiles the path expression rooted at the focus of c into a
// multi lens. Path kinds are disambiguated structurally: sh:alternativePath,
// then sh:inversePath, then the repetition predicates, then an rdf list
// (sequence path), and finally a bare IRI as a predicate step. A node
// matching none of these fails with CodePathInvalid.
func CompilePath(c Cont) (*PathLens, error) {
	if alts := objectsOf(c, shAlt); len(alts) > 0 {
		return compileAlternative(alts[0])
	}
	if invs := objectsOf(c, shInverse); len(invs) > 0 {
		return compileInverse(invs[0])
	}
	if inner := objectsOf(c, shZeroMore); len(inner) > 0 {
		return compileRepetition(inner[0], 0, nil)
	}
	if inner := objectsOf(c, shOneMore); len(inner) > 0 {
		return compileRepetition(inner[0], 1, nil)
	}
	if inner := objectsOf(c, shZeroOrOne); len(inner) > 0 {
		one := 1
		return compileRepetition(inner[0], 0, &one)
	}
	if isList(c) {
		return compileSequence(c)
	}
	if _, ok := c.ID.(rdf.IRI); ok {
		return &PathLens{multi: rdflens.Pred(c.ID)}, nil
	}
	return nil, rdflens.Issues{{
		Code:    rdflens.CodePathInvalid,
		Message: "no path shape matched node " + c.ID.String(),
	}}
}

func objectsOf(c Cont, p rdf.Term) []Cont {
	out, _ := rdflens.Pred(p).Execute(c)
	return out
}

func isList(c Cont) bool {
	if rdf.Equal(c.ID, rdfNil) {
		return true
	}
	return len(objectsOf(c, rdfFirst)) > 0
}

func decodeListNow(c Cont) ([]Cont, error) {
	return rdflens.DecodeList().Execute(c)
}

// compileSequence decodes the list at the focus and chains the element paths
// with ThenFlat. The empty sequence is the identity path.
func compileSequence(c Cont) (*PathLens, error) {
	elems, err := decodeListNow(c)
	if err != nil {
		return nil, err
	}
	if len(elems) == 0 {
		return &PathLens{multi: identityPath()}, nil
	}
	cur, err := CompilePath(elems[0])
	if err != nil {
		return nil, err
	}
	m := cur.multi
	for _, e := range elems[1:] {
		next, err := CompilePath(e)
		if err != nil {
			return nil, err
		}
		m = rdflens.ThenFlat(m, next.multi)
	}
	return &PathLens{multi: m}, nil
}

// compileAlternative decodes the option list and concatenates the branch
// results in list order.
func compileAlternative(list Cont) (*PathLens, error) {
	opts, err := decodeListNow(list)
	if err != nil {
		return nil, err
	}
	if len(opts) == 0 {
		return nil, rdflens.Issues{{
			Code:    rdflens.CodePathInvalid,
			Message: "sh:alternativePath with an empty option list",
		}}
	}
	var branches []*rdflens.Multi[Cont, Cont]
	for _, o := range opts {
		p, err := CompilePath(o)
		if err != nil {
			return nil, err
		}
		branches = append(branches, p.multi)
	}
	return &PathLens{multi: branches[0].OrAll(branches[1:]...)}, nil
}

// compileInverse handles sh:inversePath over a single predicate or a list,
// which traverses the reversed predicates backwards.
func compileInverse(node Cont) (*PathLens, error) {
	if !isList(node) {
		return &PathLens{multi: rdflens.InvPred(node.ID)}, nil
	}
	elems, err := decodeListNow(node)
	if err != nil {
		return nil, err
	}
	if len(elems) == 0 {
		return &PathLens{multi: identityPath()}, nil
	}
	m := rdflens.InvPred(elems[len(elems)-1].ID)
	for i := len(elems) - 2; i >= 0; i-- {
		m = rdflens.ThenFlat(m, rdflens.InvPred(elems[i].ID))
	}
	return &PathLens{multi: m}, nil
}

// compileRepetition applies the inner path repeatedly, emitting every node
// whose repetition count lies in [min, max]. Traversal is breadth-first in
// quad order; visited nodes are expanded once, so cyclic data terminates.
func compileRepetition(pathNode Cont, min int, max *int) (*PathLens, error) {
	inner, err := CompilePath(pathNode)
	if err != nil {
		return nil, err
	}
	m := rdflens.NewMulti(func(c Cont, r *rdflens.Run) ([]Cont, error) {
		type item struct {
			node  Cont
			depth int
		}
		var out []Cont
		emitted := map[string]struct{}{}
		expanded := map[string]struct{}{}
		queue := []item{{node: c, depth: 0}}
		for len(queue) > 0 {
			it := queue[0]
			queue = queue[1:]
			k := rdf.Key(it.node.ID)
			if it.depth >= min && (max == nil || it.depth <= *max) {
				if _, dup := emitted[k]; !dup {
					emitted[k] = struct{}{}
					out = append(out, it.node)
				}
			}
			if max != nil && it.depth >= *max {
				continue
			}
			if _, done := expanded[k]; done {
				continue
			}
			expanded[k] = struct{}{}
			ns, err := inner.multi.Eval(it.node, r.Branch())
			if err != nil {
				continue
			}
			for _, n := range ns {
				queue = append(queue, item{node: n, depth: it.depth + 1})
			}
		}
		return out, nil
	})
	return &PathLens{multi: m}, nil
}

func identityPath() *rdflens.Multi[Cont, Cont] {
	return rdflens.NewMulti(func(c Cont, r *rdflens.Run) ([]Cont, error) {
		return []Cont{c}, nil
	})
}
