package shacl_test

import (
	"testing"

	rdflens "github.com/reoring/rdflens"
	"github.com/reoring/rdflens/fixture"
	"github.com/reoring/rdflens/rdf"
	"github.com/reoring/rdflens/shacl"
	"github.com/reoring/rdflens/vocab"
)

func compile(t *testing.T, pathDoc string, focus rdf.Term) (*shacl.PathLens, []rdf.Quad) {
	t.Helper()
	quads := fixture.MustParse(pathDoc)
	p, err := shacl.CompilePath(rdflens.NewContainer(focus, quads))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return p, quads
}

func ids(cs []shacl.Cont) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.ID.String())
	}
	return out
}

func TestPredicatePath(t *testing.T) {
	doc := header + `
  - [ex:a, ex:p, ex:b]
  - [ex:a, ex:p, ex:c]
`
	p, quads := compile(t, doc, ex("p"))
	got, err := p.Execute(rdflens.NewContainer(ex("a"), quads))
	if err != nil || len(got) != 2 {
		t.Fatalf("expected 2 results, got %d err=%v", len(got), err)
	}
}

func TestSequencePath(t *testing.T) {
	// ex:seqHolder holds the list (ex:p ex:q); the list head is the path node.
	doc := header + `
  - [ex:seqHolder, ex:holds, [{iri: ex:p}, {iri: ex:q}]]
  - [ex:a, ex:p, ex:mid]
  - [ex:mid, ex:q, ex:end]
`
	quads := fixture.MustParse(doc)
	heads, err := rdflens.Pred(ex("holds")).Execute(rdflens.NewContainer(ex("seqHolder"), quads))
	if err != nil || len(heads) != 1 {
		t.Fatalf("fixture list head missing: %v", err)
	}
	p, err := shacl.CompilePath(heads[0])
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	got, err := p.Execute(rdflens.NewContainer(ex("a"), quads))
	if err != nil || len(got) != 1 || !rdf.Equal(got[0].ID, ex("end")) {
		t.Fatalf("sequence traversal wrong: %v err=%v", ids(got), err)
	}
}

func TestEmptySequenceIsIdentity(t *testing.T) {
	p, quads := compile(t, header+`
  - [ex:a, ex:p, ex:b]
`, rdf.NewIRI(vocab.RdfNil))
	got, err := p.Execute(rdflens.NewContainer(ex("a"), quads))
	if err != nil || len(got) != 1 || !rdf.Equal(got[0].ID, ex("a")) {
		t.Fatalf("identity path wrong: %v err=%v", ids(got), err)
	}
}

func TestZeroOrMorePath(t *testing.T) {
	doc := header + `
  - [ex:path, "sh:zeroOrMorePath", ex:next]
  - [ex:a, ex:next, ex:b]
  - [ex:b, ex:next, ex:c]
`
	p, quads := compile(t, doc, ex("path"))
	got, err := p.Execute(rdflens.NewContainer(ex("a"), quads))
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	want := []string{"http://example.org/a", "http://example.org/b", "http://example.org/c"}
	if len(got) != 3 {
		t.Fatalf("expected %v, got %v", want, ids(got))
	}
	for i := range want {
		if got[i].ID.String() != want[i] {
			t.Fatalf("expected %v, got %v", want, ids(got))
		}
	}
}

func TestZeroOrMorePath_CyclicDataTerminates(t *testing.T) {
	doc := header + `
  - [ex:path, "sh:zeroOrMorePath", ex:next]
  - [ex:a, ex:next, ex:b]
  - [ex:b, ex:next, ex:a]
`
	p, quads := compile(t, doc, ex("path"))
	got, err := p.Execute(rdflens.NewContainer(ex("a"), quads))
	if err != nil || len(got) != 2 {
		t.Fatalf("expected 2 nodes on cycle, got %v err=%v", ids(got), err)
	}
}

func TestOneOrMorePath(t *testing.T) {
	doc := header + `
  - [ex:path, "sh:oneOrMorePath", ex:next]
  - [ex:a, ex:next, ex:b]
  - [ex:b, ex:next, ex:c]
`
	p, quads := compile(t, doc, ex("path"))
	got, err := p.Execute(rdflens.NewContainer(ex("a"), quads))
	if err != nil || len(got) != 2 {
		t.Fatalf("expected b and c, got %v err=%v", ids(got), err)
	}
	if !rdf.Equal(got[0].ID, ex("b")) || !rdf.Equal(got[1].ID, ex("c")) {
		t.Fatalf("unexpected order %v", ids(got))
	}
}

func TestZeroOrOnePath(t *testing.T) {
	doc := header + `
  - [ex:path, "sh:zeroOrOnePath", ex:next]
  - [ex:a, ex:next, ex:b]
  - [ex:b, ex:next, ex:c]
`
	p, quads := compile(t, doc, ex("path"))
	got, err := p.Execute(rdflens.NewContainer(ex("a"), quads))
	if err != nil || len(got) != 2 {
		t.Fatalf("expected a and b, got %v err=%v", ids(got), err)
	}
	if !rdf.Equal(got[0].ID, ex("a")) || !rdf.Equal(got[1].ID, ex("b")) {
		t.Fatalf("unexpected nodes %v", ids(got))
	}
}

func TestInverseSequencePath(t *testing.T) {
	// inverse of (ex:p ex:q): from the end of the chain back to the start.
	doc := header + `
  - [ex:holder, "sh:inversePath", [{iri: ex:p}, {iri: ex:q}]]
  - [ex:a, ex:p, ex:mid]
  - [ex:mid, ex:q, ex:end]
`
	p, quads := compile(t, doc, ex("holder"))
	got, err := p.Execute(rdflens.NewContainer(ex("end"), quads))
	if err != nil || len(got) != 1 || !rdf.Equal(got[0].ID, ex("a")) {
		t.Fatalf("inverse sequence wrong: %v err=%v", ids(got), err)
	}
}

func TestUncompilablePathFails(t *testing.T) {
	quads := fixture.MustParse(header + `
  - [ex:a, ex:p, ex:b]
`)
	lit := rdf.NewLiteral("not a path", rdf.IRI{})
	_, err := shacl.CompilePath(rdflens.NewContainer(rdf.Term(lit), quads))
	if !rdflens.HasCode(err, rdflens.CodePathInvalid) {
		t.Fatalf("expected path_invalid, got %v", err)
	}
}
