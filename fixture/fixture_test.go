package fixture_test

import (
	"testing"

	"github.com/reoring/rdflens/fixture"
	"github.com/reoring/rdflens/rdf"
	"github.com/reoring/rdflens/vocab"
)

func TestParse_BasicQuads(t *testing.T) {
	quads, err := fixture.Parse([]byte(`prefixes:
  ex: http://example.org/
quads:
  - [ex:a, ex:x, 5]
  - [ex:a, ex:label, "hello"]
  - [ex:a, ex:ref, ex:b]
  - [_:b0, ex:flag, true]
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(quads) != 4 {
		t.Fatalf("expected 4 quads, got %d", len(quads))
	}
	if !rdf.Equal(quads[0].S, rdf.NewIRI("http://example.org/a")) {
		t.Fatalf("subject not expanded: %v", quads[0].S)
	}
	lit, ok := quads[0].O.(rdf.Literal)
	if !ok || lit.Lexical != "5" || lit.Datatype.Value != vocab.XsdInteger {
		t.Fatalf("integer literal wrong: %v", quads[0].O)
	}
	if _, ok := quads[2].O.(rdf.IRI); !ok {
		t.Fatalf("prefixed object not an IRI: %v", quads[2].O)
	}
	if _, ok := quads[3].S.(rdf.BlankNode); !ok {
		t.Fatalf("blank subject wrong: %v", quads[3].S)
	}
	flag, ok := quads[3].O.(rdf.Literal)
	if !ok || flag.Lexical != "true" || flag.Datatype.Value != vocab.XsdBoolean {
		t.Fatalf("boolean literal wrong: %v", quads[3].O)
	}
}

func TestParse_NestedListBuildsRDFList(t *testing.T) {
	quads, err := fixture.Parse([]byte(`prefixes:
  ex: http://example.org/
quads:
  - [ex:p, ex:vals, ["1", "2"]]
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	// 2 cons cells (first+rest each) plus the row quad.
	if len(quads) != 5 {
		t.Fatalf("expected 5 quads, got %d", len(quads))
	}
	var head rdf.Term
	first := rdf.NewIRI(vocab.RdfFirst)
	rest := rdf.NewIRI(vocab.RdfRest)
	for _, q := range quads {
		if rdf.Equal(q.P, rdf.NewIRI("http://example.org/vals")) {
			head = q.O
		}
	}
	if head == nil {
		t.Fatalf("row quad missing")
	}
	var elems []string
	cur := head
	for !rdf.Equal(cur, rdf.NewIRI(vocab.RdfNil)) {
		var f, r rdf.Term
		for _, q := range quads {
			if !rdf.Equal(q.S, cur) {
				continue
			}
			if rdf.Equal(q.P, first) {
				f = q.O
			}
			if rdf.Equal(q.P, rest) {
				r = q.O
			}
		}
		if f == nil || r == nil {
			t.Fatalf("broken cons cell at %v", cur)
		}
		elems = append(elems, f.(rdf.Literal).Lexical)
		cur = r
	}
	if len(elems) != 2 || elems[0] != "1" || elems[1] != "2" {
		t.Fatalf("list order wrong: %v", elems)
	}
}

func TestParse_AnonymousMapSubject(t *testing.T) {
	quads, err := fixture.Parse([]byte(`prefixes:
  ex: http://example.org/
quads:
  - [ex:a, ex:nested, {"ex:x": 1, "ex:y": 2}]
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(quads) != 3 {
		t.Fatalf("expected 3 quads, got %d", len(quads))
	}
	// Anonymous quads precede the row quad and share one generated subject.
	if !rdf.Equal(quads[0].S, quads[1].S) {
		t.Fatalf("anonymous subject split: %v vs %v", quads[0].S, quads[1].S)
	}
	if !rdf.Equal(quads[2].O, quads[0].S) {
		t.Fatalf("row quad does not point at the anonymous subject")
	}
}

func TestParse_LiteralShorthand(t *testing.T) {
	quads, err := fixture.Parse([]byte(`prefixes:
  ex: http://example.org/
  xsd: http://www.w3.org/2001/XMLSchema#
quads:
  - [ex:a, ex:when, {lit: "2024-05-01T10:30:00Z", dt: xsd:dateTime}]
  - [ex:a, ex:greeting, {lit: hello, lang: en}]
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	when := quads[0].O.(rdf.Literal)
	if when.Datatype.Value != vocab.XsdDateTime {
		t.Fatalf("datatype override lost: %v", when)
	}
	greet := quads[1].O.(rdf.Literal)
	if greet.Lang != "en" {
		t.Fatalf("language tag lost: %v", greet)
	}
}

func TestParse_MultiDocumentConcatenates(t *testing.T) {
	quads, err := fixture.Parse([]byte(`prefixes:
  ex: http://example.org/
quads:
  - [ex:a, ex:p, 1]
---
prefixes:
  ex: http://other.org/
quads:
  - [ex:a, ex:p, 2]
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(quads) != 2 {
		t.Fatalf("expected 2 quads, got %d", len(quads))
	}
	if !rdf.Equal(quads[1].S, rdf.NewIRI("http://other.org/a")) {
		t.Fatalf("per-document prefixes not honored: %v", quads[1].S)
	}
}

func TestParse_Errors(t *testing.T) {
	if _, err := fixture.Parse([]byte("quads:\n  - [ex:a, ex:p]\n")); err == nil {
		t.Fatalf("expected error for short row")
	}
	if _, err := fixture.Parse([]byte("quads:\n  - [unknown:a, unknown:p, 1]\n")); err == nil {
		t.Fatalf("expected error for unknown prefix")
	}
	if _, err := fixture.Parse([]byte("quads:\n  - [5, 6, 7]\n")); err == nil {
		t.Fatalf("expected error for non-string node position")
	}
}
