package shacl_test

import (
	"testing"
	"time"

	rdflens "github.com/reoring/rdflens"
	"github.com/reoring/rdflens/rdf"
	"github.com/reoring/rdflens/shacl"
	"github.com/reoring/rdflens/vocab"
)

func coerceOne(t *testing.T, dt string, term rdf.Term) any {
	t.Helper()
	got, err := shacl.Coerce(rdf.NewIRI(dt)).Execute(rdflens.NewContainer(term, nil))
	if err != nil {
		t.Fatalf("coerce %s: %v", dt, err)
	}
	return got
}

func lit(lex, dt string) rdf.Literal {
	return rdf.NewLiteral(lex, rdf.NewIRI(dt))
}

func TestCoerce_Scalars(t *testing.T) {
	if got := coerceOne(t, vocab.XsdInteger, lit("42", vocab.XsdInteger)); got != int64(42) {
		t.Fatalf("integer: %v (%T)", got, got)
	}
	if got := coerceOne(t, vocab.XsdDouble, lit("2.5", vocab.XsdDouble)); got != 2.5 {
		t.Fatalf("double: %v", got)
	}
	if got := coerceOne(t, vocab.XsdDecimal, lit("1.25", vocab.XsdDecimal)); got != 1.25 {
		t.Fatalf("decimal: %v", got)
	}
	if got := coerceOne(t, vocab.XsdString, lit("hi", vocab.XsdString)); got != "hi" {
		t.Fatalf("string: %v", got)
	}
	if got := coerceOne(t, vocab.XsdBoolean, lit("true", vocab.XsdBoolean)); got != true {
		t.Fatalf("boolean: %v", got)
	}
	if got := coerceOne(t, vocab.XsdBoolean, lit("1", vocab.XsdBoolean)); got != false {
		t.Fatalf(`boolean only accepts "true": %v`, got)
	}
}

func TestCoerce_DateTime(t *testing.T) {
	got := coerceOne(t, vocab.XsdDateTime, lit("2024-05-01T10:30:00Z", vocab.XsdDateTime))
	ts, ok := got.(time.Time)
	if !ok {
		t.Fatalf("expected time.Time, got %T", got)
	}
	if ts.Year() != 2024 || ts.Month() != time.May {
		t.Fatalf("unexpected timestamp %v", ts)
	}
}

func TestCoerce_IRIs(t *testing.T) {
	for _, dt := range []string{vocab.XsdAnyURI, vocab.XsdIRI} {
		got := coerceOne(t, dt, lit("http://example.org/x", vocab.XsdString))
		if iri, ok := got.(rdf.IRI); !ok || iri.Value != "http://example.org/x" {
			t.Fatalf("%s: %v (%T)", dt, got, got)
		}
	}
	// An IRI-termed focus coerces from its value.
	got := coerceOne(t, vocab.XsdIRI, rdf.NewIRI("http://example.org/y"))
	if iri, ok := got.(rdf.IRI); !ok || iri.Value != "http://example.org/y" {
		t.Fatalf("iri from IRI term: %v", got)
	}
}

func TestCoerce_UnknownDatatypePassesTermThrough(t *testing.T) {
	term := lit("anything", "http://example.org/custom")
	got := coerceOne(t, "http://example.org/custom", term)
	if !rdf.Equal(got.(rdf.Term), term) {
		t.Fatalf("expected unchanged term, got %v", got)
	}
}

func TestCoerce_BadLexicalFails(t *testing.T) {
	_, err := shacl.Coerce(rdf.NewIRI(vocab.XsdInteger)).Execute(rdflens.NewContainer(rdf.Term(lit("not-a-number", vocab.XsdInteger)), nil))
	if !rdflens.HasCode(err, rdflens.CodeCoerce) {
		t.Fatalf("expected coerce failure, got %v", err)
	}
}
