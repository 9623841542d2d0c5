package shacl

import (
	"strconv"
	"time"

	"github.com/reoring/rdflens"
	"github.com/reoring/rdflens/rdf"
	"github.com/reoring/rdflens/vocab"
)

// Coerce returns a lens converting the focus term to the native value of the
// given XSD datatype. Unknown datatypes pass the term through unchanged.
func Coerce(dt rdf.Term) *rdflens.Lens[Cont, any] {
	dtv := ""
	if iri, ok := dt.(rdf.IRI); ok {
		dtv = iri.Value
	}
	return rdflens.New(func(c Cont, r *rdflens.Run) (any, error) {
		lex := lexicalValue(c.ID)
		switch dtv {
		case vocab.XsdInteger:
			n, err := strconv.ParseInt(lex, 10, 64)
			if err != nil {
				return nil, rdflens.Failf(r, rdflens.CodeCoerce, "%q is not an xsd:integer", lex)
			}
			return n, nil
		case vocab.XsdFloat, vocab.XsdDouble, vocab.XsdDecimal:
			f, err := strconv.ParseFloat(lex, 64)
			if err != nil {
				return nil, rdflens.Failf(r, rdflens.CodeCoerce, "%q is not a number", lex)
			}
			return f, nil
		case vocab.XsdString:
			return lex, nil
		case vocab.XsdDateTime:
			t, err := parseDateTime(lex)
			if err != nil {
				return nil, rdflens.Failf(r, rdflens.CodeCoerce, "%q is not an xsd:dateTime", lex)
			}
			return t, nil
		case vocab.XsdBoolean:
			return lex == "true", nil
		case vocab.XsdAnyURI, vocab.XsdIRI:
			return rdf.NewIRI(lex), nil
		default:
			return c.ID, nil
		}
	})
}

func lexicalValue(t rdf.Term) string {
	switch x := t.(type) {
	case rdf.Literal:
		return x.Lexical
	case rdf.IRI:
		return x.Value
	case rdf.BlankNode:
		return x.ID
	default:
		return t.String()
	}
}

// parseDateTime accepts RFC3339 with optional fractional seconds.
func parseDateTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, err
	}
	return t, nil
}
