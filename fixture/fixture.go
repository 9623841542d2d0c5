// Package fixture loads quad sets from YAML documents. It is not an RDF
// serialisation parser; it is a structured-document loader so tests and
// callers can assemble quad arrays declaratively:
//
//	prefixes:
//	  ex: http://example.org/
//	quads:
//	  - [ex:a, ex:x, 5]
//	  - [ex:a, ex:label, {lit: hello}]
//	  - [ex:p, ex:strings, ["1", "2", "3"]]
//
// Strings in term position expand against the prefix map; scalars become
// typed literals; nested sequences become rdf lists; nested maps become
// anonymous blank-node subjects.
package fixture

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/reoring/rdflens/rdf"
	"github.com/reoring/rdflens/vocab"
)

type document struct {
	Prefixes map[string]string `yaml:"prefixes"`
	Quads    [][]any           `yaml:"quads"`
}

// Parse reads one or more YAML documents and returns the concatenated quads
// in document order.
func Parse(data []byte) ([]rdf.Quad, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var out []rdf.Quad
	for {
		var doc document
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		b := &builder{prefixes: doc.Prefixes}
		for _, row := range doc.Quads {
			if len(row) != 3 {
				return nil, fmt.Errorf("fixture: quad row needs 3 entries, got %d", len(row))
			}
			s, err := b.nodeTerm(row[0])
			if err != nil {
				return nil, err
			}
			p, err := b.nodeTerm(row[1])
			if err != nil {
				return nil, err
			}
			o, err := b.objectTerm(row[2])
			if err != nil {
				return nil, err
			}
			b.quads = append(b.quads, rdf.NewQuad(s, p, o))
		}
		out = append(out, b.quads...)
	}
	return out, nil
}

// MustParse is Parse for fixtures known to be well-formed; it panics on error.
func MustParse(data string) []rdf.Quad {
	qs, err := Parse([]byte(data))
	if err != nil {
		panic(err)
	}
	return qs
}

type builder struct {
	prefixes map[string]string
	quads    []rdf.Quad
}

// nodeTerm resolves a subject/predicate position: IRI or blank node only.
func (b *builder) nodeTerm(v any) (rdf.Term, error) {
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("fixture: node position needs a string, got %T", v)
	}
	if strings.HasPrefix(s, "_:") {
		return rdf.NewBlankNode(s[2:]), nil
	}
	return b.expandIRI(s)
}

// objectTerm resolves an object position, covering the literal shorthands.
func (b *builder) objectTerm(v any) (rdf.Term, error) {
	switch x := v.(type) {
	case int:
		return rdf.NewLiteral(strconv.Itoa(x), rdf.NewIRI(vocab.XsdInteger)), nil
	case int64:
		return rdf.NewLiteral(strconv.FormatInt(x, 10), rdf.NewIRI(vocab.XsdInteger)), nil
	case float64:
		return rdf.NewLiteral(strconv.FormatFloat(x, 'g', -1, 64), rdf.NewIRI(vocab.XsdDouble)), nil
	case bool:
		return rdf.NewLiteral(strconv.FormatBool(x), rdf.NewIRI(vocab.XsdBoolean)), nil
	case string:
		if strings.HasPrefix(x, "_:") {
			return rdf.NewBlankNode(x[2:]), nil
		}
		if iri, err := b.expandIRI(x); err == nil {
			return iri, nil
		}
		return rdf.NewLiteral(x, rdf.NewIRI(vocab.XsdString)), nil
	case []any:
		return b.buildList(x)
	case map[string]any:
		return b.buildMapTerm(x)
	case nil:
		return nil, fmt.Errorf("fixture: null object")
	default:
		return nil, fmt.Errorf("fixture: unsupported object %T", v)
	}
}

// buildList materialises a YAML sequence as an rdf:first/rdf:rest chain with
// fresh blank cons cells.
func (b *builder) buildList(items []any) (rdf.Term, error) {
	first := rdf.NewIRI(vocab.RdfFirst)
	rest := rdf.NewIRI(vocab.RdfRest)
	nilT := rdf.NewIRI(vocab.RdfNil)
	var tail rdf.Term = nilT
	for i := len(items) - 1; i >= 0; i-- {
		o, err := b.objectTerm(items[i])
		if err != nil {
			return nil, err
		}
		cell := rdf.NewAnonNode()
		b.quads = append(b.quads,
			rdf.NewQuad(cell, first, o),
			rdf.NewQuad(cell, rest, tail))
		tail = cell
	}
	return tail, nil
}

// buildMapTerm handles the literal/iri shorthands and anonymous subjects.
func (b *builder) buildMapTerm(m map[string]any) (rdf.Term, error) {
	if raw, ok := m["iri"]; ok {
		s, _ := raw.(string)
		return b.expandIRI(s)
	}
	if raw, ok := m["lit"]; ok {
		lex := fmt.Sprint(raw)
		lit := rdf.Literal{Lexical: lex, Datatype: rdf.NewIRI(vocab.XsdString)}
		if dt, ok := m["dt"].(string); ok {
			iri, err := b.expandIRI(dt)
			if err != nil {
				return nil, err
			}
			lit.Datatype = iri
		}
		if lang, ok := m["lang"].(string); ok {
			lit.Lang = lang
		}
		return lit, nil
	}
	// Anonymous subject: every key is a predicate, every value an object.
	// Keys emit in sorted order so fixtures stay deterministic.
	anon := rdf.NewAnonNode()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		p, err := b.expandIRI(k)
		if err != nil {
			return nil, err
		}
		o, err := b.objectTerm(m[k])
		if err != nil {
			return nil, err
		}
		b.quads = append(b.quads, rdf.NewQuad(anon, p, o))
	}
	return anon, nil
}

func (b *builder) expandIRI(s string) (rdf.IRI, error) {
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "urn:") {
		return rdf.NewIRI(s), nil
	}
	if i := strings.Index(s, ":"); i >= 0 {
		if base, ok := b.prefixes[s[:i]]; ok {
			return rdf.NewIRI(base + s[i+1:]), nil
		}
	}
	return rdf.IRI{}, fmt.Errorf("fixture: %q is not an IRI", s)
}
