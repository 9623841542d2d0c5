package rdflens

import (
	"fmt"

	gojson "github.com/goccy/go-json"

	"github.com/reoring/rdflens/rdf"
)

// EncodeJSON renders a record tree to JSON. RDF terms left in the tree are
// rendered canonically: IRIs as their string value, literals as their lexical
// form, blank nodes with a "_:" prefix. time.Time values follow go-json's
// RFC3339 rendering.
func EncodeJSON(v any) ([]byte, error) {
	nv, err := normalizeJSON(v)
	if err != nil {
		return nil, err
	}
	return gojson.Marshal(nv)
}

func normalizeJSON(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case Record:
		out := make(map[string]any, len(x))
		for k, fv := range x {
			nv, err := normalizeJSON(fv)
			if err != nil {
				return nil, err
			}
			out[k] = nv
		}
		return out, nil
	case []any:
		out := make([]any, 0, len(x))
		for _, e := range x {
			nv, err := normalizeJSON(e)
			if err != nil {
				return nil, err
			}
			out = append(out, nv)
		}
		return out, nil
	case []rdf.Quad:
		out := make([]any, 0, len(x))
		for _, q := range x {
			out = append(out, q.String())
		}
		return out, nil
	case rdf.IRI:
		return x.Value, nil
	case rdf.BlankNode:
		return x.String(), nil
	case rdf.Literal:
		return x.Lexical, nil
	case rdf.Term:
		return nil, fmt.Errorf("rdflens: term %s is not JSON-encodable", x)
	default:
		return x, nil
	}
}
