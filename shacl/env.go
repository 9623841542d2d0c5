package shacl

import (
	"os"
	"sync"

	"github.com/reoring/rdflens"
	"github.com/reoring/rdflens/rdf"
	"github.com/reoring/rdflens/vocab"
)

var (
	envVariable = rdf.NewIRI(vocab.LensEnvVariable)
	envKey      = rdf.NewIRI(vocab.LensEnvKey)
	envDefault  = rdf.NewIRI(vocab.LensEnvDefault)
	envDatatype = rdf.NewIRI(vocab.LensDatatype)
	xsdString   = rdf.NewIRI(vocab.XsdString)
)

// EnvDriver resolves environment keys. The default reads the process
// environment; tests swap it with SetEnvDriver.
type EnvDriver interface {
	Lookup(key string) (string, bool)
	Name() string
}

var (
	envDriverMu      sync.RWMutex
	currentEnvDriver EnvDriver = osEnvDriver{}
)

// SetEnvDriver replaces the global environment driver; nil values are ignored.
func SetEnvDriver(d EnvDriver) {
	if d == nil {
		return
	}
	envDriverMu.Lock()
	currentEnvDriver = d
	envDriverMu.Unlock()
}

// UseDefaultEnvDriver restores the os.LookupEnv-backed driver.
func UseDefaultEnvDriver() {
	envDriverMu.Lock()
	currentEnvDriver = osEnvDriver{}
	envDriverMu.Unlock()
}

func getEnvDriver() EnvDriver {
	envDriverMu.RLock()
	d := currentEnvDriver
	envDriverMu.RUnlock()
	return d
}

type osEnvDriver struct{}

func (osEnvDriver) Lookup(key string) (string, bool) { return os.LookupEnv(key) }
func (osEnvDriver) Name() string                     { return "os" }

// EnvLens resolves an EnvVariable node to its scalar value. The focus must be
// typed rdfl:EnvVariable and carry exactly one rdfl:envKey; rdfl:envDefault
// and a node-attached rdfl:datatype are optional. The coercion datatype is
// chosen in order: the dt argument, the node-attached datatype, xsd:string.
func EnvLens(dt rdf.Term) *rdflens.Lens[Cont, any] {
	keyLens := rdflens.Pred(envKey).ExpectOne()
	return rdflens.New(func(c Cont, r *rdflens.Run) (any, error) {
		if !hasType(c, envVariable) {
			return nil, rdflens.Failf(r, rdflens.CodeWrongType, "node %s is not an EnvVariable", c.ID)
		}
		keyC, err := keyLens.Eval(c, r)
		if err != nil {
			return nil, err
		}
		key := lexicalValue(keyC.ID)

		chosen := dt
		if chosen == nil {
			if dts := objectsOf(c, envDatatype); len(dts) > 0 {
				chosen = dts[0].ID
			} else {
				chosen = xsdString
			}
		}

		if val, ok := getEnvDriver().Lookup(key); ok {
			lit := Cont{ID: rdf.NewLiteral(val, asIRI(chosen, xsdString)), Quads: c.Quads}
			return Coerce(chosen).Eval(lit, r)
		}
		if defs := objectsOf(c, envDefault); len(defs) > 0 {
			return Coerce(chosen).Eval(Cont{ID: defs[0].ID, Quads: c.Quads}, r)
		}
		return nil, rdflens.Failf(r, rdflens.CodeEnvUnresolved, "ENV and default are not set")
	})
}

func hasType(c Cont, ty rdf.Term) bool {
	for _, t := range objectsOf(c, rdfType) {
		if rdf.Equal(t.ID, ty) {
			return true
		}
	}
	return false
}

func asIRI(t rdf.Term, def rdf.IRI) rdf.IRI {
	if iri, ok := t.(rdf.IRI); ok {
		return iri
	}
	return def
}

// EnvReplace rewrites a quad set by substituting every EnvVariable node with
// its resolved literal and dropping the node's concise bounded description.
// Callers that prefer preprocessing to in-lens resolution run this once over
// their data before extraction.
func EnvReplace(quads []rdf.Quad) ([]rdf.Quad, error) {
	subjects, err := rdflens.Unique(rdflens.Subjects()).Execute(quads)
	if err != nil {
		return nil, err
	}
	type repl struct {
		node  rdf.Term
		value rdf.Term
	}
	var repls []repl
	drop := map[string]struct{}{}
	for _, s := range subjects {
		if !hasType(Cont{ID: s.ID, Quads: quads}, envVariable) {
			continue
		}
		val, err := resolveEnvTerm(Cont{ID: s.ID, Quads: quads})
		if err != nil {
			return nil, err
		}
		repls = append(repls, repl{node: s.ID, value: val})
		for _, q := range CBD(Cont{ID: s.ID, Quads: quads}) {
			drop[q.String()] = struct{}{}
		}
	}
	if len(repls) == 0 {
		return quads, nil
	}
	var out []rdf.Quad
	for _, q := range quads {
		if _, gone := drop[q.String()]; gone {
			continue
		}
		for _, rp := range repls {
			if rdf.Equal(q.O, rp.node) {
				q.O = rp.value
			}
		}
		out = append(out, q)
	}
	return out, nil
}

// resolveEnvTerm resolves the replacement term for an EnvVariable subject:
// the environment value as a literal with the node-attached datatype, or the
// default term verbatim.
func resolveEnvTerm(c Cont) (rdf.Term, error) {
	keys := objectsOf(c, envKey)
	if len(keys) != 1 {
		return nil, rdflens.Issues{{
			Code:    rdflens.CodeExpectedOne,
			Message: "EnvVariable " + c.ID.String() + " needs exactly one envKey",
		}}
	}
	dt := xsdString
	if dts := objectsOf(c, envDatatype); len(dts) > 0 {
		dt = asIRI(dts[0].ID, xsdString)
	}
	if val, ok := getEnvDriver().Lookup(lexicalValue(keys[0].ID)); ok {
		return rdf.NewLiteral(val, dt), nil
	}
	if defs := objectsOf(c, envDefault); len(defs) > 0 {
		return defs[0].ID, nil
	}
	return nil, rdflens.Issues{{
		Code:    rdflens.CodeEnvUnresolved,
		Message: "ENV and default are not set",
	}}
}
