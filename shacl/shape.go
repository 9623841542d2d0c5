package shacl

import (
	"strconv"

	"github.com/reoring/rdflens"
	"github.com/reoring/rdflens/rdf"
	"github.com/reoring/rdflens/vocab"
)

var (
	rdfsSubClassOf = rdf.NewIRI(vocab.RdfsSubClassOf)
	rdfsClass      = rdf.NewIRI(vocab.RdfsClass)
	shNodeShape    = rdf.NewIRI(vocab.ShNodeShape)
	shTargetClass  = rdf.NewIRI(vocab.ShTargetClass)
	shProperty     = rdf.NewIRI(vocab.ShProperty)
	shPath         = rdf.NewIRI(vocab.ShPath)
	shName         = rdf.NewIRI(vocab.ShName)
	shDescription  = rdf.NewIRI(vocab.ShDescription)
	shClass        = rdf.NewIRI(vocab.ShClass)
	shDatatype     = rdf.NewIRI(vocab.ShDatatype)
	shMinCount     = rdf.NewIRI(vocab.ShMinCount)
	shMaxCount     = rdf.NewIRI(vocab.ShMaxCount)
)

// ClassLens is the lens registered per target class: container in, record
// (or pseudo-class value) out.
type ClassLens = rdflens.Lens[Cont, any]

// Shape is one extraction shape: a target class and its fields. A NodeShape
// with several sh:targetClass values yields one Shape per class, sharing
// fields.
type Shape struct {
	ID          string
	Ty          rdf.Term
	Description string
	Fields      []Field
}

// Field is one sh:property entry compiled to a path and a value extractor.
type Field struct {
	Name     string
	Path     *PathLens
	MinCount *int
	MaxCount *int
	Extract  *ClassLens
}

// Shapes is the compiled result: every extracted shape, the class lens cache
// and the subclass chain.
type Shapes struct {
	Shapes     []Shape
	Lenses     map[string]*ClassLens
	SubClasses map[string]string

	cached map[string]*ClassLens
	apply  map[string]func(any) any
}

// Option configures Extract.
type Option func(*extractOpt)

type extractOpt struct {
	apply   map[string]func(any) any
	classes map[string]*ClassLens
}

// WithApply registers a post-processor run over every record the dispatcher
// produces for the given class.
func WithApply(class string, fn func(any) any) Option {
	return func(o *extractOpt) {
		if o.apply == nil {
			o.apply = map[string]func(any) any{}
		}
		o.apply[class] = fn
	}
}

// WithClass seeds the cache with a custom class lens, alongside the built-in
// pseudo-classes.
func WithClass(class string, lens *ClassLens) Option {
	return func(o *extractOpt) {
		if o.classes == nil {
			o.classes = map[string]*ClassLens{}
		}
		o.classes[class] = lens
	}
}

// Extract walks the shape graph and builds one lens per target class. Shapes
// referencing each other by class resolve through the cache at execute time,
// so mutually recursive shapes compile.
func Extract(quads []rdf.Quad, opts ...Option) (*Shapes, error) {
	var o extractOpt
	for _, fn := range opts {
		fn(&o)
	}
	s := &Shapes{
		Lenses:     map[string]*ClassLens{},
		SubClasses: map[string]string{},
		cached:     map[string]*ClassLens{},
		apply:      o.apply,
	}

	for _, q := range quads {
		if !rdf.Equal(q.P, rdfsSubClassOf) {
			continue
		}
		child, okC := q.S.(rdf.IRI)
		parent, okP := q.O.(rdf.IRI)
		if okC && okP {
			s.SubClasses[child.Value] = parent.Value
		}
	}

	s.Lenses[vocab.LensPathLens] = pathLensLens()
	s.Lenses[vocab.LensCBD] = cbdLens()
	s.Lenses[vocab.LensContext] = contextLens()
	for class, lens := range o.classes {
		s.Lenses[class] = lens
	}

	subjects, err := rdflens.Unique(rdflens.Subjects()).Execute(quads)
	if err != nil {
		return nil, err
	}
	byClass := map[string][]Shape{}
	var classes []string
	for _, subj := range subjects {
		shapes, err := s.extractShape(subj)
		if err != nil {
			return nil, err
		}
		for _, sh := range shapes {
			s.Shapes = append(s.Shapes, sh)
			key := classKey(sh.Ty)
			if _, seen := byClass[key]; !seen {
				classes = append(classes, key)
			}
			byClass[key] = append(byClass[key], sh)
		}
	}
	for _, key := range classes {
		lens := s.combinedLens(byClass[key])
		if prev, ok := s.Lenses[key]; ok {
			// A custom or built-in lens already holds the class.
			s.Lenses[key] = prev.Or(lens)
			continue
		}
		s.Lenses[key] = lens
	}

	s.Lenses[vocab.LensTypedExtract] = s.typedExtractLens()
	for class, lens := range s.Lenses {
		s.cached[class] = rdflens.Cached(lens)
	}
	return s, nil
}

// Lens returns the cycle-safe lens for a class IRI.
func (s *Shapes) Lens(class string) (*ClassLens, bool) {
	l, ok := s.cached[class]
	return l, ok
}

// Execute extracts a record for class from the given focus and quads.
func (s *Shapes) Execute(class string, c Cont, opts ...rdflens.ExecOption) (any, error) {
	l, ok := s.Lens(class)
	if !ok {
		return nil, rdflens.Issues{{
			Code:    rdflens.CodeUnknownClass,
			Message: "no lens registered for class " + class,
		}}
	}
	return l.Execute(c, opts...)
}

func classKey(t rdf.Term) string {
	if iri, ok := t.(rdf.IRI); ok {
		return iri.Value
	}
	return rdf.Key(t)
}

// extractShape reads one subject as a NodeShape. Subjects without the
// sh:NodeShape type are skipped, not errors; a NodeShape with a malformed
// property fails the whole extraction.
func (s *Shapes) extractShape(c Cont) ([]Shape, error) {
	types := objectsOf(c, rdfType)
	isShape, isClass := false, false
	for _, t := range types {
		if rdf.Equal(t.ID, shNodeShape) {
			isShape = true
		}
		if rdf.Equal(t.ID, rdfsClass) {
			isClass = true
		}
	}
	if !isShape {
		return nil, nil
	}

	var targets []rdf.Term
	for _, t := range objectsOf(c, shTargetClass) {
		targets = append(targets, t.ID)
	}
	if isClass {
		// rdfs:Class + sh:NodeShape: the shape targets its own IRI.
		targets = append(targets, c.ID)
	}
	if len(targets) == 0 {
		return nil, nil
	}

	description := ""
	if descs := objectsOf(c, shDescription); len(descs) > 0 {
		description = lexicalValue(descs[0].ID)
	}

	var fields []Field
	for _, prop := range objectsOf(c, shProperty) {
		f, err := s.extractField(prop)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}

	out := make([]Shape, 0, len(targets))
	for _, ty := range targets {
		out = append(out, Shape{
			ID:          c.ID.String(),
			Ty:          ty,
			Description: description,
			Fields:      fields,
		})
	}
	return out, nil
}

func (s *Shapes) extractField(c Cont) (Field, error) {
	pathNodes := objectsOf(c, shPath)
	if len(pathNodes) != 1 {
		return Field{}, rdflens.Issues{{
			Code:    rdflens.CodePathInvalid,
			Message: "property " + c.ID.String() + " needs exactly one sh:path",
		}}
	}
	path, err := CompilePath(pathNodes[0])
	if err != nil {
		return Field{}, err
	}

	names := objectsOf(c, shName)
	if len(names) != 1 {
		return Field{}, rdflens.Issues{{
			Code:    rdflens.CodeExpectedOne,
			Message: "property " + c.ID.String() + " needs exactly one sh:name",
		}}
	}
	name := lexicalValue(names[0].ID)

	minCount, err := optionalCount(c, shMinCount)
	if err != nil {
		return Field{}, err
	}
	maxCount, err := optionalCount(c, shMaxCount)
	if err != nil {
		return Field{}, err
	}

	classes := objectsOf(c, shClass)
	datatypes := objectsOf(c, shDatatype)
	if (len(classes) > 0) == (len(datatypes) > 0) {
		return Field{}, rdflens.Issues{{
			Code:    rdflens.CodeParseError,
			Message: "property " + name + " needs exactly one of sh:class or sh:datatype",
		}}
	}
	var extract *ClassLens
	if len(datatypes) > 0 {
		dt := datatypes[0].ID
		extract = EnvLens(dt).Or(Coerce(dt))
	} else {
		extract = s.classRefLens(classKey(classes[0].ID))
	}

	return Field{
		Name:     name,
		Path:     path,
		MinCount: minCount,
		MaxCount: maxCount,
		Extract:  extract,
	}, nil
}

func optionalCount(c Cont, p rdf.Term) (*int, error) {
	vals := objectsOf(c, p)
	if len(vals) == 0 {
		return nil, nil
	}
	n, err := strconv.Atoi(lexicalValue(vals[0].ID))
	if err != nil {
		return nil, rdflens.Issues{{
			Code:    rdflens.CodeCoerce,
			Message: "count on " + c.ID.String() + " is not an integer",
			Cause:   err,
		}}
	}
	return &n, nil
}

// classRefLens defers the class lookup to execute time; this is what lets a
// shape reference a class whose lens is compiled later, or never.
func (s *Shapes) classRefLens(class string) *ClassLens {
	return rdflens.New(func(c Cont, r *rdflens.Run) (any, error) {
		l, ok := s.cached[class]
		if !ok {
			return nil, rdflens.Failf(r, rdflens.CodeUnknownClass, "no lens registered for class %s", class)
		}
		return l.Eval(c, r)
	})
}

// combinedLens compiles the shapes registered for one class. A single shape
// keeps its strict field conjunction; several shapes targeting the same class
// combine field-wise: every shape contributes, single-valued fields keep the
// first success, multi-valued fields union, and the whole fails only when no
// shape succeeds completely.
func (s *Shapes) combinedLens(shapes []Shape) *ClassLens {
	if len(shapes) == 1 {
		return s.toLens(shapes[0])
	}
	type compiled struct {
		frame  rdflens.Frame
		fields []*rdflens.Lens[Cont, rdflens.Record]
	}
	all := make([]compiled, 0, len(shapes))
	for _, sh := range shapes {
		c := compiled{frame: rdflens.Frame{Name: sh.ID, Opts: map[string]any{"class": classKey(sh.Ty)}}}
		for _, f := range sh.Fields {
			c.fields = append(c.fields, s.fieldLens(f).Named(f.Name, nil))
		}
		all = append(all, c)
	}
	return rdflens.New(func(c Cont, r *rdflens.Run) (any, error) {
		rec := rdflens.Record{}
		var collected rdflens.Issues
		succeeded := false
		for _, sh := range all {
			br := r.Branch()
			br.Push(sh.frame)
			ok := true
			for _, fl := range sh.fields {
				m, err := fl.Eval(c, br.Branch())
				if err != nil {
					ok = false
					collected = appendErr(collected, err)
					continue
				}
				mergeUnion(rec, m)
			}
			if ok {
				succeeded = true
			}
		}
		if !succeeded {
			return nil, collected
		}
		return rec, nil
	})
}

// mergeUnion merges one field record into the accumulated record: a fresh key
// is taken as-is, a multi-valued collision concatenates, and a single-valued
// collision keeps the first success.
func mergeUnion(dst, src rdflens.Record) {
	for k, v := range src {
		prev, exists := dst[k]
		if !exists {
			dst[k] = v
			continue
		}
		if pv, pok := prev.([]any); pok {
			if nv, nok := v.([]any); nok {
				dst[k] = append(pv, nv...)
			}
		}
	}
}

func appendErr(dst rdflens.Issues, err error) rdflens.Issues {
	if iss, ok := rdflens.AsIssues(err); ok {
		return rdflens.AppendIssues(dst, iss...)
	}
	return rdflens.AppendIssues(dst, rdflens.Issue{
		Code:    rdflens.CodeParseError,
		Message: err.Error(),
		Cause:   err,
	})
}

// toLens compiles a shape to its record lens: every field lens runs on the
// same focus and the field records merge.
func (s *Shapes) toLens(sh Shape) *ClassLens {
	fieldLenses := make([]*rdflens.Lens[Cont, rdflens.Record], 0, len(sh.Fields))
	for _, f := range sh.Fields {
		fieldLenses = append(fieldLenses, s.fieldLens(f).Named(f.Name, nil))
	}
	merged := rdflens.Map(rdflens.And(fieldLenses...), func(rs []rdflens.Record) any {
		rec := rdflens.Record{}
		for _, m := range rs {
			rdflens.MergeRecord(rec, m)
		}
		return rec
	})
	return merged.Named(sh.ID, map[string]any{"class": classKey(sh.Ty)})
}

// fieldLens wraps a field as {name: value}. A maxCount <= 1 field produces a
// scalar and omits the key when the optional value is absent; any other field
// produces a sequence checked against the count bounds.
func (s *Shapes) fieldLens(f Field) *rdflens.Lens[Cont, rdflens.Record] {
	single := f.MaxCount != nil && *f.MaxCount <= 1
	if single {
		return rdflens.New(func(c Cont, r *rdflens.Run) (rdflens.Record, error) {
			cs, err := f.Path.Eval(c, r)
			if err != nil {
				return nil, err
			}
			if len(cs) == 0 {
				if f.MinCount != nil && *f.MinCount > 0 {
					return nil, rdflens.Failf(r, rdflens.CodeRequired, "missing required field %q", f.Name)
				}
				return rdflens.Record{}, nil
			}
			if len(cs) > *f.MaxCount {
				return nil, rdflens.Failf(r, rdflens.CodeCardinality, "field %q has %d values, at most %d allowed", f.Name, len(cs), *f.MaxCount)
			}
			v, err := f.Extract.Eval(cs[0], r)
			if err != nil {
				return nil, err
			}
			return rdflens.Record{f.Name: v}, nil
		})
	}
	return rdflens.New(func(c Cont, r *rdflens.Run) (rdflens.Record, error) {
		cs, err := f.Path.Eval(c, r)
		if err != nil {
			return nil, err
		}
		elems := decodeListOrSingleton(cs, r)
		vals := make([]any, 0, len(elems))
		for _, e := range elems {
			v, err := f.Extract.Eval(e, r)
			if err != nil {
				return nil, err
			}
			if v != nil {
				vals = append(vals, v)
			}
		}
		min := 0
		if f.MinCount != nil {
			min = *f.MinCount
		}
		if len(vals) < min {
			if len(vals) == 0 {
				return nil, rdflens.Failf(r, rdflens.CodeRequired, "missing required field %q", f.Name)
			}
			return nil, rdflens.Failf(r, rdflens.CodeCardinality, "field %q has %d values, at least %d required", f.Name, len(vals), min)
		}
		if f.MaxCount != nil && len(vals) > *f.MaxCount {
			return nil, rdflens.Failf(r, rdflens.CodeCardinality, "field %q has %d values, at most %d allowed", f.Name, len(vals), *f.MaxCount)
		}
		return rdflens.Record{f.Name: vals}, nil
	})
}

// decodeListOrSingleton lets a multi-valued path accept either an rdf list or
// repeated predicate values: containers that decode as lists contribute their
// elements, anything else contributes itself.
func decodeListOrSingleton(cs []Cont, r *rdflens.Run) []Cont {
	dl := rdflens.DecodeList()
	var out []Cont
	for _, c := range cs {
		if isList(c) {
			if elems, err := dl.Eval(c, r.Branch()); err == nil {
				out = append(out, elems...)
				continue
			}
		}
		out = append(out, c)
	}
	return out
}
