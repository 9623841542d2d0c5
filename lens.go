// Package rdflens provides:
//
// - A combinator algebra of lenses: composable, backtracking extractors over
//   an RDF focus (term or quad) plus its surrounding quad set
// - Single-valued (Lens) and multi-valued (Multi) flavours with strict and
//   tolerant composition
// - A stable error model via Issues (code, message, lineage frames)
// - Per-execute Run state: a shared memo table and a branch-local lineage
//   stack, which together make cyclic shape references terminate
//
// Design policy:
// - Keep only public APIs in the root package; SHACL compilation lives under
//   shacl/, the term model under rdf/, vocabulary constants under vocab/.
// - Combinators that introduce a new result type are top-level generic
//   functions; type-preserving combinators are methods.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	shapes, err := shacl.Extract(shapeQuads)
//	lens, _ := shapes.Lens("http://example.org/Point")
//	rec, err := lens.Execute(rdflens.NewContainer(focus, dataQuads))
package rdflens

// Lens is a single-valued extractor: focus in, one value out, may fail.
// Lenses are values; the same lens may appear in multiple compositions and be
// invoked recursively. Identity is pointer identity.
type Lens[C, T any] struct {
	fn func(C, *Run) (T, error)
}

// Multi is a multi-valued extractor producing a finite ordered sequence.
// Tolerant combinators absorb its failures into an empty sequence; strict
// ones propagate them.
type Multi[C, T any] struct {
	fn func(C, *Run) ([]T, error)
}

// New wraps a function as a single-valued lens.
func New[C, T any](fn func(C, *Run) (T, error)) *Lens[C, T] {
	return &Lens[C, T]{fn: fn}
}

// NewMulti wraps a function as a multi-valued lens.
func NewMulti[C, T any](fn func(C, *Run) ([]T, error)) *Multi[C, T] {
	return &Multi[C, T]{fn: fn}
}

// Eval runs the lens against an existing run. Most callers want Execute;
// Eval exists for lens implementations composing other lenses.
func (l *Lens[C, T]) Eval(c C, r *Run) (T, error) {
	return l.fn(c, r)
}

// Eval runs the multi lens against an existing run.
func (m *Multi[C, T]) Eval(c C, r *Run) ([]T, error) {
	return m.fn(c, r)
}

// Execute runs the lens with a fresh Run.
func (l *Lens[C, T]) Execute(c C, opts ...ExecOption) (T, error) {
	return l.fn(c, NewRun(opts...))
}

// Execute runs the multi lens with a fresh Run.
func (m *Multi[C, T]) Execute(c C, opts ...ExecOption) ([]T, error) {
	return m.fn(c, NewRun(opts...))
}

// Named tags the lens with a lineage frame pushed on entry. Frames stay on
// the stack for descendant steps and are snapshotted into raised issues.
func (l *Lens[C, T]) Named(name string, opts map[string]any) *Lens[C, T] {
	return New(func(c C, r *Run) (T, error) {
		r.Push(Frame{Name: name, Opts: opts})
		return l.fn(c, r)
	})
}

// Named tags the multi lens with a lineage frame pushed on entry.
func (m *Multi[C, T]) Named(name string, opts map[string]any) *Multi[C, T] {
	return NewMulti(func(c C, r *Run) ([]T, error) {
		r.Push(Frame{Name: name, Opts: opts})
		return m.fn(c, r)
	})
}
