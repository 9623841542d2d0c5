package rdflens

import "go.uber.org/zap"

// Run carries the per-execute state threaded through every lens: a memo table
// shared by the whole run and a lineage stack of named-lens frames. A Run is
// created per top-level Execute call and never reused across calls.
type Run struct {
	lineage []Frame
	memo    map[any]any
	tracer  *zap.Logger
}

// ExecOption configures a single Execute call.
type ExecOption func(*execOpt)

type execOpt struct {
	tracer *zap.Logger
}

// WithTracer attaches a zap logger; every named lens entry and every issue
// raised through Failf is logged at Debug level with its lineage.
func WithTracer(l *zap.Logger) ExecOption {
	return func(o *execOpt) { o.tracer = l }
}

// NewRun allocates fresh per-execute state. Lenses compiled once may be
// executed concurrently as long as each execution gets its own Run.
func NewRun(opts ...ExecOption) *Run {
	var o execOpt
	for _, fn := range opts {
		fn(&o)
	}
	return &Run{memo: map[any]any{}, tracer: o.tracer}
}

// Branch clones the lineage stack while sharing the memo table. Tolerant
// branch points evaluate each alternative against a branch so frames pushed
// by a failed alternative do not leak into the taken one.
func (r *Run) Branch() *Run {
	lin := make([]Frame, len(r.lineage))
	copy(lin, r.lineage)
	return &Run{lineage: lin, memo: r.memo, tracer: r.tracer}
}

// Push records a lineage frame. Frames are not popped; descendants of the
// named lens inherit them and errors snapshot them.
func (r *Run) Push(f Frame) {
	r.lineage = append(r.lineage, f)
	if r.tracer != nil {
		r.tracer.Debug("lens step",
			zap.String("name", f.Name),
			zap.String("lineage", renderLineage(r.lineage)))
	}
}

// Lineage returns a copy of the current frame stack.
func (r *Run) Lineage() []Frame {
	out := make([]Frame, len(r.lineage))
	copy(out, r.lineage)
	return out
}

// Memo exposes the run-scoped memo table. Keys are lens identities (pointer
// values); the table is shared across branches of the same run.
func (r *Run) Memo() map[any]any { return r.memo }

func (r *Run) trace(code, msg string) {
	if r.tracer != nil {
		r.tracer.Debug("lens issue",
			zap.String("code", code),
			zap.String("message", msg),
			zap.String("lineage", renderLineage(r.lineage)))
	}
}
