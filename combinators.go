package rdflens

// Map applies a pure function to the lens result.
func Map[C, T, U any](l *Lens[C, T], f func(T) U) *Lens[C, U] {
	return New(func(c C, r *Run) (U, error) {
		t, err := l.Eval(c, r)
		if err != nil {
			var zero U
			return zero, err
		}
		return f(t), nil
	})
}

// Then composes sequentially: the result of l becomes the focus of n. Strict.
func Then[C, T, U any](l *Lens[C, T], n *Lens[T, U]) *Lens[C, U] {
	return New(func(c C, r *Run) (U, error) {
		t, err := l.Eval(c, r)
		if err != nil {
			var zero U
			return zero, err
		}
		return n.Eval(t, r)
	})
}

// And runs every lens on the same focus, left to right, collecting results.
// Any failure fails the whole.
func And[C, T any](ls ...*Lens[C, T]) *Lens[C, []T] {
	return New(func(c C, r *Run) ([]T, error) {
		out := make([]T, 0, len(ls))
		for _, l := range ls {
			t, err := l.Eval(c, r)
			if err != nil {
				return nil, err
			}
			out = append(out, t)
		}
		return out, nil
	})
}

// Or tries the receiver, then each alternative in order, returning the first
// success. Every attempt runs against a branched lineage so frames pushed by
// a failed alternative do not contaminate the taken one; the memo table stays
// shared. Fails with the collected errors when all alternatives fail.
func (l *Lens[C, T]) Or(alts ...*Lens[C, T]) *Lens[C, T] {
	all := append([]*Lens[C, T]{l}, alts...)
	return New(func(c C, r *Run) (T, error) {
		var collected Issues
		for _, cand := range all {
			br := r.Branch()
			t, err := cand.Eval(c, br)
			if err == nil {
				return t, nil
			}
			collected = AppendIssues(collected, issuesFromErr(br, err)...)
		}
		var zero T
		return zero, collected
	})
}

// OrM runs every alternative on the same focus and collects the successes,
// dropping failures.
func OrM[C, T any](ls ...*Lens[C, T]) *Multi[C, T] {
	return NewMulti(func(c C, r *Run) ([]T, error) {
		var out []T
		for _, l := range ls {
			t, err := l.Eval(c, r.Branch())
			if err != nil {
				continue
			}
			out = append(out, t)
		}
		return out, nil
	})
}

// AsMulti views a slice-valued single lens as a multi lens.
func AsMulti[C, T any](l *Lens[C, []T]) *Multi[C, T] {
	return NewMulti(func(c C, r *Run) ([]T, error) {
		return l.Eval(c, r)
	})
}

// One returns the first element, or def when the sequence is empty.
func (m *Multi[C, T]) One(def T) *Lens[C, T] {
	return New(func(c C, r *Run) (T, error) {
		ts, err := m.Eval(c, r)
		if err != nil {
			var zero T
			return zero, err
		}
		if len(ts) == 0 {
			return def, nil
		}
		return ts[0], nil
	})
}

// ExpectOne demands exactly one element and fails otherwise. This is the
// strict probe that makes malformed rdf lists and branching paths loud.
func (m *Multi[C, T]) ExpectOne() *Lens[C, T] {
	return New(func(c C, r *Run) (T, error) {
		ts, err := m.Eval(c, r)
		if err != nil {
			var zero T
			return zero, err
		}
		if len(ts) != 1 {
			var zero T
			return zero, Failf(r, CodeExpectedOne, "expected exactly one value, found %d", len(ts))
		}
		return ts[0], nil
	})
}

// ThenAll applies n to every element; any per-element failure propagates.
func ThenAll[C, T, U any](m *Multi[C, T], n *Lens[T, U]) *Multi[C, U] {
	return NewMulti(func(c C, r *Run) ([]U, error) {
		ts, err := m.Eval(c, r)
		if err != nil {
			return nil, err
		}
		out := make([]U, 0, len(ts))
		for _, t := range ts {
			u, err := n.Eval(t, r)
			if err != nil {
				return nil, err
			}
			out = append(out, u)
		}
		return out, nil
	})
}

// ThenSome applies n to every element, dropping elements that fail.
func ThenSome[C, T, U any](m *Multi[C, T], n *Lens[T, U]) *Multi[C, U] {
	return NewMulti(func(c C, r *Run) ([]U, error) {
		ts, err := m.Eval(c, r)
		if err != nil {
			return nil, err
		}
		var out []U
		for _, t := range ts {
			u, err := n.Eval(t, r.Branch())
			if err != nil {
				continue
			}
			out = append(out, u)
		}
		return out, nil
	})
}

// ThenFlat applies a multi lens to every element and concatenates. Elements
// whose expansion fails are absorbed as empty.
func ThenFlat[C, T, U any](m *Multi[C, T], n *Multi[T, U]) *Multi[C, U] {
	return NewMulti(func(c C, r *Run) ([]U, error) {
		ts, err := m.Eval(c, r)
		if err != nil {
			return nil, err
		}
		var out []U
		for _, t := range ts {
			us, err := n.Eval(t, r.Branch())
			if err != nil {
				continue
			}
			out = append(out, us...)
		}
		return out, nil
	})
}

// MapAll applies a pure function element-wise.
func MapAll[C, T, U any](m *Multi[C, T], f func(T) U) *Multi[C, U] {
	return NewMulti(func(c C, r *Run) ([]U, error) {
		ts, err := m.Eval(c, r)
		if err != nil {
			return nil, err
		}
		out := make([]U, 0, len(ts))
		for _, t := range ts {
			out = append(out, f(t))
		}
		return out, nil
	})
}

// OrAll concatenates the successes of the receiver and every alternative,
// dropping the ones that fail.
func (m *Multi[C, T]) OrAll(alts ...*Multi[C, T]) *Multi[C, T] {
	all := append([]*Multi[C, T]{m}, alts...)
	return NewMulti(func(c C, r *Run) ([]T, error) {
		var out []T
		for _, cand := range all {
			ts, err := cand.Eval(c, r.Branch())
			if err != nil {
				continue
			}
			out = append(out, ts...)
		}
		return out, nil
	})
}

// Filter keeps the elements for which p holds. The source's failure is
// absorbed into an empty sequence.
func (m *Multi[C, T]) Filter(p func(T) bool) *Multi[C, T] {
	return NewMulti(func(c C, r *Run) ([]T, error) {
		ts, err := m.Eval(c, r.Branch())
		if err != nil {
			return nil, nil
		}
		var out []T
		for _, t := range ts {
			if p(t) {
				out = append(out, t)
			}
		}
		return out, nil
	})
}

// Reduce left-folds the sequence with step, starting from the value produced
// by init on the original focus.
func Reduce[C, T, A any](m *Multi[C, T], step func(A, T) (A, error), init *Lens[C, A]) *Lens[C, A] {
	return New(func(c C, r *Run) (A, error) {
		acc, err := init.Eval(c, r)
		if err != nil {
			var zero A
			return zero, err
		}
		ts, err := m.Eval(c, r)
		if err != nil {
			var zero A
			return zero, err
		}
		for _, t := range ts {
			acc, err = step(acc, t)
			if err != nil {
				var zero A
				return zero, issuesFromErr(r, err)
			}
		}
		return acc, nil
	})
}
