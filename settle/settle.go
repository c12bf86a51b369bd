// Package settle runs independent jobs concurrently and keeps every outcome.
//
// Unlike errgroup.Group.Wait, a failing job never cancels or hides its
// siblings: each input yields exactly one Outcome tagged with the input's ID.
package settle

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Outcome is the result of one job.
type Outcome[R any] struct {
	ID    string
	Value R
	Err   error
}

// OK reports whether the job succeeded.
func (o Outcome[R]) OK() bool { return o.Err == nil }

// All runs fn for every item with at most limit jobs in flight (limit <= 0
// means unbounded) and returns outcomes in input order. A panicking job is
// reported as a failed outcome.
func All[T, R any](ctx context.Context, items []T, id func(T) string, fn func(context.Context, T) (R, error), limit int) []Outcome[R] {
	out := make([]Outcome[R], len(items))
	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, item := range items {
		out[i].ID = id(item)
		g.Go(func() error {
			defer func() {
				if p := recover(); p != nil {
					out[i].Err = fmt.Errorf("settle: %s: panic: %v", out[i].ID, p)
				}
			}()
			if err := ctx.Err(); err != nil {
				out[i].Err = err
				return nil
			}
			out[i].Value, out[i].Err = fn(ctx, item)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// Values returns the values of successful outcomes, in order.
func Values[R any](outcomes []Outcome[R]) []R {
	vals := make([]R, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Err == nil {
			vals = append(vals, o.Value)
		}
	}
	return vals
}

// Failures returns the failed outcomes, in order.
func Failures[R any](outcomes []Outcome[R]) []Outcome[R] {
	var failed []Outcome[R]
	for _, o := range outcomes {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}
