// Package dualwrite models the two-store write sequence used by every
// entity-creation path: write the document store first, then the relational
// mirror, and if the mirror write fails, delete the document again. It is a
// best-effort saga with a single compensating action, not a transaction —
// readers can observe the window between the two writes.
package dualwrite

import "context"

// Step is one store write plus the action that undoes it.
type Step struct {
	Name       string
	Do         func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// Saga runs steps in order. When a step fails, the compensations of every
// previously completed step run in reverse order and the step's error is
// returned. A failing first step has nothing to compensate.
type Saga struct {
	steps []Step
}

func New() *Saga { return &Saga{} }

func (s *Saga) Then(step Step) *Saga {
	s.steps = append(s.steps, step)
	return s
}

// Run executes the saga. Compensation errors are ignored: the original
// failure is what the caller reports, and a failed undo leaves the stores
// divergent until an operator reconciles them.
func (s *Saga) Run(ctx context.Context) error {
	done := make([]Step, 0, len(s.steps))
	for _, step := range s.steps {
		if err := step.Do(ctx); err != nil {
			for i := len(done) - 1; i >= 0; i-- {
				if done[i].Compensate != nil {
					_ = done[i].Compensate(ctx)
				}
			}
			return err
		}
		done = append(done, step)
	}
	return nil
}
