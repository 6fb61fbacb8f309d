// Package operations runs multi-step workflows, reporting each step as it
// starts so long builds stay observable.
package operations

import (
	"context"
	"fmt"
)

// Operation is a single named step of a workflow.
type Operation interface {
	Name() string
	Execute(ctx context.Context) error
}

// Step adapts a function into an Operation.
type Step struct {
	Label string
	Fn    func(ctx context.Context) error
}

// Name returns the step label.
func (s Step) Name() string { return s.Label }

// Execute runs the step function.
func (s Step) Execute(ctx context.Context) error { return s.Fn(ctx) }

// Wrapper decorates the execution of one operation, e.g. with a spinner.
type Wrapper func(ctx context.Context, name string, run func() error) error

// Sequence executes operations in order and stops at the first failure.
type Sequence struct {
	Ops []Operation

	// Wrap, when set, surrounds every operation.
	Wrap Wrapper
}

// NewSequence returns a sequence of ops.
func NewSequence(ops ...Operation) *Sequence {
	return &Sequence{Ops: ops}
}

// Add appends operations to the sequence.
func (s *Sequence) Add(ops ...Operation) *Sequence {
	s.Ops = append(s.Ops, ops...)
	return s
}

// AddFunc appends a function step.
func (s *Sequence) AddFunc(label string, fn func(ctx context.Context) error) *Sequence {
	return s.Add(Step{Label: label, Fn: fn})
}

// Execute runs every operation. The returned error names the failed step.
func (s *Sequence) Execute(ctx context.Context) error {
	for _, op := range s.Ops {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		run := func() error { return op.Execute(ctx) }
		var err error
		if s.Wrap != nil {
			err = s.Wrap(ctx, op.Name(), run)
		} else {
			err = run()
		}
		if err != nil {
			return &StepError{Step: op.Name(), Err: err}
		}
	}
	return nil
}

// StepError reports the operation a sequence stopped at.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
