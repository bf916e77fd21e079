// Package step runs a controller operation as an ordered list of steps with
// explicitly registered compensations. Every mutating operation in the system
// follows the same shape: validate, resolve dependencies, commit, notify.
// Any of those can fail after an earlier step already wrote something
// durable, so a step that commits a side effect registers a compensation and
// the runner unwinds committed steps when a later one fails.
package step

import (
	"github.com/dailymd-dev/dailymd/internal/logger"
)

// Step is one unit of an ordered operation sequence. Run returns nil to pass
// control to the next step, or a terminal error (classified via
// errors.ErrorWithStatusCode) that abandons the rest of the sequence.
// Steps share accumulated state through closures in the calling service
// method. There is no cancellation: a hung storage or mail call stalls the
// operation, and callers impose their own request-level timeouts.
type Step struct {
	Name string
	Run  func(op *Op) error
}

// Op tracks the compensations registered by completed steps of a single
// operation. It is created per Run call and discarded afterwards.
type Op struct {
	name  string
	comps []compensation
}

type compensation struct {
	name string
	run  func() error
}

// Compensate registers a reversing action for a side effect the current step
// just committed. Compensations run in reverse registration order, and only
// when a later step fails.
func (op *Op) Compensate(name string, fn func() error) {
	op.comps = append(op.comps, compensation{name, fn})
}

// Run executes steps strictly in order. On the first step error it invokes
// the registered compensations (reverse order, failures logged and
// swallowed) and returns the step's error verbatim. On success all
// compensations are discarded. Run itself never fails and never
// reclassifies step errors.
func Run(opName string, steps []Step) error {
	op := &Op{name: opName}
	for _, st := range steps {
		if err := st.Run(op); err != nil {
			op.rollback(st.Name, err)
			return err
		}
	}
	return nil
}

func (op *Op) rollback(failedStep string, cause error) {
	if len(op.comps) > 0 {
		logger.Log.Warn("operation failed, compensating",
			"op", op.name,
			"failed_step", failedStep,
			"compensations", len(op.comps),
			"error", cause)
	}
	for i := len(op.comps) - 1; i >= 0; i-- {
		c := op.comps[i]
		if err := c.run(); err != nil {
			// A failed compensation leaves the partial write in place;
			// log enough context for manual reconciliation.
			logger.Log.Error("compensation failed",
				"op", op.name,
				"compensation", c.name,
				"error", err)
		}
	}
}
