package builder

import (
	"fmt"
	"time"
)

// Kind identifies which expectation a response violated.
type Kind string

const (
	KindStatus Kind = "status"
	KindTime   Kind = "time"
)

const (
	msgStatus = "Error response status code!"
	msgTime   = "Too long response time!"
)

// Expectations are the post-response conditions recorded on a Builder.
// A nil field means the condition was never requested.
type Expectations struct {
	Status *int

	// Deadline is fixed when Time is called, not when the request is sent.
	Deadline *time.Time
}

// ExpectationError reports a response that did not meet an expectation.
// For KindStatus, Expected and Actual hold status codes; for KindTime they
// hold the deadline and the time the response was checked.
type ExpectationError struct {
	Kind     Kind
	Expected any
	Actual   any
}

// Error returns the assertion message for the violated expectation.
func (e *ExpectationError) Error() string {
	if e.Kind == KindTime {
		return msgTime
	}
	return msgStatus
}

// Detail describes the expected and actual values.
func (e *ExpectationError) Detail() string {
	if deadline, ok := e.Expected.(time.Time); ok {
		checked, _ := e.Actual.(time.Time)
		return fmt.Sprintf("deadline %s, checked at %s, over by %s",
			deadline.Format(time.RFC3339Nano), checked.Format(time.RFC3339Nano), checked.Sub(deadline))
	}
	return fmt.Sprintf("expected %v, got %v", e.Expected, e.Actual)
}

// check runs the status check, then the deadline check.
func (x Expectations) check(statusCode int, now time.Time) error {
	if x.Status != nil && statusCode != *x.Status {
		return &ExpectationError{Kind: KindStatus, Expected: *x.Status, Actual: statusCode}
	}
	if x.Deadline != nil && now.After(*x.Deadline) {
		return &ExpectationError{Kind: KindTime, Expected: *x.Deadline, Actual: now}
	}
	return nil
}
