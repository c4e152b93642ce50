/*
errors.go - Centralized error types for the engine

PURPOSE:
  All engine failure modes in one place. The policy throughout the engine is
  degradation over abortion: configuration errors skip a rule, lock
  violations reject a single mutation, and only persistence failures
  propagate to the caller.

USAGE:
  if errors.Is(err, engine.ErrTaskLocked) {
      // expected UI race, surface as a no-op
  }
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrEntityNotFound is returned when a referenced entity doesn't exist.
	ErrEntityNotFound = errors.New("entity not found")

	// ErrTaskNotFound is returned when a referenced task doesn't exist.
	ErrTaskNotFound = errors.New("task not found")

	// ErrTaskLocked is returned when a caller tries to complete a task whose
	// reporting period has not opened. This is an expected UI race, not a
	// program error; callers surface it as a no-op.
	ErrTaskLocked = errors.New("task is locked until its reporting period opens")

	// ErrNotManual is returned when a series mutation targets an automatic
	// task. Automatic tasks are managed exclusively by regeneration.
	ErrNotManual = errors.New("task is managed automatically")

	// ErrInvalidDate is returned when date arithmetic receives malformed
	// input. The generator excludes tasks it cannot date rather than emit
	// garbage dates.
	ErrInvalidDate = errors.New("invalid date")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// RuleConfigError reports a rule whose date recipe is missing fields its
// cadence requires. Generation logs it and skips the rule.
type RuleConfigError struct {
	RuleID RuleID
	Reason string
}

func (e *RuleConfigError) Error() string {
	return fmt.Sprintf("rule %s misconfigured: %s", e.RuleID, e.Reason)
}

// LockViolationError carries the task a rejected completion targeted.
type LockViolationError struct {
	TaskID TaskID
}

func (e *LockViolationError) Error() string {
	return fmt.Sprintf("task %s is locked", e.TaskID)
}

func (e *LockViolationError) Unwrap() error { return ErrTaskLocked }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to caller input rather
// than an engine fault.
func IsClientError(err error) bool {
	return errors.Is(err, ErrTaskLocked) ||
		errors.Is(err, ErrNotManual) ||
		errors.Is(err, ErrInvalidDate)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEntityNotFound) ||
		errors.Is(err, ErrTaskNotFound)
}
