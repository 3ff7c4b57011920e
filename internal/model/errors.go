package model

import (
	"fmt"
	"time"
)

// DomainError reports malformed or degenerate input to a single computation,
// such as a zero previous volume or a non-positive equity curve start. It is
// raised at the point of detection and never coerced to NaN.
type DomainError struct {
	Date   time.Time // offending bar, zero when not tied to one
	Reason string
}

func (e *DomainError) Error() string {
	if e.Date.IsZero() {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Date.Format("2006-01-02"), e.Reason)
}

// InsufficientDataError reports a series shorter than the minimum history the
// requested computation needs. Recoverable by supplying more history, which is
// why it is distinct from DomainError.
type InsufficientDataError struct {
	Needed int
	Got    int
	Unit   string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: need at least %d %s, got %d", e.Needed, e.Unit, e.Got)
}
