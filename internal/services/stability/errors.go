package stability

import (
	"errors"
	"fmt"
)

var (
	// ErrDomain matches any *DomainError via errors.Is.
	ErrDomain = errors.New("stability: domain error")
	// ErrInsufficientData matches any *InsufficientDataError via errors.Is.
	ErrInsufficientData = errors.New("stability: insufficient data")
)

// DomainError reports an input the numeric functions are not defined for,
// such as a zero price used as a divisor.
type DomainError struct {
	Op     string
	Index  int // -1 when the error is not tied to a position
	Value  float64
	Reason string
}

func (e *DomainError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s: %s (index=%d value=%v)", e.Op, e.Reason, e.Index, e.Value)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func (e *DomainError) Is(target error) bool { return target == ErrDomain }

// InsufficientDataError reports an observation sequence shorter than window+1.
type InsufficientDataError struct {
	Have int
	Need int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: have %d observations, need %d", e.Have, e.Need)
}

func (e *InsufficientDataError) Is(target error) bool { return target == ErrInsufficientData }

// DayError attaches the calendar day key to a failure.
type DayError struct {
	Date string
	Err  error
}

func (e *DayError) Error() string { return fmt.Sprintf("day %s: %v", e.Date, e.Err) }

func (e *DayError) Unwrap() error { return e.Err }

// WrapDay returns err wrapped in a DayError for date, or nil.
func WrapDay(date string, err error) error {
	if err == nil {
		return nil
	}
	var de *DayError
	if errors.As(err, &de) && de.Date == date {
		return err
	}
	return &DayError{Date: date, Err: err}
}
