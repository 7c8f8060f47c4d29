package model

import (
	"errors"
	"fmt"
)

// Sentinel kinds for pipeline errors. Typed errors below match them via errors.Is.
var (
	ErrDataFormat     = errors.New("data format error")
	ErrMissingManager = errors.New("missing manager")
	ErrEmptyHistory   = errors.New("empty history")
	ErrNoManagers     = errors.New("no managers")
)

// DataFormatError reports a source that does not deserialize into the
// expected snapshot shape.
type DataFormatError struct {
	Source string
	Reason string
	Err    error
}

func (e *DataFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Source, e.Reason)
}

func (e *DataFormatError) Unwrap() error { return e.Err }

func (e *DataFormatError) Is(target error) bool { return target == ErrDataFormat }

// MissingManagerError reports a manager with weekly data but no captain-points entry.
type MissingManagerError struct {
	Manager string
}

func (e *MissingManagerError) Error() string {
	return fmt.Sprintf("no captain points for manager %q", e.Manager)
}

func (e *MissingManagerError) Is(target error) bool { return target == ErrMissingManager }

// EmptyHistoryError reports a manager without any recorded gameweek points.
type EmptyHistoryError struct {
	Manager string
}

func (e *EmptyHistoryError) Error() string {
	return fmt.Sprintf("manager %q has no recorded gameweeks", e.Manager)
}

func (e *EmptyHistoryError) Is(target error) bool { return target == ErrEmptyHistory }
