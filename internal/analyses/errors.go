package analyses

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

const (
	ErrorCodeValidation  = "validation_error"
	ErrorCodeFetchFailed = "fetch_failed"
	ErrorCodeUpstream    = "upstream_error"
	ErrorCodeInternal    = "internal_error"
)

// StageError marks a failure of one collaborator step of an analysis.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

func stageErr(stage string, err error) error {
	return &StageError{Stage: stage, Err: err}
}
