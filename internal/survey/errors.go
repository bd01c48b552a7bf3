package survey

import (
	"errors"
	"fmt"
)

var (
	// ErrDataSourceUnavailable means the snapshot could not be fetched; no view runs.
	ErrDataSourceUnavailable = errors.New("data source unavailable")
	// ErrConfigurationMissing means a required constant (sites, code maps, threshold) is absent.
	ErrConfigurationMissing = errors.New("configuration missing")
	// ErrViewFailed marks a single view that could not be computed.
	ErrViewFailed = errors.New("view computation failed")
)

// PipelineError carries a stable code alongside the wrapped cause.
type PipelineError struct {
	Code    string
	Message string
	Err     error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// NewDataSourceError wraps a loader failure.
func NewDataSourceError(source string, err error) error {
	return &PipelineError{
		Code:    "DATA_SOURCE_UNAVAILABLE",
		Message: fmt.Sprintf("loading snapshot from %s", source),
		Err:     fmt.Errorf("%w: %w", ErrDataSourceUnavailable, err),
	}
}

// NewConfigurationError reports an absent configuration constant.
func NewConfigurationError(field string) error {
	return &PipelineError{
		Code:    "CONFIGURATION_MISSING",
		Message: fmt.Sprintf("%s is required", field),
		Err:     ErrConfigurationMissing,
	}
}

// NewViewError wraps the failure of one view.
func NewViewError(view string, err error) error {
	return &PipelineError{
		Code:    "VIEW_FAILED",
		Message: fmt.Sprintf("computing %s", view),
		Err:     fmt.Errorf("%w: %w", ErrViewFailed, err),
	}
}

func IsDataSourceUnavailable(err error) bool {
	return errors.Is(err, ErrDataSourceUnavailable)
}

func IsConfigurationMissing(err error) bool {
	return errors.Is(err, ErrConfigurationMissing)
}

func IsViewFailed(err error) bool {
	return errors.Is(err, ErrViewFailed)
}
