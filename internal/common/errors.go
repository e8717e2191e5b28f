package common

import (
	"errors"
	"fmt"
)

// Error codes grouped by the pipeline stage that raises them. The run state
// records failures as plain strings, so a stable code prefix is what makes a
// failure traceable back to its origin in logs and stored reports.
const (
	CodeConfig = "CONFIG_ERROR"
	CodeLoad   = "LOAD_ERROR"
	CodeVision = "VISION_ERROR"
	CodeReport = "REPORT_ERROR"
)

// ErrInvalidInput marks errors caused by bad caller-supplied values, as
// opposed to environment or capability failures.
var ErrInvalidInput = errors.New("invalid input")

// AppError pairs a stable code with a human-readable message and optional
// cause. It satisfies errors.Is/As chains through Unwrap.
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func NewAppError(code, message string, cause error) *AppError {
	return &AppError{Code: code, Message: message, Cause: cause}
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
}

func (e *AppError) Unwrap() error { return e.Cause }
