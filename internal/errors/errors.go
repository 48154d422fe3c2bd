// Package errors defines the error kinds reported by the comic OCR pipeline.
//
// Every failure the pipeline narrates to the operator is a *PipelineError
// carrying an ErrorCode, the offending path and, for recognition failures,
// the index of the region of interest. Callers branch on the code with
// CodeOf or Is rather than on message text.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode enum for structured error handling
type ErrorCode string

const (
	// Per-file and per-region errors
	ErrorImageLoadFailed   ErrorCode = "IMAGE_LOAD_FAILED"
	ErrorInvalidDimensions ErrorCode = "INVALID_DIMENSIONS"
	ErrorRecognitionFailed ErrorCode = "RECOGNITION_FAILED"
	ErrorOutputWriteFailed ErrorCode = "OUTPUT_WRITE_FAILED"

	// Command-line errors
	ErrorUnsupportedArgument  ErrorCode = "UNSUPPORTED_ARGUMENT"
	ErrorMissingArgumentValue ErrorCode = "MISSING_ARGUMENT_VALUE"
)

// NoRegion marks a PipelineError that is not tied to a region of interest.
const NoRegion = -1

// PipelineError represents a structured pipeline error
type PipelineError struct {
	Code    ErrorCode
	Message string
	Path    string
	Region  int
	Cause   error
}

func (e *PipelineError) Error() string {
	where := ""
	switch {
	case e.Path != "" && e.Region != NoRegion:
		where = fmt.Sprintf(" [%s region %d]", e.Path, e.Region)
	case e.Path != "":
		where = fmt.Sprintf(" [%s]", e.Path)
	case e.Region != NoRegion:
		where = fmt.Sprintf(" [region %d]", e.Region)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s%s (caused by: %v)", e.Code, e.Message, where, e.Cause)
	}
	return fmt.Sprintf("%s: %s%s", e.Code, e.Message, where)
}

func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// Factory functions for common errors

func NewImageLoadError(path string, cause error) *PipelineError {
	return &PipelineError{
		Code:    ErrorImageLoadFailed,
		Message: "Image could not be loaded",
		Path:    path,
		Region:  NoRegion,
		Cause:   cause,
	}
}

func NewInvalidDimensionsError(width, height float64) *PipelineError {
	return &PipelineError{
		Code:    ErrorInvalidDimensions,
		Message: fmt.Sprintf("Invalid image dimensions %gx%g", width, height),
		Region:  NoRegion,
	}
}

func NewRecognitionError(region int, cause error) *PipelineError {
	return &PipelineError{
		Code:    ErrorRecognitionFailed,
		Message: "Failed to perform text recognition request",
		Region:  region,
		Cause:   cause,
	}
}

func NewOutputWriteError(path string, cause error) *PipelineError {
	return &PipelineError{
		Code:    ErrorOutputWriteFailed,
		Message: "Failed to write output file",
		Path:    path,
		Region:  NoRegion,
		Cause:   cause,
	}
}

func NewUnsupportedArgumentError(arg string) *PipelineError {
	return &PipelineError{
		Code:    ErrorUnsupportedArgument,
		Message: fmt.Sprintf("Unknown argument: %s", arg),
		Region:  NoRegion,
	}
}

func NewInvalidArgumentValueError(flag, value string) *PipelineError {
	return &PipelineError{
		Code:    ErrorUnsupportedArgument,
		Message: fmt.Sprintf("Invalid value %q for %s: expected a positive integer", value, flag),
		Region:  NoRegion,
	}
}

func NewMissingArgumentValueError(flag string) *PipelineError {
	return &PipelineError{
		Code:    ErrorMissingArgumentValue,
		Message: fmt.Sprintf("Missing value for %s", flag),
		Region:  NoRegion,
	}
}

// WithPath returns a copy of e attributed to path.
func (e *PipelineError) WithPath(path string) *PipelineError {
	cp := *e
	cp.Path = path
	return &cp
}

// CodeOf returns the code of the first PipelineError in err's chain, or ""
// when there is none.
func CodeOf(err error) ErrorCode {
	var pe *PipelineError
	if stderrors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

// Is reports whether err's chain holds a PipelineError with the given code.
func Is(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}
