package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors wrapped by AppError values.
var (
	ErrEmptyInput       = errors.New("input is empty or contains only whitespace")
	ErrInvalidJSON      = errors.New("invalid JSON format")
	ErrMultipleJSON     = errors.New("multiple JSON values found at the root, only one is allowed")
	ErrMaxDepth         = errors.New("JSON nesting exceeds the maximum depth")
	ErrFileNotFound     = errors.New("file not found")
	ErrFileEmpty        = errors.New("file is empty")
	ErrNoInput          = errors.New("no input provided: please specify a file with -i, a URL with -u, or pipe JSON data to stdin")
	ErrInvalidFilePath  = errors.New("invalid file path")
	ErrInvalidURL       = errors.New("invalid URL")
	ErrResponseTooLarge = errors.New("response body exceeds the size limit")
	ErrInvalidArgument  = errors.New("invalid argument")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInput           ErrorType = "input"
	ErrorTypeParsing         ErrorType = "parsing"
	ErrorTypeAnalysis        ErrorType = "analysis"
	ErrorTypeGenerate        ErrorType = "generate"
	ErrorTypeFormat          ErrorType = "format"
	ErrorTypeOutput          ErrorType = "output"
	ErrorTypeConfig          ErrorType = "config"
	ErrorTypeInvalidArgument ErrorType = "invalid argument"
	ErrorTypeUnknown         ErrorType = "unknown"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *AppError of the same Type.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

func newError(t ErrorType, message string, err error) *AppError {
	return &AppError{Type: t, Message: message, Err: err}
}

// NewInputError creates a new error related to input processing
func NewInputError(message string, err error) *AppError {
	return newError(ErrorTypeInput, message, err)
}

// NewParsingError creates a new error related to JSON parsing
func NewParsingError(message string, err error) *AppError {
	return newError(ErrorTypeParsing, message, err)
}

// NewAnalysisError creates a new error related to schema inference
func NewAnalysisError(message string, err error) *AppError {
	return newError(ErrorTypeAnalysis, message, err)
}

// NewGenerateError creates a new error related to code generation
func NewGenerateError(message string, err error) *AppError {
	return newError(ErrorTypeGenerate, message, err)
}

// NewFormatError creates a new error related to rendering generated code
func NewFormatError(message string, err error) *AppError {
	return newError(ErrorTypeFormat, message, err)
}

// NewOutputError creates a new error related to output processing
func NewOutputError(message string, err error) *AppError {
	return newError(ErrorTypeOutput, message, err)
}

// NewConfigError creates a new error related to loading configuration
func NewConfigError(message string, err error) *AppError {
	return newError(ErrorTypeConfig, message, err)
}

// NewInvalidArgumentError reports a value the core cannot work with, such as
// an empty identifier or a JSON root that is not an object. The returned
// error matches ErrInvalidArgument under errors.Is.
func NewInvalidArgumentError(message string) *AppError {
	return newError(ErrorTypeInvalidArgument, message, ErrInvalidArgument)
}

// IsInvalidArgument reports whether err, or anything it wraps, is an
// invalid argument error.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", appErr.Message)
		case ErrorTypeParsing:
			return fmt.Sprintf("JSON parsing error: %s", appErr.Message)
		case ErrorTypeAnalysis:
			return fmt.Sprintf("Schema inference error: %s", detail(appErr))
		case ErrorTypeGenerate:
			return fmt.Sprintf("Code generation error: %s", detail(appErr))
		case ErrorTypeFormat:
			return fmt.Sprintf("Code formatting error: %s", appErr.Message)
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", appErr.Message)
		case ErrorTypeConfig:
			return fmt.Sprintf("Configuration error: %s", detail(appErr))
		case ErrorTypeInvalidArgument:
			return fmt.Sprintf("Invalid argument: %s", appErr.Message)
		default:
			return fmt.Sprintf("Error: %s", appErr.Message)
		}
	}

	switch {
	case errors.Is(err, ErrEmptyInput):
		return "Error: The input is empty. Please provide valid JSON data."
	case errors.Is(err, ErrInvalidJSON):
		return "Error: The input contains invalid JSON. Please check your JSON syntax."
	case errors.Is(err, ErrMultipleJSON):
		return "Error: Multiple JSON values found. Please provide a single JSON object or array."
	case errors.Is(err, ErrMaxDepth):
		return "Error: The JSON input is nested too deeply."
	case errors.Is(err, ErrFileNotFound):
		return "Error: The specified file could not be found. Please check the file path."
	case errors.Is(err, ErrFileEmpty):
		return "Error: The specified file is empty. Please provide a file with valid JSON content."
	case errors.Is(err, ErrNoInput):
		return "Error: No input provided. Please specify a file with -i, a URL with -u, or pipe JSON data to stdin."
	case errors.Is(err, ErrInvalidFilePath):
		return "Error: Invalid file path. Please provide a valid file path."
	case errors.Is(err, ErrInvalidURL):
		return "Error: Invalid URL. Only http and https URLs are supported."
	case errors.Is(err, ErrResponseTooLarge):
		return "Error: The response is too large. Please save it to a file and use -i."
	}

	return fmt.Sprintf("Error: %v", err)
}

// detail appends the message of a wrapped invalid argument error, which is
// usually the part a user can act on.
func detail(appErr *AppError) string {
	var inner *AppError
	if errors.As(appErr.Err, &inner) && inner.Type == ErrorTypeInvalidArgument {
		return fmt.Sprintf("%s: %s", appErr.Message, inner.Message)
	}
	return appErr.Message
}
