// Package errors provides the structured error type used across chooser.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"runtime"
	"sort"
	"strings"
)

// ErrorCode is a stable, machine readable error category.
type ErrorCode string

const (
	ErrCodeConfigLoad    ErrorCode = "CONFIG_LOAD"
	ErrCodeConfigParse   ErrorCode = "CONFIG_PARSE"
	ErrCodeConfigInvalid ErrorCode = "CONFIG_INVALID"

	ErrCodeDirectoryNotFound ErrorCode = "DIRECTORY_NOT_FOUND"
	ErrCodeDirectoryRead     ErrorCode = "DIRECTORY_READ"
	ErrCodeNotDirectory      ErrorCode = "NOT_DIRECTORY"

	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeInternal     ErrorCode = "INTERNAL"
)

// Error is a coded error with optional context and remediation.
type Error struct {
	Code        ErrorCode
	Message     string
	Underlying  error
	Context     map[string]any
	Caller      string
	UserMessage string
	Remediation []string
}

// New creates a coded error.
func New(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message, Caller: caller(2)}
}

// Newf is New with a formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Caller: caller(2)}
}

// Wrap attaches a code and message to err. A nil err stays nil.
func Wrap(err error, code ErrorCode, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Underlying: err, Caller: caller(2)}
}

// WithContext adds a key-value pair shown in Error().
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// WithUserMessage sets the text shown to end users.
func (e *Error) WithUserMessage(message string) *Error {
	e.UserMessage = message
	return e
}

// WithRemediation replaces the remediation tips.
func (e *Error) WithRemediation(tips ...string) *Error {
	if len(tips) == 0 {
		return e
	}
	e.Remediation = append([]string{}, tips...)
	return e
}

// Error renders "[CODE] message {k: v, ...}: underlying" with context
// keys in sorted order.
func (e *Error) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s", e.Code, e.Message)

	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteString(" {")
		for i, k := range keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%s: %v", k, e.Context[k])
		}
		sb.WriteString("}")
	}

	if e.Underlying != nil {
		fmt.Fprintf(&sb, ": %v", e.Underlying)
	}
	return sb.String()
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Underlying
}

// Friendly returns UserMessage when set, otherwise Message.
func (e *Error) Friendly() string {
	if e.UserMessage != "" {
		return e.UserMessage
	}
	return e.Message
}

func caller(skip int) string {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return ""
	}
	name := ""
	if fn := runtime.FuncForPC(pc); fn != nil {
		name = fn.Name()
	}
	return fmt.Sprintf("%s (%s:%d)", name, file, line)
}

// As finds the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsCode reports whether err's chain carries code.
func IsCode(err error, code ErrorCode) bool {
	e, ok := As(err)
	return ok && e.Code == code
}

// GetCode extracts the code from err. Uncoded errors are INTERNAL.
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}
	if e, ok := As(err); ok {
		return e.Code
	}
	return ErrCodeInternal
}

// HTTPStatus maps a code to the status the browse API responds with.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeDirectoryNotFound:
		return http.StatusNotFound
	case ErrCodeInvalidInput, ErrCodeNotDirectory:
		return http.StatusBadRequest
	case ErrCodeDirectoryRead:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
