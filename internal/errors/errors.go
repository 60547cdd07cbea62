// Package errors classifies solver failures for the HTTP shell: every error
// is mapped to a status code, a stable machine-readable code and a JSON body.
package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"

	"github.com/copyleftdev/rootfinder/internal/rootfind"
)

// Code identifies a class of failure in API responses.
type Code string

const (
	CodeInvalidExpression Code = "invalid_expression"
	CodeInvalidParameters Code = "invalid_parameters"
	CodeInvalidBracket    Code = "invalid_bracket"
	CodeEvaluation        Code = "evaluation_error"
	CodeZeroDerivative    Code = "zero_derivative"
	CodeZeroDenominator   Code = "zero_denominator"
	CodeBadRequest        Code = "bad_request"
	CodeNotFound          Code = "not_found"
	CodeTimeout           Code = "timeout"
	CodeInternal          Code = "internal"
)

// Error represents an error with an HTTP classification and context.
type Error struct {
	// The underlying error that was returned
	Err error
	// A human-readable message describing the error
	Message string
	// The operation that was being performed when the error occurred
	Operation string
	// The component or package where the error occurred
	Component string
	// Status is the HTTP status code for the response
	Status int
	// Code is the machine-readable class of the error
	Code Code
	// Iteration and Log come from a solve that failed mid-run
	Iteration int
	Log       rootfind.Log
	// The stack trace, captured for internal errors only
	Stack []string
}

// Error implements the error interface.
func (e *Error) Error() string {
	var builder strings.Builder

	if e.Message != "" {
		builder.WriteString(e.Message)
	}

	if e.Operation != "" {
		if builder.Len() > 0 {
			builder.WriteString(": ")
		}
		builder.WriteString("operation=")
		builder.WriteString(e.Operation)
	}

	if e.Component != "" {
		if builder.Len() > 0 {
			builder.WriteString(", ")
		}
		builder.WriteString("component=")
		builder.WriteString(e.Component)
	}

	if e.Err != nil && e.Err.Error() != e.Message {
		if builder.Len() > 0 {
			builder.WriteString(": ")
		}
		builder.WriteString(e.Err.Error())
	}

	return builder.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithOperation adds an operation to the error.
func (e *Error) WithOperation(op string) *Error {
	e.Operation = op
	return e
}

// WithComponent adds a component to the error.
func (e *Error) WithComponent(component string) *Error {
	e.Component = component
	return e
}

// New creates an error with an explicit classification.
func New(status int, code Code, msg string) *Error {
	return &Error{Status: status, Code: code, Message: msg}
}

// Errorf creates an error with an explicit classification and a formatted message.
func Errorf(status int, code Code, format string, args ...interface{}) *Error {
	return New(status, code, fmt.Sprintf(format, args...))
}

// BadRequest is a 400 for malformed or invalid requests.
func BadRequest(format string, args ...interface{}) *Error {
	return Errorf(http.StatusBadRequest, CodeBadRequest, format, args...)
}

// NotFound is a 404.
func NotFound(format string, args ...interface{}) *Error {
	return Errorf(http.StatusNotFound, CodeNotFound, format, args...)
}

// Classify maps err onto an *Error. Solver failures keep their message,
// failing iteration and partial log; anything unrecognised becomes a 500
// whose message does not leak internals.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var e *Error
	if stderrors.As(err, &e) {
		return e
	}

	e = &Error{Err: err, Message: err.Error()}
	switch {
	case stderrors.Is(err, rootfind.ErrInvalidExpression):
		e.Status, e.Code = http.StatusBadRequest, CodeInvalidExpression
	case stderrors.Is(err, rootfind.ErrInvalidParameters):
		e.Status, e.Code = http.StatusBadRequest, CodeInvalidParameters
	case stderrors.Is(err, rootfind.ErrInvalidBracket):
		e.Status, e.Code = http.StatusBadRequest, CodeInvalidBracket
	case stderrors.Is(err, rootfind.ErrEvaluation):
		e.Status, e.Code = http.StatusUnprocessableEntity, CodeEvaluation
	case stderrors.Is(err, rootfind.ErrZeroDerivative):
		e.Status, e.Code = http.StatusUnprocessableEntity, CodeZeroDerivative
	case stderrors.Is(err, rootfind.ErrZeroDenominator):
		e.Status, e.Code = http.StatusUnprocessableEntity, CodeZeroDenominator
	case stderrors.Is(err, context.DeadlineExceeded), stderrors.Is(err, context.Canceled):
		e.Status, e.Code = http.StatusServiceUnavailable, CodeTimeout
		e.Message = "solve timed out"
	default:
		e.Status, e.Code = http.StatusInternalServerError, CodeInternal
		e.Message = http.StatusText(http.StatusInternalServerError)
		e.Stack = getStackTrace()
	}

	if solveErr, ok := rootfind.AsError(err); ok {
		e.Iteration = solveErr.Iteration
		e.Log = solveErr.Log
	}
	return e
}

// Payload is the "error" member of an error response.
type Payload struct {
	Code      Code         `json:"code"`
	Message   string       `json:"message"`
	Iteration int          `json:"iteration,omitempty"`
	Log       rootfind.Log `json:"log,omitempty"`
}

// Payload returns the client-facing view of e.
func (e *Error) Payload() Payload {
	return Payload{Code: e.Code, Message: e.Message, Iteration: e.Iteration, Log: e.Log}
}

// Render classifies err and writes it as a JSON error response. The
// classified error is returned for logging.
func Render(w http.ResponseWriter, err error) *Error {
	e := Classify(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.Status)
	_ = json.NewEncoder(w).Encode(struct {
		Error Payload `json:"error"`
	}{e.Payload()})
	return e
}

// getStackTrace returns the current stack trace as a slice of strings.
func getStackTrace() []string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:]) // Skip runtime.Callers, getStackTrace, and the constructor
	if n == 0 {
		return nil
	}

	frames := runtime.CallersFrames(pcs[:n])
	stack := make([]string, 0, n)

	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") && !strings.Contains(frame.File, "internal/errors") {
			stack = append(stack, fmt.Sprintf("%s\n\t%s:%d", frame.Function, frame.File, frame.Line))
		}
		if !more {
			break
		}
	}

	return stack
}
