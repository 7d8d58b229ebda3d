// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// Error is the benchmark harness error type. It carries an error code for
// taxonomy checks, a human-readable message, the wrapped inner error and the
// stack captured at construction time.
type Error struct {
	Stack      []runtime.Frame
	InnerError error
	Code       int
	Message    string
}

func (e *Error) Error() string {
	if e.InnerError == nil {
		return fmt.Sprintf("code %d message %s", e.Code, e.Message)
	}
	return fmt.Sprintf("code %d message %s: %s", e.Code, e.Message, e.InnerError.Error())
}

func (e *Error) Unwrap() error {
	return e.InnerError
}

// GetStackString returns the captured stack as one frame per line, with
// package path prefixes stripped from function names.
func (e *Error) GetStackString() string {
	result := ""
	for _, frame := range e.Stack {
		funcName := ""
		if frame.Func != nil {
			funcName = frame.Func.Name()
		}
		funcNames := strings.Split(funcName, "/")
		if len(funcNames) > 0 {
			funcName = funcNames[len(funcNames)-1]
		}
		result = fmt.Sprintf("%s%s:%d %s\n", result, frame.File, frame.Line, funcName)
	}
	return result
}

// WithCode sets the error code and returns the Error instance for chaining.
func (e *Error) WithCode(code int) *Error {
	e.Code = code
	return e
}

// WithMessage sets the error message and returns the Error instance for chaining.
func (e *Error) WithMessage(message string, args ...interface{}) *Error {
	if len(args) == 0 {
		e.Message = message
	} else {
		e.Message = fmt.Sprintf(message, args...)
	}
	return e
}

// WithError sets the inner error and returns the Error instance for chaining.
func (e *Error) WithError(err error) *Error {
	e.InnerError = err
	return e
}

func NewError() *Error {
	return newError(2)
}

// WrapError wraps err with a message and code in a single call.
func WrapError(err error, message string, code int) *Error {
	return newError(2).WithCode(code).WithMessage(message).WithError(err)
}

func newError(callerSkip int) *Error {
	return &Error{
		Stack: callers(callerSkip),
	}
}

// IsCode reports whether err (or any error it wraps) carries the given code.
func IsCode(err error, code int) bool {
	for err != nil {
		var e *Error
		if errors.As(err, &e) {
			if e.Code == code {
				return true
			}
			err = e.InnerError
			continue
		}
		return false
	}
	return false
}

func callers(callerSkip int) []runtime.Frame {
	rpc := make([]uintptr, 10)
	result := []runtime.Frame{}
	n := runtime.Callers(callerSkip+2, rpc)
	if n < 1 {
		return result
	}
	frames := runtime.CallersFrames(rpc)
	if frames == nil {
		return result
	}
	for frame, more := frames.Next(); more; {
		result = append(result, frame)
		frame, more = frames.Next()
	}
	return result
}
