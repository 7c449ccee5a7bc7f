// Sophrosyne
//   Copyright (C) 2024  Mads R. Havmand
//
// This program is free software: you can redistribute it and/or modify
//   it under the terms of the GNU Affero General Public License as published by
//   the Free Software Foundation, either version 3 of the License, or
//   (at your option) any later version.
//
//   This program is distributed in the hope that it will be useful,
//   but WITHOUT ANY WARRANTY; without even the implied warranty of
//   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
//   GNU Affero General Public License for more details.
//
//   You should have received a copy of the GNU Affero General Public License
//   along with this program.  If not, see <http://www.gnu.org/licenses/>.

package jrpc

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
)

// Sentinel errors for handler-registration failures. Registration errors
// are programmer bugs: they fail the Add/AddWithCtx call eagerly and never
// reach the wire. Match with [errors.Is].
var (
	// ErrInvalidMethodName reports a registration under an empty method
	// name or one using the reserved "rpc." prefix.
	ErrInvalidMethodName = errors.New("method name is invalid")
	// ErrHandlerNotFunction reports a registration whose handler is not a
	// function value.
	ErrHandlerNotFunction = errors.New("handler must be a function")
	// ErrHandlerTooManyParams reports a handler exceeding the business
	// parameter arity cap.
	ErrHandlerTooManyParams = errors.New("handler exceeds the business parameter arity cap")
	// ErrHandlerInvalidParameterType reports a handler parameter type
	// outside the accepted set.
	ErrHandlerInvalidParameterType = errors.New("handler parameter type is not supported")
	// ErrHandlerInvalidReturnType reports a handler return shape outside
	// the accepted set.
	ErrHandlerInvalidReturnType = errors.New("handler return type is not supported")
)

type UnreachableCodeError struct {
	stack []byte
}

func NewUnreachableCodeError() error {
	stack := debug.Stack()
	return &UnreachableCodeError{
		stack: stack,
	}
}

func (e UnreachableCodeError) Error() string {
	return fmt.Sprintf("unreachable code encountered - this is a bug.\nStack:\n%s", e.stack)
}

func (e UnreachableCodeError) LogValue() slog.Value {
	return slog.GroupValue(slog.String("stack", string(e.stack)))
}

type PanicError struct {
	reason string
	stack  []byte
}

// NewPanicError captures the value recovered from a panic together with the
// stack at the recovery point.
func NewPanicError(v any) *PanicError {
	return &PanicError{
		reason: fmt.Sprint(v),
		stack:  debug.Stack(),
	}
}

func (e PanicError) Error() string {
	return fmt.Sprintf("panic encountered.\nReason: %s\nStack:\n%s", e.reason, e.stack)
}

func (e PanicError) LogValue() slog.Value {
	return slog.GroupValue(slog.String("reason", e.reason), slog.String("stack", string(e.stack)))
}

type ConstraintViolationError struct {
	UnderlyingError error
	code            string
	Detail          string
	TableName       string
	ConstraintName  string
}

type DatastoreError interface {
	error
	Code() string
}

func NewConstraintViolationError(err error, code, detail, tableName, constraintName string) error {
	return &ConstraintViolationError{
		UnderlyingError: err,
		code:            code,
		Detail:          detail,
		TableName:       tableName,
		ConstraintName:  constraintName,
	}
}

func (e ConstraintViolationError) Error() string {
	return fmt.Sprintf("violation of constraint '%s' in table '%s' - code '%s'. Detail: %s", e.ConstraintName, e.TableName, e.code, e.Detail)
}

func (e ConstraintViolationError) Code() string {
	return e.code
}

func (e ConstraintViolationError) Unwrap() error {
	return e.UnderlyingError
}

type ValidationError struct {
	Detail string
}

func NewValidationError(detail string) *ValidationError {
	return &ValidationError{
		Detail: detail,
	}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Detail)
}
