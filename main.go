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

// Package jrpc holds the ambient, application-wide concerns shared by every
// internal package of the JSON-RPC 2.0 engine: configuration, logging, and
// the small set of cross-cutting interfaces (tracing, validation,
// authorization) that the protocol engine and its supporting packages are
// wired against.
package jrpc

import (
	"context"
	"net/http"
)

type OtelOutput string

const (
	OtelOutputStdout OtelOutput = "stdout"
	OtelOutputHTTP   OtelOutput = "http"
)

// Validator is implemented by anything capable of validating a struct
// against a set of rules, such as a [github.com/go-playground/validator/v10]
// wrapper. The config provider uses it to validate the loaded [Config],
// and the pipeline constructors run it over the pipeline they build; the
// dispatch package's handler binder does not use it.
type Validator interface {
	Validate(interface{}) error
}

type MetricService interface {
	RecordPanic(ctx context.Context)
}

type Span interface {
	End()
}

// TracingService abstracts the OpenTelemetry tracer/propagator pair used to
// decorate dispatch with spans and to extract a trace id for logging.
type TracingService interface {
	StartSpan(ctx context.Context, name string) (context.Context, Span)
	GetTraceID(ctx context.Context) string
	NewHTTPHandler(route string, h http.Handler) http.Handler
	WithRouteTag(route string, h http.Handler) http.Handler
}

// AuthorizationEntity identifies an object that can appear as a principal,
// action, or resource in an authorization decision. The Policy Gate maps
// JSON-RPC methods and callers onto entities implementing this interface.
type AuthorizationEntity interface {
	EntityType() string
	EntityID() string
}

// AuthorizationAction adapts a plain string (typically a JSON-RPC method
// name) into an [AuthorizationEntity] usable as the Action of an
// [AuthorizationRequest].
type AuthorizationAction string

func (a AuthorizationAction) EntityType() string {
	return "Action"
}

func (a AuthorizationAction) EntityID() string {
	return string(a)
}

type AuthorizationRequest struct {
	Principal AuthorizationEntity
	Action    AuthorizationEntity
	Resource  AuthorizationEntity
	Context   map[string]interface{}
}

// AuthorizationProvider evaluates an [AuthorizationRequest] and reports
// whether it is permitted. internal/policy's Cedar-backed Gate implements
// this interface.
type AuthorizationProvider interface {
	IsAuthorized(ctx context.Context, req AuthorizationRequest) bool
}

// RPCServer is the narrow boundary between a transport and the protocol
// engine: hand it a JSON-RPC request (single or batch) and it returns the
// bytes to write back, if any.
type RPCServer interface {
	HandleRPCRequest(ctx context.Context, req []byte) ([]byte, error)
}
