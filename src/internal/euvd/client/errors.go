// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package client

import (
	"errors"
	"fmt"
)

// Kind classifies client failures so callers (the MCP tool layer, the CLI)
// can surface them without string matching.
type Kind int

const (
	// KindUnknown is the zero value; it never appears on errors produced by this package.
	KindUnknown Kind = iota
	// KindValidation marks bad caller input, rejected before any network call.
	KindValidation
	// KindServiceUnavailable marks transient upstream failures that survived every retry.
	KindServiceUnavailable
	// KindUpstreamRequest marks non-retryable 4xx responses from upstream.
	KindUpstreamRequest
	// KindMalformedResponse marks a 2xx response whose body is not valid JSON.
	KindMalformedResponse
	// KindMapping marks valid JSON that does not satisfy the entity schema.
	KindMapping
	// KindNotFound marks a well-formed lookup with no matching record.
	KindNotFound
	// KindTimeout marks a caller-imposed deadline exceeded during a call or backoff wait.
	KindTimeout
)

// String returns the lowercase name of the kind as used in tool error output.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindServiceUnavailable:
		return "service_unavailable"
	case KindUpstreamRequest:
		return "upstream_request"
	case KindMalformedResponse:
		return "malformed_response"
	case KindMapping:
		return "mapping"
	case KindNotFound:
		return "not_found"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Error is the single error type produced by this package. It carries the
// failure kind, an optional offending field (validation/mapping), the HTTP
// status for upstream errors, and the wrapped cause when one exists.
type Error struct {
	Kind   Kind
	Field  string
	Status int
	Msg    string
	Err    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Field != "":
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Msg)
	case e.Err != nil && e.Msg != "":
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind carried by err, or KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, k Kind) bool { return KindOf(err) == k }

// validationErr builds a KindValidation error naming the offending field and
// its valid range or format.
func validationErr(field, msg string) *Error {
	return &Error{Kind: KindValidation, Field: field, Msg: msg}
}

// mappingErr builds a KindMapping error naming the offending record and field.
func mappingErr(record, field, msg string) *Error {
	if record != "" {
		field = record + "." + field
	}
	return &Error{Kind: KindMapping, Field: field, Msg: msg}
}
