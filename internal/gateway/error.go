// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a gateway call failure. Callers branch on the kind
// instead of inspecting error strings.
type Kind string

const (
	// KindNetwork is a transport-level failure: no HTTP response was
	// received at all. These are the only failures the client retries.
	KindNetwork Kind = "network"

	// KindHTTP is a response with a non-2xx status. Deterministic for a
	// given call — never retried, so quota and auth errors surface
	// immediately instead of being masked as flaky networking.
	KindHTTP Kind = "http"

	// KindParse is a 2xx response whose body is not the JSON the caller
	// asked for. Retrying would re-run a call that already succeeded
	// upstream, so it fails immediately.
	KindParse Kind = "parse"

	// KindExhausted means the retry budget ran out on transport failures.
	KindExhausted Kind = "exhausted-retries"
)

// Error is the structured failure returned by every gateway call.
type Error struct {
	Kind    Kind
	Status  int    // HTTP status code; 0 for non-HTTP failures
	Message string // server-provided message when present, else generic
	Err     error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("gateway: %s (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("gateway: %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// IsRateLimited reports whether err is an upstream 429 response.
func IsRateLimited(err error) bool {
	var ge *Error
	return errors.As(err, &ge) && ge.Status == http.StatusTooManyRequests
}

// IsQuotaExhausted reports whether err is an upstream 402 response,
// meaning the AI credit balance is empty and operator action is needed.
func IsQuotaExhausted(err error) bool {
	var ge *Error
	return errors.As(err, &ge) && ge.Status == http.StatusPaymentRequired
}
