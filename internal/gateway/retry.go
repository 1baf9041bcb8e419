// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package gateway

import "errors"

// retryable is the pure retry decision: given a call failure, should the
// client attempt the call again? Only transport-level failures qualify —
// an HTTP error status or a malformed body is deterministic for this call
// and retrying it would just burn the budget. Kept free of I/O so the
// policy is testable without a network.
func retryable(err error) bool {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind == KindNetwork
	}
	return false
}
