// SPDX-License-Identifier: EPL-2.0

package recognize

import "errors"

var (
	// ErrTransport covers connection failures, timeouts and non-2xx replies.
	ErrTransport = errors.New("recognition transport failure")
	// ErrNoMatch means the service answered but found no track.
	ErrNoMatch = errors.New("recognition returned no match")
	// ErrSerialization means the reply body could not be decoded.
	ErrSerialization = errors.New("recognition response malformed")
)
