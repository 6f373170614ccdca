// SPDX-License-Identifier: EPL-2.0

package signature

import "errors"

var (
	ErrInvalidMagic          = errors.New("invalid signature magic")
	ErrChecksumMismatch      = errors.New("signature checksum mismatch")
	ErrTruncated             = errors.New("signature truncated")
	ErrUnsupportedSampleRate = errors.New("unsupported signature sample rate")
	ErrInvalidURI            = errors.New("invalid signature uri")
	ErrPeakOrder             = errors.New("peaks not ordered by pass number")
)
