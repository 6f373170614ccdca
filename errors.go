// SPDX-License-Identifier: EPL-2.0

package audtag

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ik5/audtag/recognize"
)

// ErrDecode is returned when a capture yields no audio. It wraps the
// decoder's error, often audio.ErrNoFrames.
var ErrDecode = errors.New("no decodable audio")

// Classify picks the log level for an error that ended an iteration.
// Transport and decode failures, and anything unrecognised, are errors.
func Classify(err error) slog.Level {
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		return slog.LevelDebug
	case errors.Is(err, recognize.ErrNoMatch):
		return slog.LevelInfo
	case errors.Is(err, recognize.ErrSerialization):
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
