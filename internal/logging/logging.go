// SPDX-License-Identifier: EPL-2.0

// Package logging builds the process logger. Errors attached with Err carry
// a stack trace that the handler renders as a trace attribute.
package logging

import (
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mdobak/go-xerrors"
)

// New returns a text logger writing to w at the given level name.
func New(w io.Writer, level string) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:       ParseLevel(level),
		ReplaceAttr: replaceAttr,
	})

	return slog.New(handler)
}

// ParseLevel maps debug, info, warn and error onto slog levels. Unknown
// names fall back to info.
func ParseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Err wraps err with the caller's stack and returns it as an "error"
// attribute.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Any("error", nil)
	}

	return slog.Any("error", xerrors.New(err))
}

func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() != slog.KindAny {
		return a
	}

	if err, ok := a.Value.Any().(error); ok {
		a.Value = formatError(err)
	}

	return a
}

func formatError(err error) slog.Value {
	attrs := []slog.Attr{slog.String("msg", err.Error())}

	if trace := stackTrace(err); trace != "" {
		attrs = append(attrs, slog.String("trace", trace))
	}

	return slog.GroupValue(attrs...)
}

// stackTrace renders the recorded stack as "func file:line" entries
// separated by " < ", innermost first. The frame of Err itself is dropped.
func stackTrace(err error) string {
	trace := xerrors.StackTrace(err)
	if len(trace) == 0 {
		return ""
	}

	var parts []string
	for _, f := range trace.Frames() {
		if strings.HasSuffix(f.Function, "/logging.Err") {
			continue
		}
		fn := filepath.Base(f.Function)

		src := filepath.Join(filepath.Base(filepath.Dir(f.File)), filepath.Base(f.File))
		parts = append(parts, fn+" "+src+":"+strconv.Itoa(f.Line))
	}

	return strings.Join(parts, " < ")
}
