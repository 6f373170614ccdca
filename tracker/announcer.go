// SPDX-License-Identifier: EPL-2.0

package tracker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ik5/audtag/recognize"
)

// Announcement is handed to announcers when a track is confirmed.
type Announcement struct {
	Track       *recognize.Track
	Identity    string
	ConfirmedAt time.Time
	// Listeners and PlayedAt come from the station's now playing feed and
	// are zero when it is unavailable.
	Listeners int
	PlayedAt  time.Time
}

type Announcer interface {
	Announce(ctx context.Context, a Announcement) error
}

// AnnouncerFunc adapts a function to Announcer.
type AnnouncerFunc func(ctx context.Context, a Announcement) error

func (f AnnouncerFunc) Announce(ctx context.Context, a Announcement) error {
	return f(ctx, a)
}

// LogAnnouncer writes each announcement to a logger at info level.
type LogAnnouncer struct {
	Logger *slog.Logger
}

func (l LogAnnouncer) Announce(ctx context.Context, a Announcement) error {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}

	attrs := []any{
		slog.String("track", a.Identity),
		slog.Time("confirmed_at", a.ConfirmedAt),
		slog.Int("listeners", a.Listeners),
	}
	if a.Track != nil && a.Track.URL != "" {
		attrs = append(attrs, slog.String("url", a.Track.URL))
	}
	if !a.PlayedAt.IsZero() {
		attrs = append(attrs, slog.Time("played_at", a.PlayedAt))
	}

	logger.InfoContext(ctx, "track identified", attrs...)
	return nil
}

// MultiAnnouncer calls every announcer in order and joins their errors.
type MultiAnnouncer []Announcer

func (m MultiAnnouncer) Announce(ctx context.Context, a Announcement) error {
	var errs []error
	for _, an := range m {
		if err := an.Announce(ctx, a); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
