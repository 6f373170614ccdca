// SPDX-License-Identifier: EPL-2.0

package audtag

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ik5/audtag/audio"
	"github.com/ik5/audtag/internal/logging"
	"github.com/ik5/audtag/nowplaying"
	"github.com/ik5/audtag/recognize"
	"github.com/ik5/audtag/signature"
	"github.com/ik5/audtag/stream"
	"github.com/ik5/audtag/tracker"
)

// Fetcher captures the start of a stream. *stream.Fetcher implements it.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*stream.Capture, error)
}

// Recognizer identifies a signature. *recognize.Client implements it.
type Recognizer interface {
	Identify(ctx context.Context, sig *signature.DecodedSignature) (*recognize.Track, error)
}

// NowPlaying supplies station metadata for announcements.
// *nowplaying.Client implements it.
type NowPlaying interface {
	Status(ctx context.Context) (*nowplaying.Status, error)
}

// DefaultRetryDelay keeps an unreachable stream or endpoint from being
// retried in a tight loop.
const DefaultRetryDelay = time.Second

// Pipeline repeatedly captures the stream, fingerprints it, recognizes the
// signature and feeds the result to the tracker. Confirmed tracks go to the
// Announcer.
//
// Fetcher, Recognizer and Tracker are required. A nil Registry means
// DefaultRegistry, a nil Logger means slog.Default, and NowPlaying and
// Announcer are optional.
type Pipeline struct {
	StreamURL  string
	MaxSamples int
	// Pause is slept between iterations. Zero starts the next one at once.
	Pause time.Duration
	// RetryDelay is the minimum wait after a transport failure. Zero means
	// DefaultRetryDelay and a negative value disables it.
	RetryDelay time.Duration

	Fetcher    Fetcher
	Registry   *audio.Registry
	Recognizer Recognizer
	Tracker    *tracker.Tracker
	NowPlaying NowPlaying
	Announcer  tracker.Announcer
	Logger     *slog.Logger
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

// RunOnce performs one iteration and returns the recognized track. Any
// error leaves the tracker untouched. An announcer failure is logged and
// does not fail the iteration.
func (p *Pipeline) RunOnce(ctx context.Context) (*recognize.Track, error) {
	if p.Fetcher == nil || p.Recognizer == nil || p.Tracker == nil {
		return nil, errors.New("pipeline: Fetcher, Recognizer and Tracker are required")
	}

	reg := p.Registry
	if reg == nil {
		reg = DefaultRegistry()
	}

	capture, err := p.Fetcher.Fetch(ctx, p.StreamURL)
	if err != nil {
		return nil, err
	}

	format := DetectFormat(capture.ContentType, capture.URL)
	sig, _, err := Fingerprint(reg, format, bytes.NewReader(capture.Data), p.MaxSamples)
	if err != nil {
		return nil, err
	}

	log := p.logger()
	log.DebugContext(ctx, "signature generated",
		slog.String("format", format),
		slog.Int("bytes", len(capture.Data)),
		slog.Uint64("duration_ms", uint64(sig.DurationMs())),
		slog.Int("peaks", sig.PeakCount()),
	)

	track, err := p.Recognizer.Identify(ctx, sig)
	if err != nil {
		return nil, err
	}

	decision, conf := p.Tracker.Observe(track)
	log.DebugContext(ctx, "track observed",
		slog.String("track", conf.Identity),
		slog.String("decision", decision.String()),
	)

	if decision == tracker.DecisionConfirmed {
		p.announce(ctx, conf)
	}

	return track, nil
}

func (p *Pipeline) announce(ctx context.Context, conf tracker.Confirmation) {
	a := tracker.Announcement{
		Track:       conf.Track,
		Identity:    conf.Identity,
		ConfirmedAt: conf.At,
	}

	log := p.logger()
	if p.NowPlaying != nil {
		status, err := p.NowPlaying.Status(ctx)
		if err != nil {
			log.WarnContext(ctx, "now playing unavailable", logging.Err(err))
		} else {
			a.Listeners = status.Listeners.Current
			a.PlayedAt = status.PlayedAt()
		}
	}

	if p.Announcer == nil {
		return
	}

	if err := p.Announcer.Announce(ctx, a); err != nil {
		log.WarnContext(ctx, "announce failed", slog.String("track", a.Identity), logging.Err(err))
	}
}

// Run calls RunOnce until ctx is done. Iteration errors are logged and the
// loop moves on. It returns nil once ctx is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	log := p.logger()

	for ctx.Err() == nil {
		track, err := p.RunOnce(ctx)
		switch {
		case err != nil && ctx.Err() != nil:
			return nil
		case err != nil:
			log.Log(ctx, Classify(err), "recognition attempt failed", logging.Err(err))
		default:
			log.DebugContext(ctx, "recognition attempt succeeded", slog.String("track", track.Identity()))
		}

		if wait := p.wait(err); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil
			case <-timer.C:
			}
		}
	}

	return nil
}

// wait returns how long Run sleeps after an iteration that ended with err.
func (p *Pipeline) wait(err error) time.Duration {
	if !errors.Is(err, stream.ErrTransport) && !errors.Is(err, recognize.ErrTransport) {
		return p.Pause
	}

	retry := p.RetryDelay
	switch {
	case retry == 0:
		retry = DefaultRetryDelay
	case retry < 0:
		retry = 0
	}

	return max(p.Pause, retry)
}
