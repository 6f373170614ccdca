// SPDX-License-Identifier: EPL-2.0

package audtag

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ik5/audtag/internal/audiotest"
	"github.com/ik5/audtag/internal/logging"
	"github.com/ik5/audtag/nowplaying"
	"github.com/ik5/audtag/recognize"
	"github.com/ik5/audtag/signature"
	"github.com/ik5/audtag/stream"
	"github.com/ik5/audtag/tracker"
)

type fakeFetcher struct {
	capture *stream.Capture
	err     error
	calls   int
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (*stream.Capture, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	c := *f.capture
	c.URL = url
	return &c, nil
}

// scriptedRecognizer answers from a list of outcomes: a track identity
// ("artist - title"), "" for no match, or "!" for a transport failure.
type scriptedRecognizer struct {
	script []string
	sigs   []*signature.DecodedSignature
	onDone func()
}

func (r *scriptedRecognizer) Identify(_ context.Context, sig *signature.DecodedSignature) (*recognize.Track, error) {
	r.sigs = append(r.sigs, sig)

	if len(r.script) == 0 {
		if r.onDone != nil {
			r.onDone()
		}
		return nil, context.Canceled
	}

	next := r.script[0]
	r.script = r.script[1:]
	if len(r.script) == 0 && r.onDone != nil {
		defer r.onDone()
	}

	switch next {
	case "":
		return nil, recognize.ErrNoMatch
	case "!":
		return nil, fmt.Errorf("%w: connection reset", recognize.ErrTransport)
	}

	artist, title, _ := strings.Cut(next, " - ")
	return &recognize.Track{Subtitle: artist, Title: title}, nil
}

type fakeNowPlaying struct {
	status *nowplaying.Status
	err    error
}

func (f fakeNowPlaying) Status(context.Context) (*nowplaying.Status, error) {
	return f.status, f.err
}

type recordingAnnouncer struct {
	mu  sync.Mutex
	got []tracker.Announcement
}

func (r *recordingAnnouncer) Announce(_ context.Context, a tracker.Announcement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, a)
	return nil
}

func (r *recordingAnnouncer) identities() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.got))
	for i, a := range r.got {
		out[i] = a.Identity
	}
	return out
}

func noiseCapture(t *testing.T) *stream.Capture {
	t.Helper()

	return &stream.Capture{
		Data:        wavBytes(t, 22050, audiotest.Noise(22050*3, 9, 7000)),
		ContentType: "audio/x-wav",
	}
}

func TestPipeline_RunOnce(t *testing.T) {
	t.Parallel()

	rec := &scriptedRecognizer{script: []string{"Sigma - Pieces", "", "Sigma - Pieces", "Sigma - Pieces"}}
	ann := &recordingAnnouncer{}
	tr := tracker.New()
	p := &Pipeline{
		StreamURL:  "http://radio.example/live",
		Fetcher:    &fakeFetcher{capture: noiseCapture(t)},
		Recognizer: rec,
		Tracker:    tr,
		Announcer:  ann,
		NowPlaying: fakeNowPlaying{status: &nowplaying.Status{
			Listeners:  nowplaying.Listeners{Current: 21},
			NowPlaying: nowplaying.Track{PlayedAt: 1760000000},
		}},
		Logger: logging.New(&bytes.Buffer{}, "debug"),
	}
	ctx := context.Background()

	if _, err := p.RunOnce(ctx); err != nil {
		t.Fatalf("first RunOnce() error = %v", err)
	}
	if s := tr.State(); s.Kind != tracker.StateCandidate {
		t.Errorf("after first match state = %v", s.Kind)
	}

	if _, err := p.RunOnce(ctx); !errors.Is(err, recognize.ErrNoMatch) {
		t.Fatalf("second RunOnce() error = %v, want ErrNoMatch", err)
	}
	if s := tr.State(); s.Kind != tracker.StateCandidate || s.Candidate != "Sigma - Pieces" {
		t.Errorf("no match changed state to %+v", s)
	}

	track, err := p.RunOnce(ctx)
	if err != nil {
		t.Fatalf("third RunOnce() error = %v", err)
	}
	if track.Identity() != "Sigma - Pieces" {
		t.Errorf("track = %q", track.Identity())
	}
	if _, err := p.RunOnce(ctx); err != nil {
		t.Fatalf("fourth RunOnce() error = %v", err)
	}

	if got := ann.identities(); len(got) != 1 || got[0] != "Sigma - Pieces" {
		t.Fatalf("announced = %v, want exactly one", got)
	}
	a := ann.got[0]
	if a.Listeners != 21 || !a.PlayedAt.Equal(time.Unix(1760000000, 0)) || a.ConfirmedAt.IsZero() {
		t.Errorf("announcement = %+v", a)
	}

	sig := rec.sigs[0]
	if sig.SampleRateHz != signature.SampleRate || sig.DurationMs() != 3000 {
		t.Errorf("signature rate = %d, duration = %d ms", sig.SampleRateHz, sig.DurationMs())
	}
}

func TestPipeline_RunOnceFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		fetcher *fakeFetcher
		want    error
	}{
		{
			name:    "fetch fails",
			fetcher: &fakeFetcher{err: fmt.Errorf("%w: refused", stream.ErrTransport)},
			want:    stream.ErrTransport,
		},
		{
			name:    "undecodable capture",
			fetcher: &fakeFetcher{capture: &stream.Capture{Data: []byte("<html>offline</html>"), ContentType: "audio/mpeg"}},
			want:    ErrDecode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := &scriptedRecognizer{script: []string{"a - b"}}
			p := &Pipeline{Fetcher: tt.fetcher, Recognizer: rec, Tracker: tracker.New()}

			if _, err := p.RunOnce(context.Background()); !errors.Is(err, tt.want) {
				t.Errorf("RunOnce() error = %v, want %v", err, tt.want)
			}
			if len(rec.sigs) != 0 {
				t.Error("recognizer called after a failed stage")
			}
		})
	}

	if _, err := (&Pipeline{}).RunOnce(context.Background()); err == nil {
		t.Error("RunOnce() on empty pipeline succeeded")
	}
}

func TestPipeline_Run(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var logs bytes.Buffer
	rec := &scriptedRecognizer{
		script: []string{"A - 1", "!", "", "A - 1", "B - 2", "B - 2", "B - 2"},
		onDone: cancel,
	}
	ann := &recordingAnnouncer{}
	fetch := &fakeFetcher{capture: noiseCapture(t)}
	p := &Pipeline{
		Fetcher:    fetch,
		Recognizer: rec,
		Tracker:    tracker.New(),
		Announcer:  ann,
		NowPlaying: fakeNowPlaying{err: nowplaying.ErrUnavailable},
		RetryDelay: time.Millisecond,
		Logger:     logging.New(&logs, "info"),
	}

	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(30 * time.Second):
		t.Fatal("Run() did not stop after cancellation")
	}

	if got := fmt.Sprint(ann.identities()); got != "[A - 1 B - 2]" {
		t.Errorf("announced = %s", got)
	}
	if fetch.calls != 7 {
		t.Errorf("fetch calls = %d, want 7", fetch.calls)
	}

	out := logs.String()
	for _, want := range []string{"level=ERROR", "level=INFO", "connection reset", "no match", "now playing unavailable"} {
		if !strings.Contains(out, want) {
			t.Errorf("logs missing %q:\n%s", want, out)
		}
	}
}

func TestPipeline_RunPause(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	fetch := &fakeFetcher{err: stream.ErrTransport}
	p := &Pipeline{
		Fetcher:    fetch,
		Recognizer: &scriptedRecognizer{},
		Tracker:    tracker.New(),
		Pause:      time.Hour,
		Logger:     logging.New(&bytes.Buffer{}, "error"),
	}

	if err := p.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if fetch.calls != 1 {
		t.Errorf("fetch calls = %d, want 1 before the pause", fetch.calls)
	}
}

func TestPipeline_RunRetryDelay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		fetcher   *fakeFetcher
		retry     time.Duration
		wantCalls func(int) bool
	}{
		{
			name:      "transport failure waits the default delay",
			fetcher:   &fakeFetcher{err: fmt.Errorf("%w: connection refused", stream.ErrTransport)},
			wantCalls: func(n int) bool { return n == 1 },
		},
		{
			name:      "negative delay retries at once",
			fetcher:   &fakeFetcher{err: fmt.Errorf("%w: connection refused", stream.ErrTransport)},
			retry:     -1,
			wantCalls: func(n int) bool { return n > 1 },
		},
		{
			name:      "decode failure does not wait",
			fetcher:   &fakeFetcher{capture: &stream.Capture{Data: []byte("<html>offline</html>"), ContentType: "audio/mpeg"}},
			wantCalls: func(n int) bool { return n > 1 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
			defer cancel()

			p := &Pipeline{
				Fetcher:    tt.fetcher,
				Recognizer: &scriptedRecognizer{},
				Tracker:    tracker.New(),
				RetryDelay: tt.retry,
				Logger:     logging.New(io.Discard, "error"),
			}

			if err := p.Run(ctx); err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if !tt.wantCalls(tt.fetcher.calls) {
				t.Errorf("fetch calls = %d", tt.fetcher.calls)
			}
		})
	}
}

func TestPipeline_Wait(t *testing.T) {
	t.Parallel()

	transport := fmt.Errorf("%w: reset", recognize.ErrTransport)

	tests := []struct {
		name  string
		pause time.Duration
		retry time.Duration
		err   error
		want  time.Duration
	}{
		{name: "success", pause: 0, err: nil, want: 0},
		{name: "no match keeps pause", pause: 2 * time.Second, err: recognize.ErrNoMatch, want: 2 * time.Second},
		{name: "transport default", err: transport, want: DefaultRetryDelay},
		{name: "transport custom", retry: 5 * time.Second, err: transport, want: 5 * time.Second},
		{name: "longer pause wins", pause: time.Minute, err: transport, want: time.Minute},
		{name: "disabled", retry: -1, err: stream.ErrTransport, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := &Pipeline{Pause: tt.pause, RetryDelay: tt.retry}
			if got := p.wait(tt.err); got != tt.want {
				t.Errorf("wait(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
