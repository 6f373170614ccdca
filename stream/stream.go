// SPDX-License-Identifier: EPL-2.0

// Package stream captures a bounded prefix of a live audio stream.
package stream

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultByteBudget is enough compressed audio for about 12 seconds of
// fingerprinting at common streaming bitrates.
const DefaultByteBudget = 500_000

// DefaultIdleTimeout is how long Fetch waits for response headers or for the
// next body bytes before giving up on a stalled stream.
const DefaultIdleTimeout = 10 * time.Second

const readChunk = 32 * 1024

var (
	// ErrTransport is returned when the stream cannot be opened or a read
	// fails before the byte budget is met.
	ErrTransport = errors.New("stream transport failure")

	// ErrStalled is the cause of a fetch that received no data for the
	// idle timeout.
	ErrStalled = errors.New("stream stalled")
)

// Capture is the raw prefix read from a stream.
type Capture struct {
	Data        []byte
	ContentType string
	URL         string
}

// Fetcher reads stream prefixes over HTTP.
//
// There is no deadline on the whole capture. The idle timeout covers the
// wait for headers and restarts every time body bytes arrive.
type Fetcher struct {
	client *http.Client
	budget int
	idle   time.Duration
}

type Option func(*Fetcher)

// WithIdleTimeout sets the stall limit. Zero or less disables it, leaving
// only the caller's context.
func WithIdleTimeout(d time.Duration) Option {
	return func(f *Fetcher) { f.idle = d }
}

// NewFetcher returns a Fetcher reading up to budget bytes per capture. A nil
// client uses http.DefaultClient and a non-positive budget uses
// DefaultByteBudget. The client should not carry a Timeout, since that
// bounds the whole body read.
func NewFetcher(client *http.Client, budget int, opts ...Option) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if budget <= 0 {
		budget = DefaultByteBudget
	}

	f := &Fetcher{client: client, budget: budget, idle: DefaultIdleTimeout}
	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Budget reports the configured byte budget.
func (f *Fetcher) Budget() int { return f.budget }

// Fetch reads from url until the budget is collected or the stream ends.
// A stream that ends early is not an error.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Capture, error) {
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	touch := func() {}
	if f.idle > 0 {
		idle := time.AfterFunc(f.idle, func() { cancel(ErrStalled) })
		defer idle.Stop()
		touch = func() { idle.Reset(f.idle) }
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	// Shoutcast and Icecast servers interleave metadata unless asked not to.
	req.Header.Set("Icy-MetaData", "0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, cause(ctx, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s: status %d", ErrTransport, url, resp.StatusCode)
	}

	var buf bytes.Buffer
	buf.Grow(f.budget)
	chunk := make([]byte, readChunk)

	for buf.Len() < f.budget {
		n, err := resp.Body.Read(chunk)
		buf.Write(chunk[:n])
		if n > 0 {
			touch()
		}

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read %s after %d bytes: %w", ErrTransport, url, buf.Len(), cause(ctx, err))
		}
	}

	return &Capture{
		Data:        buf.Bytes(),
		ContentType: resp.Header.Get("Content-Type"),
		URL:         url,
	}, nil
}

// cause prefers the reason ctx was cancelled over the error it produced.
func cause(ctx context.Context, err error) error {
	if ctx.Err() == nil {
		return err
	}

	return context.Cause(ctx)
}
