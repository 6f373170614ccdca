// SPDX-License-Identifier: EPL-2.0

// Package config holds the runtime configuration of the audtag pipeline.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"
	_ "time/tzdata" // Validate resolves AUDTAG_TIMEZONE on hosts without zoneinfo
)

const (
	DefaultRecognizeURL   = "https://amp.shazam.com"
	DefaultTimeout        = 20 * time.Second
	DefaultStreamIdle     = 10 * time.Second
	DefaultByteBudget     = 500_000
	DefaultCaptureSeconds = 12
	DefaultTimezone       = "Europe/Paris"
	DefaultLogLevel       = "info"
	DefaultHistoryDB      = "audtag.db"

	DefaultAltitude  = 300
	DefaultLatitude  = 45
	DefaultLongitude = 2
)

// Config is built once at startup and passed to the pipeline. Timeout
// applies to recognition requests only; StreamIdle bounds stalls while
// capturing the stream.
type Config struct {
	StreamURL      string        `json:"stream_url"`
	RecognizeURL   string        `json:"recognize_url"`
	Timeout        time.Duration `json:"-"`
	StreamIdle     time.Duration `json:"-"`
	ByteBudget     int           `json:"byte_budget"`
	CaptureSeconds int           `json:"capture_seconds"`
	Timezone       string        `json:"timezone"`
	Geolocation    Geolocation   `json:"geolocation"`
	LogLevel       string        `json:"log_level"`
	HistoryDB      string        `json:"history_db"`
	NowPlayingURL  string        `json:"nowplaying_url"`
	NowPlayingKey  string        `json:"-"`
	StatusAddr     string        `json:"status_addr"`
	Pause          time.Duration `json:"-"`
}

// Geolocation is sent with every recognition request.
type Geolocation struct {
	Altitude  float64 `json:"altitude"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Default returns a configuration with every optional field set.
func Default() Config {
	return Config{
		RecognizeURL:   DefaultRecognizeURL,
		Timeout:        DefaultTimeout,
		StreamIdle:     DefaultStreamIdle,
		ByteBudget:     DefaultByteBudget,
		CaptureSeconds: DefaultCaptureSeconds,
		Timezone:       DefaultTimezone,
		LogLevel:       DefaultLogLevel,
		HistoryDB:      DefaultHistoryDB,
		Geolocation: Geolocation{
			Altitude:  DefaultAltitude,
			Latitude:  DefaultLatitude,
			Longitude: DefaultLongitude,
		},
	}
}

// ErrMissingStreamURL is returned by ValidateStream when no stream is set.
var ErrMissingStreamURL = errors.New("config: AUDTAG_STREAM_URL is required")

// Validate checks the fields every subcommand relies on.
func (c Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("config: timeout must be positive, got %s", c.Timeout)
	}
	if c.StreamIdle < 0 {
		return fmt.Errorf("config: stream idle timeout must not be negative, got %s", c.StreamIdle)
	}
	if c.ByteBudget <= 0 {
		return fmt.Errorf("config: byte budget must be positive, got %d", c.ByteBudget)
	}
	if c.CaptureSeconds <= 0 {
		return fmt.Errorf("config: capture seconds must be positive, got %d", c.CaptureSeconds)
	}
	if c.Pause < 0 {
		return fmt.Errorf("config: pause must not be negative, got %s", c.Pause)
	}
	if err := checkURL("recognize url", c.RecognizeURL); err != nil {
		return err
	}
	if c.NowPlayingURL != "" {
		if err := checkURL("now playing url", c.NowPlayingURL); err != nil {
			return err
		}
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("config: timezone %q: %w", c.Timezone, err)
	}

	return nil
}

// ValidateStream additionally requires a stream URL, which only the watch
// loop needs.
func (c Config) ValidateStream() error {
	if c.StreamURL == "" {
		return ErrMissingStreamURL
	}

	return checkURL("stream url", c.StreamURL)
}

func checkURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("config: %s: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("config: %s %q must be http or https", name, raw)
	}

	return nil
}
