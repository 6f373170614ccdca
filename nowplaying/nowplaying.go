// SPDX-License-Identifier: EPL-2.0

// Package nowplaying reads the station's AzuraCast now playing feed, which
// supplies listener counts and play times for announcements.
package nowplaying

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

var ErrUnavailable = errors.New("now playing feed unavailable")

type Song struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Artist string `json:"artist"`
	Title  string `json:"title"`
	Album  string `json:"album"`
	Genre  string `json:"genre"`
	ISRC   string `json:"isrc"`
	Art    string `json:"art"`
}

type Track struct {
	ShID      int64  `json:"sh_id"`
	PlayedAt  int64  `json:"played_at"`
	Duration  int64  `json:"duration"`
	Playlist  string `json:"playlist"`
	Streamer  string `json:"streamer"`
	IsRequest bool   `json:"is_request"`
	Song      Song   `json:"song"`
	Elapsed   int64  `json:"elapsed"`
	Remaining int64  `json:"remaining"`
}

type Listeners struct {
	Total   int `json:"total"`
	Unique  int `json:"unique"`
	Current int `json:"current"`
}

type Live struct {
	IsLive       bool   `json:"is_live"`
	StreamerName string `json:"streamer_name"`
}

// Status is the decoded nowplaying/<station> document.
type Status struct {
	NowPlaying Track     `json:"now_playing"`
	Listeners  Listeners `json:"listeners"`
	Live       Live      `json:"live"`
}

// PlayedAt converts the Unix timestamp of the current track. It is zero
// when the feed did not report one.
func (s *Status) PlayedAt() time.Time {
	if s.NowPlaying.PlayedAt <= 0 {
		return time.Time{}
	}

	return time.Unix(s.NowPlaying.PlayedAt, 0)
}

// Line renders the status as "np: artist - title", marking live shows.
func (s *Status) Line() string {
	line := "np: " + s.NowPlaying.Song.Artist + " - " + s.NowPlaying.Song.Title
	if s.Live.IsLive {
		line += " **LIVE**"
	}

	return line
}

// Client fetches one station's now playing document.
type Client struct {
	url        string
	apiKey     string
	httpClient *http.Client
}

// NewClient takes the full nowplaying endpoint URL, for example
// https://radio.example/api/nowplaying/station. The key is sent as
// X-API-Key when set.
func NewClient(url, apiKey string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: defaultTimeout}
	}

	return &Client{url: strings.TrimSpace(url), apiKey: apiKey, httpClient: hc}
}

func (c *Client) Status(ctx context.Context) (*Status, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var s Status
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrUnavailable, err)
	}

	return &s, nil
}
