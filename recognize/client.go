// SPDX-License-Identifier: EPL-2.0

package recognize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ik5/audtag/signature"
)

const (
	DefaultBaseURL  = "https://amp.shazam.com"
	DefaultTimeout  = 20 * time.Second
	DefaultTimezone = "Europe/Paris"

	tagPath         = "/discovery/v5/en/US/android/-/tag/"
	contentLanguage = "en_US"
	maxErrorBody    = 512
)

// DefaultGeolocation is the fixed position reported with every request.
var DefaultGeolocation = Geolocation{Altitude: 300, Latitude: 45, Longitude: 2}

var tagQuery = url.Values{
	"sync":             {"true"},
	"webv3":            {"true"},
	"sampling":         {"true"},
	"connected":        {""},
	"shazamapiversion": {"v3"},
	"sharehub":         {"true"},
	"video":            {"v3"},
}.Encode()

type Geolocation struct {
	Altitude  float64 `json:"altitude"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Client submits signatures to the recognition service. It is safe for
// concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	timezone   string
	geo        Geolocation
	userAgents []string
	now        func() time.Time
	newID      func() string
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds each request. Zero or negative values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithTimezone(tz string) Option {
	return func(c *Client) { c.timezone = tz }
}

func WithGeolocation(g Geolocation) Option {
	return func(c *Client) { c.geo = g }
}

// WithUserAgents replaces the User-Agent pool. An empty pool is ignored.
func WithUserAgents(agents []string) Option {
	return func(c *Client) {
		if len(agents) > 0 {
			c.userAgents = agents
		}
	}
}

// WithClock sets the time source for request timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: http.DefaultClient,
		timeout:    DefaultTimeout,
		timezone:   DefaultTimezone,
		geo:        DefaultGeolocation,
		userAgents: DefaultUserAgents,
		now:        time.Now,
		newID:      func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

type requestSignature struct {
	SampleMs  uint32 `json:"samplems"`
	Timestamp int64  `json:"timestamp"`
	URI       string `json:"uri"`
}

type requestBody struct {
	Geolocation Geolocation      `json:"geolocation"`
	Signature   requestSignature `json:"signature"`
	Timestamp   int64            `json:"timestamp"`
	Timezone    string           `json:"timezone"`
}

// Recognize posts sig and decodes the reply. A reply without a track is
// returned as is; use Identify to treat it as ErrNoMatch.
func (c *Client) Recognize(ctx context.Context, sig *signature.DecodedSignature) (*Response, error) {
	uri, err := signature.EncodeURI(sig)
	if err != nil {
		return nil, fmt.Errorf("encode signature: %w", err)
	}

	ts := c.now().UnixMilli()
	payload, err := json.Marshal(requestBody{
		Geolocation: c.geo,
		Signature: requestSignature{
			SampleMs:  sig.DurationMs(),
			Timestamp: ts,
			URI:       uri,
		},
		Timestamp: ts,
		Timezone:  c.timezone,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := c.baseURL + tagPath + c.newID() + "/" + c.newID() + "?" + tagQuery
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgents[rand.IntN(len(c.userAgents))])
	req.Header.Set("Content-Language", contentLanguage)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("%w: status %d: %s", ErrTransport, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", ErrTransport, ctx.Err())
		}
		return nil, fmt.Errorf("%w: %w", ErrSerialization, err)
	}

	return &out, nil
}

// Identify is Recognize that reports a reply without a track as ErrNoMatch.
func (c *Client) Identify(ctx context.Context, sig *signature.DecodedSignature) (*Track, error) {
	resp, err := c.Recognize(ctx, sig)
	if err != nil {
		return nil, err
	}

	if resp.Track == nil {
		return nil, fmt.Errorf("%w (tag %s)", ErrNoMatch, resp.TagID)
	}

	return resp.Track, nil
}
