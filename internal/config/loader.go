// SPDX-License-Identifier: EPL-2.0

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Loader loads configuration from environment variables. Tests can override
// Lookup to inject deterministic maps.
type Loader struct {
	Lookup func(string) (string, bool)
	// EnvFiles are read with godotenv before the environment is consulted.
	// Variables already set in the process win. Missing files are ignored.
	EnvFiles []string
}

// Load applies defaults, then the AUDTAG_CONFIG JSON blob, then individual
// AUDTAG_* variables, and validates the result.
func (l Loader) Load() (Config, error) {
	lookup := l.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}

	if len(l.EnvFiles) > 0 {
		fileEnv := readEnvFiles(l.EnvFiles)
		base := lookup
		lookup = func(key string) (string, bool) {
			if v, ok := base(key); ok {
				return v, true
			}
			v, ok := fileEnv[key]
			return v, ok
		}
	}

	cfg := Default()

	if raw, ok := lookup("AUDTAG_CONFIG"); ok && strings.TrimSpace(raw) != "" {
		if err := applyJSON(raw, &cfg); err != nil {
			return Config{}, err
		}
	}

	overrideString(lookup, "AUDTAG_STREAM_URL", &cfg.StreamURL)
	overrideString(lookup, "AUDTAG_RECOGNIZE_URL", &cfg.RecognizeURL)
	overrideString(lookup, "AUDTAG_TIMEZONE", &cfg.Timezone)
	overrideString(lookup, "AUDTAG_LOG_LEVEL", &cfg.LogLevel)
	overrideString(lookup, "AUDTAG_HISTORY_DB", &cfg.HistoryDB)
	overrideString(lookup, "AUDTAG_NOWPLAYING_URL", &cfg.NowPlayingURL)
	overrideString(lookup, "AUDTAG_NOWPLAYING_KEY", &cfg.NowPlayingKey)
	overrideString(lookup, "AUDTAG_STATUS_ADDR", &cfg.StatusAddr)
	if err := overrideSeconds(lookup, "AUDTAG_TIMEOUT_SECONDS", &cfg.Timeout); err != nil {
		return Config{}, err
	}
	if err := overrideSeconds(lookup, "AUDTAG_STREAM_IDLE_SECONDS", &cfg.StreamIdle); err != nil {
		return Config{}, err
	}
	if err := overrideSeconds(lookup, "AUDTAG_PAUSE_SECONDS", &cfg.Pause); err != nil {
		return Config{}, err
	}
	if err := overrideInt(lookup, "AUDTAG_BYTE_BUDGET", &cfg.ByteBudget); err != nil {
		return Config{}, err
	}
	if err := overrideInt(lookup, "AUDTAG_CAPTURE_SECONDS", &cfg.CaptureSeconds); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readEnvFiles(paths []string) map[string]string {
	out := make(map[string]string)
	for _, p := range paths {
		env, err := godotenv.Read(p)
		if err != nil {
			continue
		}
		for k, v := range env {
			if _, seen := out[k]; !seen {
				out[k] = v
			}
		}
	}

	return out
}

func applyJSON(raw string, cfg *Config) error {
	type jsonConfig struct {
		StreamURL      string       `json:"stream_url"`
		RecognizeURL   string       `json:"recognize_url"`
		TimeoutSeconds *float64     `json:"timeout_seconds"`
		StreamIdle     *float64     `json:"stream_idle_seconds"`
		ByteBudget     *int         `json:"byte_budget"`
		CaptureSeconds *int         `json:"capture_seconds"`
		Timezone       string       `json:"timezone"`
		Geolocation    *Geolocation `json:"geolocation"`
		LogLevel       string       `json:"log_level"`
		HistoryDB      string       `json:"history_db"`
		NowPlayingURL  string       `json:"nowplaying_url"`
		NowPlayingKey  string       `json:"nowplaying_key"`
		StatusAddr     string       `json:"status_addr"`
		PauseSeconds   *float64     `json:"pause_seconds"`
	}
	var payload jsonConfig
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return fmt.Errorf("config: decode AUDTAG_CONFIG: %w", err)
	}

	setString(&cfg.StreamURL, payload.StreamURL)
	setString(&cfg.RecognizeURL, payload.RecognizeURL)
	setString(&cfg.Timezone, payload.Timezone)
	setString(&cfg.LogLevel, payload.LogLevel)
	setString(&cfg.HistoryDB, payload.HistoryDB)
	setString(&cfg.NowPlayingURL, payload.NowPlayingURL)
	setString(&cfg.NowPlayingKey, payload.NowPlayingKey)
	setString(&cfg.StatusAddr, payload.StatusAddr)
	if payload.TimeoutSeconds != nil {
		cfg.Timeout = seconds(*payload.TimeoutSeconds)
	}
	if payload.StreamIdle != nil {
		cfg.StreamIdle = seconds(*payload.StreamIdle)
	}
	if payload.PauseSeconds != nil {
		cfg.Pause = seconds(*payload.PauseSeconds)
	}
	if payload.ByteBudget != nil {
		cfg.ByteBudget = *payload.ByteBudget
	}
	if payload.CaptureSeconds != nil {
		cfg.CaptureSeconds = *payload.CaptureSeconds
	}
	if payload.Geolocation != nil {
		cfg.Geolocation = *payload.Geolocation
	}
	return nil
}

func setString(target *string, value string) {
	if value != "" {
		*target = value
	}
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

func overrideString(lookup func(string) (string, bool), key string, target *string) {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		*target = strings.TrimSpace(value)
	}
}

func overrideSeconds(lookup func(string) (string, bool), key string, target *time.Duration) error {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return fmt.Errorf("config: invalid value for %s: %w", key, err)
		}
		*target = seconds(parsed)
	}
	return nil
}

func overrideInt(lookup func(string) (string, bool), key string, target *int) error {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		parsed, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("config: invalid value for %s: %w", key, err)
		}
		*target = parsed
	}
	return nil
}
