// SPDX-License-Identifier: EPL-2.0

// Command audtag watches a radio stream and reports the tracks it plays.
//
// Usage:
//
//	audtag watch                    recognize the configured stream in a loop
//	audtag file <path>              recognize the first 12 s of a local file
//	audtag sig [-o out.wav] <path>  print the signature URI of a file
//	audtag history [-n 10]          list recent announcements
//
// Configuration comes from AUDTAG_* environment variables, optionally
// loaded from a .env file in the working directory.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ik5/audtag"
	"github.com/ik5/audtag/formats/wav"
	"github.com/ik5/audtag/history"
	"github.com/ik5/audtag/internal/config"
	"github.com/ik5/audtag/internal/logging"
	"github.com/ik5/audtag/nowplaying"
	"github.com/ik5/audtag/recognize"
	"github.com/ik5/audtag/signature"
	"github.com/ik5/audtag/stream"
	"github.com/ik5/audtag/tracker"
)

const usage = `usage: audtag <command> [arguments]

commands:
  watch                    recognize the configured stream in a loop
  file <path>              recognize the first 12 s of a local audio file
  sig [-o out.wav] <path>  print the signature URI of a local audio file
  history [-n 10]          list recent announcements
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Loader{EnvFiles: []string{".env"}}.Load()
	if err != nil {
		slog.Error("failed to load configuration", logging.Err(err))
		os.Exit(1)
	}
	logger := logging.New(os.Stdout, cfg.LogLevel)

	args := os.Args[2:]
	switch os.Args[1] {
	case "watch":
		err = watch(ctx, cfg, logger)
	case "file":
		err = recognizeFile(ctx, cfg, args, os.Stdout)
	case "sig":
		err = printSignature(args, os.Stdout)
	case "history":
		err = printHistory(ctx, cfg, args, os.Stdout)
	case "-h", "--help", "help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}

	if err != nil {
		logger.Error("command failed", slog.String("command", os.Args[1]), logging.Err(err))
		os.Exit(1)
	}
}

// newFetcher bounds stream stalls only. cfg.Timeout is for recognition
// requests and would cut a live capture short.
func newFetcher(cfg config.Config) *stream.Fetcher {
	return stream.NewFetcher(nil, cfg.ByteBudget, stream.WithIdleTimeout(cfg.StreamIdle))
}

func newRecognizer(cfg config.Config) *recognize.Client {
	return recognize.NewClient(
		recognize.WithBaseURL(cfg.RecognizeURL),
		recognize.WithTimeout(cfg.Timeout),
		recognize.WithTimezone(cfg.Timezone),
		recognize.WithGeolocation(recognize.Geolocation(cfg.Geolocation)),
	)
}

func watch(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	if err := cfg.ValidateStream(); err != nil {
		return err
	}

	announcers := tracker.MultiAnnouncer{tracker.LogAnnouncer{Logger: logger}}
	if cfg.HistoryDB != "" {
		store, err := history.Open(cfg.HistoryDB)
		if err != nil {
			return err
		}
		defer store.Close()
		announcers = append(announcers, store)
	}

	tr := tracker.New()
	p := &audtag.Pipeline{
		StreamURL:  cfg.StreamURL,
		MaxSamples: cfg.CaptureSeconds * audtag.TargetRate,
		Pause:      cfg.Pause,
		Fetcher:    newFetcher(cfg),
		Registry:   audtag.DefaultRegistry(),
		Recognizer: newRecognizer(cfg),
		Tracker:    tr,
		Announcer:  announcers,
		Logger:     logger,
	}
	if cfg.NowPlayingURL != "" {
		p.NowPlaying = nowplaying.NewClient(cfg.NowPlayingURL, cfg.NowPlayingKey, nil)
	}

	if cfg.StatusAddr != "" {
		srv := &http.Server{
			Addr:              cfg.StatusAddr,
			Handler:           newStatusMux(tr, time.Now),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("status server listening", slog.String("addr", cfg.StatusAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("status server stopped", logging.Err(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	logger.Info("watching stream",
		slog.String("url", cfg.StreamURL),
		slog.Int("byte_budget", cfg.ByteBudget),
		slog.Int("capture_seconds", cfg.CaptureSeconds),
		slog.Duration("pause", cfg.Pause),
	)

	return p.Run(ctx)
}

func fingerprintFile(path string, maxSamples int) (*signature.DecodedSignature, []int16, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	return audtag.Fingerprint(audtag.DefaultRegistry(), audtag.DetectFormat("", path), f, maxSamples)
}

func recognizeFile(ctx context.Context, cfg config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("file", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("file: expected exactly one path")
	}

	sig, _, err := fingerprintFile(fs.Arg(0), cfg.CaptureSeconds*audtag.TargetRate)
	if err != nil {
		return err
	}

	track, err := newRecognizer(cfg).Identify(ctx, sig)
	if errors.Is(err, recognize.ErrNoMatch) {
		fmt.Fprintln(out, "no match")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(out, track.Identity())
	if album, ok := track.MetadataValue("Album"); ok {
		fmt.Fprintf(out, "album: %s\n", album)
	}
	if track.URL != "" {
		fmt.Fprintln(out, track.URL)
	}

	return nil
}

func printSignature(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("sig", flag.ContinueOnError)
	wavOut := fs.String("o", "", "also write the 16 kHz mono PCM used to this WAV file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("sig: expected exactly one path")
	}

	sig, pcm, err := fingerprintFile(fs.Arg(0), audtag.MaxSamples)
	if err != nil {
		return err
	}

	uri, err := signature.EncodeURI(sig)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, uri)

	if *wavOut == "" {
		return nil
	}

	f, err := os.Create(*wavOut)
	if err != nil {
		return err
	}
	if err := wav.WriteWAV16(f, audtag.TargetRate, pcm); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

func printHistory(ctx context.Context, cfg config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	n := fs.Int("n", 10, "number of announcements to list")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := history.Open(cfg.HistoryDB)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Recent(ctx, *n)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "Nothing yet...")
		return nil
	}

	for _, e := range entries {
		fmt.Fprintf(out, "%s  %s", e.ConfirmedAt.Local().Format(time.DateTime), e.Identity)
		if e.Listeners > 0 {
			fmt.Fprintf(out, "  (tuned: %d)", e.Listeners)
		}
		fmt.Fprintln(out)
	}

	return nil
}
