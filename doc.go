// SPDX-License-Identifier: EPL-2.0

// Package audtag identifies the music playing on an internet radio stream.
//
// Each iteration of a Pipeline captures the first few hundred kilobytes of
// the stream, decodes them to 16 kHz mono PCM, builds a spectral peak
// signature, submits it to the recognition service and hands the result to
// a tracker that only confirms a track after two consecutive recognitions
// agree. Confirmed tracks are passed to an announcer.
//
// # Packages
//
//   - audio and formats/* decode mp3, ogg, wav and aiff input and resample
//     it with a band-limited sinc filter
//   - signature generates and serializes fingerprints
//   - recognize talks to the recognition service
//   - stream captures a bounded prefix of a live stream
//   - tracker debounces recognitions and defines announcers
//   - nowplaying and history supply station metadata and a SQLite log
//
// # Quick Start
//
// Fingerprint a local file:
//
//	f, _ := os.Open("song.mp3")
//	sig, _, err := audtag.Fingerprint(audtag.DefaultRegistry(), "mp3", f, 0)
//	uri, _ := signature.EncodeURI(sig)
//
// Watch a stream:
//
//	p := &audtag.Pipeline{
//		StreamURL:  "https://radio.example/live.mp3",
//		Fetcher:    stream.NewFetcher(nil, stream.DefaultByteBudget),
//		Recognizer: recognize.NewClient(),
//		Tracker:    tracker.New(),
//		Announcer:  tracker.LogAnnouncer{Logger: logger},
//		Logger:     logger,
//	}
//	err := p.Run(ctx)
//
// Iteration errors never stop Run. They are logged at the level Classify
// picks for them and the next iteration starts, after Pause if one is set.
package audtag
