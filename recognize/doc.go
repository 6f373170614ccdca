// SPDX-License-Identifier: EPL-2.0

// Package recognize submits audio signatures to the Shazam discovery
// endpoint and decodes its replies.
//
// Each request is a JSON POST to
//
//	{base}/discovery/v5/en/US/android/-/tag/{uuid}/{uuid}?sync=true&...
//
// where both path identifiers are fresh random UUIDs. The body carries the
// signature as a data URI (see signature.EncodeURI), its duration in
// milliseconds, a millisecond timestamp used twice, a fixed geolocation and a
// timezone. A User-Agent is drawn from a pool of Android strings for every
// request.
//
// Errors fall into three classes that callers test with errors.Is:
// ErrTransport for network failures, timeouts and non-2xx statuses,
// ErrSerialization for bodies that are not the expected JSON, and ErrNoMatch
// (from Identify only) when the service answered without a track. The client
// never retries.
package recognize
