// SPDX-License-Identifier: EPL-2.0

package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ik5/audtag/tracker"
)

type lastResponse struct {
	State       string     `json:"state"`
	Track       string     `json:"track,omitempty"`
	URL         string     `json:"url,omitempty"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	SecondsAgo  *int64     `json:"seconds_ago,omitempty"`
	Candidate   string     `json:"candidate,omitempty"`
	Text        string     `json:"text"`
}

// newStatusMux serves GET /api/last with the tracker's last confirmation.
func newStatusMux(tr *tracker.Tracker, now func() time.Time) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/last", func(w http.ResponseWriter, r *http.Request) {
		at := now()
		st := tr.State()

		resp := lastResponse{
			State:     st.Kind.String(),
			Candidate: st.Candidate,
			Text:      tr.Since(at),
		}
		if c := st.Confirmed; c != nil {
			ago := int64(at.Sub(c.At) / time.Second)
			confirmedAt := c.At.UTC()
			resp.Track = c.Identity
			resp.ConfirmedAt = &confirmedAt
			resp.SecondsAgo = &ago
			if c.Track != nil {
				resp.URL = c.Track.URL
			}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	})

	return mux
}
