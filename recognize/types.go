// SPDX-License-Identifier: EPL-2.0

package recognize

import (
	"encoding/json"
	"strings"
)

// Response is the decoded body of a recognition reply.
type Response struct {
	Timestamp int64   `json:"timestamp"`
	TagID     string  `json:"tagid"`
	Matches   []Match `json:"matches"`
	Track     *Track  `json:"track"`
}

// Match carries the alignment the service found for one candidate.
type Match struct {
	ID            string  `json:"id"`
	Offset        float64 `json:"offset"`
	TimeSkew      float64 `json:"timeskew"`
	FrequencySkew float64 `json:"frequencyskew"`
}

type Track struct {
	Key         string    `json:"key"`
	Title       string    `json:"title"`
	Subtitle    string    `json:"subtitle"`
	ISRC        string    `json:"isrc,omitempty"`
	URL         string    `json:"url,omitempty"`
	AlbumAdamID string    `json:"albumadamid,omitempty"`
	Images      *Images   `json:"images,omitempty"`
	Genres      *Genres   `json:"genres,omitempty"`
	Artists     []Artist  `json:"artists,omitempty"`
	Sections    []Section `json:"sections,omitempty"`
}

type Images struct {
	Background string `json:"background"`
	CoverArt   string `json:"coverart"`
	CoverArtHQ string `json:"coverarthq"`
}

type Genres struct {
	Primary string `json:"primary"`
}

type Artist struct {
	ID     string `json:"id"`
	AdamID string `json:"adamid"`
}

// Identity is the "artist - title" key used to compare recognitions.
func (t *Track) Identity() string {
	return t.Subtitle + " - " + t.Title
}

// MetadataValue looks up an entry such as "Album" or "Label" in the
// track's metadata sections. Titles compare case-insensitively.
func (t *Track) MetadataValue(title string) (string, bool) {
	for _, s := range t.Sections {
		if s.Kind != SectionMetadata {
			continue
		}
		for _, m := range s.Metadata {
			if strings.EqualFold(m.Title, title) {
				return m.Text, true
			}
		}
	}

	return "", false
}

// SectionKind tells which shape a section was decoded as.
type SectionKind int

const (
	SectionOther SectionKind = iota
	SectionMetadata
	SectionArtist
)

// Section is one entry of a track's free-form sections list. Metadata
// sections carry Metadata; artist sections carry the ID, Name, TabName and
// Type fields. The undecoded JSON is always kept in Raw.
type Section struct {
	Kind     SectionKind
	Type     string
	Metadata []MetadataItem
	ID       string
	Name     string
	TabName  string
	Raw      json.RawMessage
}

type MetadataItem struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

func (s *Section) UnmarshalJSON(data []byte) error {
	var aux struct {
		Type     string          `json:"type"`
		Metadata *[]MetadataItem `json:"metadata"`
		ID       *string         `json:"id"`
		Name     *string         `json:"name"`
		TabName  *string         `json:"tabname"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*s = Section{
		Type: aux.Type,
		Raw:  append(json.RawMessage(nil), data...),
	}

	switch {
	case aux.Metadata != nil:
		s.Kind = SectionMetadata
		s.Metadata = *aux.Metadata
	case aux.ID != nil && aux.Name != nil && aux.TabName != nil && aux.Type != "":
		s.Kind = SectionArtist
		s.ID, s.Name, s.TabName = *aux.ID, *aux.Name, *aux.TabName
	}

	return nil
}

func (s Section) MarshalJSON() ([]byte, error) {
	if len(s.Raw) > 0 {
		return s.Raw, nil
	}

	return []byte("{}"), nil
}
