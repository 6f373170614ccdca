// SPDX-License-Identifier: EPL-2.0

package vorbis_test

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ik5/audtag/audio"
	"github.com/ik5/audtag/formats/vorbis"
)

// Example_notOgg shows that input without an Ogg page is reported as having
// no decodable frames.
func Example_notOgg() {
	_, err := vorbis.Decoder{}.Decode(bytes.NewReader([]byte("ID3 not an ogg stream")))
	fmt.Println(errors.Is(err, audio.ErrNoFrames))
	// Output: true
}
