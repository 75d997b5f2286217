package transcript

import (
	"fmt"
	"math"
	"strings"
)

// Segment is a transcribed utterance with start/end offsets in seconds.
type Segment struct {
	ID    int     `json:"id"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// At returns the first segment whose range contains t, bounds inclusive.
// Segments are scanned linearly on every call.
func At(segments []Segment, t float64) (Segment, bool) {
	i := Index(segments, t)
	if i < 0 {
		return Segment{}, false
	}
	return segments[i], true
}

// Index returns the position of the first segment containing t, or -1.
func Index(segments []Segment, t float64) int {
	for i, seg := range segments {
		if t >= seg.Start && t <= seg.End {
			return i
		}
	}
	return -1
}

// FormatTime renders seconds as mm:ss. Minutes are not rolled over into hours.
func FormatTime(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	total := int(math.Floor(seconds))
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// FormatSRTTime renders seconds as hh:mm:ss,mmm.
func FormatSRTTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	ms := int(math.Round(seconds * 1000))
	h := ms / 3600000
	m := (ms % 3600000) / 60000
	s := (ms % 60000) / 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms%1000)
}

// Duration returns the end of the last segment.
func Duration(segments []Segment) float64 {
	var end float64
	for _, seg := range segments {
		if seg.End > end {
			end = seg.End
		}
	}
	return end
}

// CountWords counts words in segments.
func CountWords(segments []Segment) int {
	count := 0
	for _, seg := range segments {
		count += len(strings.Fields(seg.Text))
	}
	return count
}
