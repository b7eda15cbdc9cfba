package transcript

import (
	"fmt"
	"strings"
)

// Segment is one caption line with its display timestamp and derived seconds.
type Segment struct {
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
	Seconds   int    `json:"seconds"`
	Index     int    `json:"index"`
}

// Transcript is the full ordered caption sequence for one video.
// An empty transcript is an extraction failure, never a valid value,
// so constructors at the extraction boundary enforce non-emptiness.
type Transcript struct {
	VideoID  string    `json:"video_id"`
	Title    string    `json:"title"`
	Segments []Segment `json:"segments"`
}

// ErrNoSegments is returned by New when given zero segments.
var ErrNoSegments = fmt.Errorf("transcript has no segments")

func New(videoID, title string, segments []Segment) (*Transcript, error) {
	if len(segments) == 0 {
		return nil, ErrNoSegments
	}
	return &Transcript{
		VideoID:  videoID,
		Title:    title,
		Segments: segments,
	}, nil
}

func (t *Transcript) Len() int {
	return len(t.Segments)
}

// Text joins all segment text into a single space-separated string.
func (t *Transcript) Text() string {
	var sb strings.Builder
	for _, seg := range t.Segments {
		sb.WriteString(seg.Text)
		sb.WriteString(" ")
	}
	return strings.TrimSpace(sb.String())
}

// WithTimestamps renders the transcript one line per segment,
// each prefixed with its display timestamp in brackets.
func (t *Transcript) WithTimestamps() string {
	var sb strings.Builder
	for _, seg := range t.Segments {
		sb.WriteString(fmt.Sprintf("[%s] %s\n", seg.Timestamp, seg.Text))
	}
	return sb.String()
}
