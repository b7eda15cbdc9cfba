package summarize

import (
	"context"
	"errors"
	"time"

	"tldw/pkg/transcript"
)

// Paragraph is one block of summary text, optionally anchored to a source
// timestamp. An empty Timestamp means the paragraph has no anchor and must
// not be rendered as a link; Seconds is meaningless in that case.
type Paragraph struct {
	Text      string `json:"text"`
	Timestamp string `json:"timestamp,omitempty"`
	Seconds   int    `json:"seconds,omitempty"`
}

// Section is one titled part of a summary.
type Section struct {
	Title      string      `json:"title"`
	Paragraphs []Paragraph `json:"paragraphs"`
}

// Summary is the three-section digest of one video: main topic, key points,
// conclusion, in that order.
type Summary struct {
	VideoID     string    `json:"video_id"`
	Title       string    `json:"title"`
	Sections    []Section `json:"sections"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Section titles shared by both reduction strategies.
const (
	SectionMainTopic  = "Main Topic"
	SectionKeyPoints  = "Key Points"
	SectionConclusion = "Conclusion"
)

// ErrInsufficientTranscript is returned when a reducer is handed an empty
// transcript. Extraction already refuses to produce one, so this is a
// defensive boundary rather than an expected path.
var ErrInsufficientTranscript = errors.New("transcript too short to summarize")

// Reducer turns a transcript into a summary.
type Reducer interface {
	Reduce(ctx context.Context, tr *transcript.Transcript) (*Summary, error)
}
