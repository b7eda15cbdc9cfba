package summarize

import (
	"context"
	"strings"
	"time"

	"tldw/pkg/transcript"
)

// Positional reduces a transcript by sampling segments at fixed positions:
// the opening is represented by a block around 10% in, the key points by
// blocks around 40%, 50% and 60%, and the conclusion by a block around 75%.
// No language understanding is involved, so identical transcripts always
// produce identical sections.
type Positional struct {
	blockSize int
}

func NewPositional() *Positional {
	return &Positional{blockSize: 15}
}

// SetBlockSize overrides how many consecutive segments form one paragraph.
func (p *Positional) SetBlockSize(n int) {
	if n > 0 {
		p.blockSize = n
	}
}

func (p *Positional) Reduce(_ context.Context, tr *transcript.Transcript) (*Summary, error) {
	if tr == nil || tr.Len() == 0 {
		return nil, ErrInsufficientTranscript
	}

	intro := p.sampleParagraph(tr, 0.10)

	// Key-point anchors sit inside the middle third. On short transcripts
	// the quantiles collapse onto the same segment; duplicates are dropped
	// rather than repeated.
	var points []Paragraph
	seen := make(map[int]bool)
	for _, q := range []float64{0.40, 0.50, 0.60} {
		idx := quantileIndex(tr.Len(), q)
		if seen[idx] {
			continue
		}
		seen[idx] = true
		points = append(points, p.paragraphAt(tr, idx))
	}

	conclusion := p.sampleParagraph(tr, 0.75)

	return &Summary{
		VideoID: tr.VideoID,
		Title:   tr.Title,
		Sections: []Section{
			{Title: SectionMainTopic, Paragraphs: []Paragraph{intro}},
			{Title: SectionKeyPoints, Paragraphs: points},
			{Title: SectionConclusion, Paragraphs: []Paragraph{conclusion}},
		},
		GeneratedAt: time.Now().UTC(),
	}, nil
}

func (p *Positional) sampleParagraph(tr *transcript.Transcript, quantile float64) Paragraph {
	return p.paragraphAt(tr, quantileIndex(tr.Len(), quantile))
}

// paragraphAt joins a block of segments starting at idx into one paragraph
// anchored at the first segment of the block.
func (p *Positional) paragraphAt(tr *transcript.Transcript, idx int) Paragraph {
	end := idx + p.blockSize
	if end > tr.Len() {
		end = tr.Len()
	}

	var sb strings.Builder
	for _, seg := range tr.Segments[idx:end] {
		if sb.Len() > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(seg.Text)
	}

	anchor := tr.Segments[idx]
	return Paragraph{
		Text:      sb.String(),
		Timestamp: anchor.Timestamp,
		Seconds:   anchor.Seconds,
	}
}

func quantileIndex(n int, q float64) int {
	idx := int(float64(n) * q)
	if idx >= n {
		idx = n - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}
