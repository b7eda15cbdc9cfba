package summarize

import (
	"context"
	"fmt"
	"log"
	"time"

	"tldw/pkg/transcript"
)

// Generator is the optional free-text backend. Its output is untrusted:
// responses that do not parse into the expected three parts degrade to
// defaults instead of failing the summary.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Delegated reduces a transcript by asking a Generator for a three-part
// summary, then anchoring each key point back onto the transcript with the
// keyword aligner.
type Delegated struct {
	gen Generator
}

func NewDelegated(gen Generator) *Delegated {
	return &Delegated{gen: gen}
}

func (d *Delegated) Reduce(ctx context.Context, tr *transcript.Transcript) (*Summary, error) {
	if tr == nil || tr.Len() == 0 {
		return nil, ErrInsufficientTranscript
	}

	prompt := BuildPrompt(tr.Title, tr.Text())

	response, err := d.gen.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate summary: %w", err)
	}

	parsed := ParseStructuredText(response)
	if parsed.MainTopic == "" || len(parsed.KeyPoints) == 0 || parsed.Conclusion == "" {
		log.Printf("Generator response missing parts (topic=%t points=%d conclusion=%t), substituting defaults",
			parsed.MainTopic != "", len(parsed.KeyPoints), parsed.Conclusion != "")
	}
	parsed = parsed.WithDefaults()

	points := make([]Paragraph, 0, len(parsed.KeyPoints))
	for _, point := range parsed.KeyPoints {
		para := Paragraph{Text: point}
		if anchor, ok := Align(point, tr); ok {
			para.Timestamp = anchor.Timestamp
			para.Seconds = anchor.Seconds
		}
		points = append(points, para)
	}

	return &Summary{
		VideoID: tr.VideoID,
		Title:   tr.Title,
		Sections: []Section{
			{Title: SectionMainTopic, Paragraphs: []Paragraph{{Text: parsed.MainTopic}}},
			{Title: SectionKeyPoints, Paragraphs: points},
			{Title: SectionConclusion, Paragraphs: []Paragraph{{Text: parsed.Conclusion}}},
		},
		GeneratedAt: time.Now().UTC(),
	}, nil
}
