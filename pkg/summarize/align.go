package summarize

import (
	"strings"

	"tldw/pkg/transcript"
)

// Anchor is a resolved source position for a free-text key point.
type Anchor struct {
	Timestamp string
	Seconds   int
}

const minKeywordLength = 5

// Align finds the transcript segment that best matches a free-text key
// point and returns its timestamp. Matching is a deliberate bag-of-words
// heuristic: keywords are the point's lower-cased tokens of five or more
// characters, a segment scores one per keyword appearing as a substring of
// its text, the strictly highest score wins and chronological iteration
// means earlier segments win ties. The match is accepted only when the best
// score reaches min(2, number of keywords); otherwise ok is false and the
// point stays unanchored.
func Align(point string, tr *transcript.Transcript) (Anchor, bool) {
	keywords := extractKeywords(point)
	if len(keywords) == 0 || tr == nil || tr.Len() == 0 {
		return Anchor{}, false
	}

	threshold := 2
	if len(keywords) < threshold {
		threshold = len(keywords)
	}

	bestCount := 0
	bestIdx := -1
	for i, seg := range tr.Segments {
		text := strings.ToLower(seg.Text)
		count := 0
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				count++
			}
		}
		if count > bestCount {
			bestCount = count
			bestIdx = i
		}
	}

	if bestIdx < 0 || bestCount < threshold {
		return Anchor{}, false
	}

	seg := tr.Segments[bestIdx]
	return Anchor{Timestamp: seg.Timestamp, Seconds: seg.Seconds}, true
}

func extractKeywords(point string) []string {
	var keywords []string
	for _, tok := range strings.Fields(strings.ToLower(point)) {
		tok = strings.TrimRight(tok, ".,;:!?\"')")
		if len(tok) >= minKeywordLength {
			keywords = append(keywords, tok)
		}
	}
	return keywords
}
