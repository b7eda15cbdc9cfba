package summarize

import (
	"regexp"
	"strings"
)

// StructuredText is generator output split into the three expected parts.
// Empty fields mean the label was missing or had no content; callers
// substitute neutral defaults rather than failing the summary.
type StructuredText struct {
	MainTopic  string
	KeyPoints  []string
	Conclusion string
}

// Label detection tolerates numbering ("1." / "2)"), markdown bold markers,
// arbitrary case and surrounding whitespace. Order in the response does not
// matter; the label decides where a line's content goes.
var (
	mainTopicLabel  = regexp.MustCompile(`(?i)^\s*(?:\d+[.)]\s*)?(?:\*+\s*)?(?:main\s*topic|introduction)\s*(?:\*+\s*)?:?\s*(.*)$`)
	keyPointsLabel  = regexp.MustCompile(`(?i)^\s*(?:\d+[.)]\s*)?(?:\*+\s*)?(?:key\s*points?|main\s*points?)\s*(?:\*+\s*)?:?\s*(.*)$`)
	conclusionLabel = regexp.MustCompile(`(?i)^\s*(?:\d+[.)]\s*)?(?:\*+\s*)?(?:conclusion|summary)\s*(?:\*+\s*)?:?\s*(.*)$`)

	bulletPrefix = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s+`)
)

// ParseStructuredText splits a generator response into main topic, key
// points and conclusion. The response format is untrusted; parsing is
// line-based and keeps whatever parts it can find.
func ParseStructuredText(response string) StructuredText {
	var out StructuredText

	const (
		partNone = iota
		partTopic
		partPoints
		partConclusion
	)
	part := partNone

	var topicLines, conclusionLines []string

	for _, line := range strings.Split(response, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if m := mainTopicLabel.FindStringSubmatch(trimmed); m != nil {
			part = partTopic
			if rest := strings.TrimSpace(m[1]); rest != "" {
				topicLines = append(topicLines, rest)
			}
			continue
		}
		if m := keyPointsLabel.FindStringSubmatch(trimmed); m != nil {
			part = partPoints
			if rest := strings.TrimSpace(bulletPrefix.ReplaceAllString(m[1], "")); rest != "" {
				out.KeyPoints = append(out.KeyPoints, rest)
			}
			continue
		}
		if m := conclusionLabel.FindStringSubmatch(trimmed); m != nil {
			part = partConclusion
			if rest := strings.TrimSpace(m[1]); rest != "" {
				conclusionLines = append(conclusionLines, rest)
			}
			continue
		}

		switch part {
		case partTopic:
			topicLines = append(topicLines, trimmed)
		case partPoints:
			point := strings.TrimSpace(bulletPrefix.ReplaceAllString(trimmed, ""))
			if point != "" {
				out.KeyPoints = append(out.KeyPoints, point)
			}
		case partConclusion:
			conclusionLines = append(conclusionLines, trimmed)
		}
	}

	out.MainTopic = strings.Join(topicLines, " ")
	out.Conclusion = strings.Join(conclusionLines, " ")
	return out
}

// Neutral fallbacks used when the generator response is missing a part.
const (
	defaultMainTopic  = "This video discusses the topics covered in its transcript."
	defaultKeyPoint   = "See the transcript for details."
	defaultConclusion = "The video concludes by wrapping up the topics above."
)

// WithDefaults fills any missing part with neutral text so a partially
// parsable response still yields a complete three-part structure.
func (s StructuredText) WithDefaults() StructuredText {
	if strings.TrimSpace(s.MainTopic) == "" {
		s.MainTopic = defaultMainTopic
	}
	if len(s.KeyPoints) == 0 {
		s.KeyPoints = []string{defaultKeyPoint}
	}
	if strings.TrimSpace(s.Conclusion) == "" {
		s.Conclusion = defaultConclusion
	}
	return s
}
