package summarize

import (
	"fmt"
	"strings"
)

// maxTranscriptChars is the fixed character budget for transcript text sent
// to a generator. It is not token-aware; the head and tail are kept and the
// middle elided, and cutting mid-word is acceptable.
const maxTranscriptChars = 12000

// BuildPrompt formats the summarization request for a free-text generator.
// Pure function; the generator session holds no formatting state.
func BuildPrompt(title, transcriptText string) string {
	text := TruncateMiddle(transcriptText, maxTranscriptChars)

	var sb strings.Builder
	sb.WriteString("Summarize this video transcript into exactly three parts:\n")
	sb.WriteString("1. Main Topic: one or two sentences on what the video is about.\n")
	sb.WriteString("2. Key Points: a bulleted list of the most important points.\n")
	sb.WriteString("3. Conclusion: one or two sentences on how it ends.\n\n")
	if title != "" {
		fmt.Fprintf(&sb, "Video title: %s\n\n", title)
	}
	sb.WriteString("Transcript:\n")
	sb.WriteString(text)
	return sb.String()
}

// TruncateMiddle bounds text to limit characters by keeping the head and
// tail and replacing the middle with an elision marker.
func TruncateMiddle(text string, limit int) string {
	if limit <= 0 || len(text) <= limit {
		return text
	}

	const marker = "\n...\n"
	budget := limit - len(marker)
	if budget <= 0 {
		return text[:limit]
	}

	head := budget * 2 / 3
	tail := budget - head
	return text[:head] + marker + text[len(text)-tail:]
}
