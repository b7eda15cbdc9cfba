package summarize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStructuredText(t *testing.T) {
	response := `Main Topic: The video explains how solar panels work.

Key Points:
- Photons knock electrons loose in silicon cells
- Inverters convert DC output to usable AC power
- Panel efficiency drops as temperature rises

Conclusion: Solar is practical for most homes today.`

	parsed := ParseStructuredText(response)
	assert.Equal(t, "The video explains how solar panels work.", parsed.MainTopic)
	require.Len(t, parsed.KeyPoints, 3)
	assert.Equal(t, "Photons knock electrons loose in silicon cells", parsed.KeyPoints[0])
	assert.Equal(t, "Solar is practical for most homes today.", parsed.Conclusion)
}

func TestParseStructuredTextNumberedAndCased(t *testing.T) {
	response := `1. MAIN TOPIC:
An overview of sourdough baking.
2) key points:
1. Feed the starter daily
2. Autolyse before mixing
3. **Conclusion**: Practice makes better bread.`

	parsed := ParseStructuredText(response)
	assert.Equal(t, "An overview of sourdough baking.", parsed.MainTopic)
	require.Len(t, parsed.KeyPoints, 2)
	assert.Equal(t, "Feed the starter daily", parsed.KeyPoints[0])
	assert.Equal(t, "Autolyse before mixing", parsed.KeyPoints[1])
	assert.Equal(t, "Practice makes better bread.", parsed.Conclusion)
}

func TestParseStructuredTextAlternateLabels(t *testing.T) {
	response := `Introduction: what the talk covers.
Main Points:
* point one here
* point two here
Summary: closing thoughts.`

	parsed := ParseStructuredText(response)
	assert.Equal(t, "what the talk covers.", parsed.MainTopic)
	assert.Len(t, parsed.KeyPoints, 2)
	assert.Equal(t, "closing thoughts.", parsed.Conclusion)
}

func TestParseStructuredTextMissingParts(t *testing.T) {
	parsed := ParseStructuredText("Key Points:\n- only bullets came back")
	assert.Empty(t, parsed.MainTopic)
	assert.Len(t, parsed.KeyPoints, 1)
	assert.Empty(t, parsed.Conclusion)

	filled := parsed.WithDefaults()
	assert.NotEmpty(t, filled.MainTopic)
	assert.Equal(t, []string{"only bullets came back"}, filled.KeyPoints)
	assert.NotEmpty(t, filled.Conclusion)
}

func TestParseStructuredTextGarbage(t *testing.T) {
	parsed := ParseStructuredText("complete nonsense with no labels at all").WithDefaults()
	assert.NotEmpty(t, parsed.MainTopic)
	assert.NotEmpty(t, parsed.KeyPoints)
	assert.NotEmpty(t, parsed.Conclusion)
}

func TestTruncateMiddle(t *testing.T) {
	text := strings.Repeat("a", 500) + strings.Repeat("z", 500)

	out := TruncateMiddle(text, 100)
	assert.LessOrEqual(t, len(out), 100)
	assert.True(t, strings.HasPrefix(out, "a"))
	assert.True(t, strings.HasSuffix(out, "z"))
	assert.Contains(t, out, "...")

	// Under the limit, text passes through untouched.
	assert.Equal(t, "short", TruncateMiddle("short", 100))
}

func TestBuildPromptTruncates(t *testing.T) {
	long := strings.Repeat("transcript text ", 2000)
	prompt := BuildPrompt("A Title", long)

	assert.Contains(t, prompt, "A Title")
	assert.Contains(t, prompt, "Main Topic")
	assert.Less(t, len(prompt), maxTranscriptChars+1000)
}
