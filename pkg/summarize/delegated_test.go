package summarize

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockGenerator struct {
	GenerateFunc func(ctx context.Context, prompt string) (string, error)
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}
	return "", nil
}

func TestDelegatedReduce(t *testing.T) {
	tr := makeTranscript(t,
		"today we discuss machine learning basics",
		"later we explore neural networks deeply",
		"finally we summarize everything covered",
	)

	gen := &mockGenerator{
		GenerateFunc: func(_ context.Context, prompt string) (string, error) {
			assert.Contains(t, prompt, "machine learning basics")
			return `Main Topic: A machine learning introduction.
Key Points:
- neural networks explained deeply
- something completely unrelated to any segment
Conclusion: Everything gets wrapped up.`, nil
		},
	}

	sum, err := NewDelegated(gen).Reduce(context.Background(), tr)
	require.NoError(t, err)

	require.Len(t, sum.Sections, 3)
	assert.Equal(t, "A machine learning introduction.", sum.Sections[0].Paragraphs[0].Text)

	points := sum.Sections[1].Paragraphs
	require.Len(t, points, 2)

	// First point aligns onto the neural-networks segment.
	assert.Equal(t, "0:10", points[0].Timestamp)
	assert.Equal(t, 10, points[0].Seconds)

	// Second point matches nothing, so it carries no anchor.
	assert.Empty(t, points[1].Timestamp)

	// Topic and conclusion paragraphs are never linked.
	assert.Empty(t, sum.Sections[0].Paragraphs[0].Timestamp)
	assert.Empty(t, sum.Sections[2].Paragraphs[0].Timestamp)
}

func TestDelegatedReduceUnparsableResponse(t *testing.T) {
	tr := makeTranscript(t, "some transcript content here")

	gen := &mockGenerator{
		GenerateFunc: func(context.Context, string) (string, error) {
			return "the model rambled with no structure whatsoever", nil
		},
	}

	sum, err := NewDelegated(gen).Reduce(context.Background(), tr)
	require.NoError(t, err)

	// Defaults substitute for every missing part; the summary never fails.
	require.Len(t, sum.Sections, 3)
	for _, sec := range sum.Sections {
		assert.NotEmpty(t, sec.Paragraphs, "section %s", sec.Title)
	}
}

func TestDelegatedReduceGeneratorError(t *testing.T) {
	tr := makeTranscript(t, "some transcript content here")

	gen := &mockGenerator{
		GenerateFunc: func(context.Context, string) (string, error) {
			return "", fmt.Errorf("model not loaded")
		},
	}

	_, err := NewDelegated(gen).Reduce(context.Background(), tr)
	assert.Error(t, err)
}
