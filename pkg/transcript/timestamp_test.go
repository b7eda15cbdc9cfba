package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		display string
		want    int
	}{
		{"0:00", 0},
		{"0:05", 5},
		{"1:05", 65},
		{"12:34", 754},
		{"1:02:05", 3725},
		{"2:00:00", 7200},
		{"10:00:01", 36001},
	}

	for _, tt := range tests {
		got, err := ParseTimestamp(tt.display)
		require.NoError(t, err, "display %q", tt.display)
		assert.Equal(t, tt.want, got, "display %q", tt.display)
	}
}

func TestParseTimestamp_Malformed(t *testing.T) {
	for _, display := range []string{"", "42", "1:2:3:4", "ab:cd", "1:-5", "::"} {
		_, err := ParseTimestamp(display)
		assert.Error(t, err, "display %q", display)
	}
}

func TestFormatTimestamp(t *testing.T) {
	assert.Equal(t, "1:05", FormatTimestamp(65))
	assert.Equal(t, "1:02:05", FormatTimestamp(3725))
	assert.Equal(t, "0:00", FormatTimestamp(0))
	assert.Equal(t, "0:59", FormatTimestamp(59))
	assert.Equal(t, "59:59", FormatTimestamp(3599))
	assert.Equal(t, "1:00:00", FormatTimestamp(3600))
	assert.Equal(t, "0:00", FormatTimestamp(-7))
}

func TestTimestampRoundTrip(t *testing.T) {
	for _, display := range []string{"0:07", "1:05", "59:59", "1:02:05", "11:22:33"} {
		secs, err := ParseTimestamp(display)
		require.NoError(t, err)

		again, err := ParseTimestamp(FormatTimestamp(secs))
		require.NoError(t, err)
		assert.Equal(t, secs, again, "display %q", display)
	}
}

func TestTranscriptText(t *testing.T) {
	tr, err := New("dQw4w9WgXcQ", "Test Video", []Segment{
		{Text: "hello there", Timestamp: "0:00", Seconds: 0, Index: 0},
		{Text: "general kenobi", Timestamp: "0:05", Seconds: 5, Index: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, "hello there general kenobi", tr.Text())
	assert.Equal(t, "[0:00] hello there\n[0:05] general kenobi\n", tr.WithTimestamps())
	assert.Equal(t, 2, tr.Len())
}

func TestTranscriptEmpty(t *testing.T) {
	_, err := New("dQw4w9WgXcQ", "Test Video", nil)
	assert.ErrorIs(t, err, ErrNoSegments)
}
