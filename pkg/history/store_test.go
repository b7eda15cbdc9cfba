package history

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tldw/pkg/summarize"
	"tldw/pkg/surreal"
)

func surrealClient(t *testing.T) *surreal.Client {
	t.Helper()

	if err := godotenv.Load("../../.env"); err != nil {
		t.Log("Warning: Error loading .env file")
	}

	host := os.Getenv("SURREAL_DB_HOST")
	user := os.Getenv("SURREAL_DB_USER")
	pass := os.Getenv("SURREAL_DB_PASS")
	if host == "" || user == "" || pass == "" {
		t.Skip("Skipping SurrealDB test: Missing environment variables")
	}

	ns := os.Getenv("SURREAL_DB_NAMESPACE")
	db := os.Getenv("SURREAL_DB_DATABASE")
	if ns == "" {
		ns = "tldw"
	}
	if db == "" {
		db = "history"
	}

	if host[:4] != "ws://" && host[:5] != "wss://" {
		host = "wss://" + host + "/rpc"
	}

	client, err := surreal.NewClient(host, user, pass, ns, db)
	require.NoError(t, err)
	t.Cleanup(client.Close)
	return client
}

func TestStoreSaveAndFetch(t *testing.T) {
	client := surrealClient(t)
	store := NewStore(client)

	sum := &summarize.Summary{
		VideoID: "testvideo01",
		Title:   "Archive Test",
		Sections: []summarize.Section{
			{Title: summarize.SectionMainTopic, Paragraphs: []summarize.Paragraph{{Text: "topic"}}},
			{Title: summarize.SectionKeyPoints, Paragraphs: []summarize.Paragraph{{Text: "point", Timestamp: "1:05", Seconds: 65}}},
			{Title: summarize.SectionConclusion, Paragraphs: []summarize.Paragraph{{Text: "end"}}},
		},
		GeneratedAt: time.Now().UTC().Truncate(time.Second),
	}

	require.NoError(t, store.Save(sum))

	got, err := store.ByVideo("testvideo01")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, sum.Title, got.Title)
	assert.Equal(t, sum.Sections, got.Sections)

	recent, err := store.Recent(10)
	require.NoError(t, err)
	assert.NotEmpty(t, recent)
}

func TestDecodeRecords(t *testing.T) {
	sections, err := json.Marshal([]summarize.Section{
		{Title: summarize.SectionMainTopic, Paragraphs: []summarize.Paragraph{{Text: "topic"}}},
	})
	require.NoError(t, err)

	rows := []interface{}{
		map[string]interface{}{
			"video_id":     "dQw4w9WgXcQ",
			"title":        "A Video",
			"sections":     string(sections),
			"generated_at": float64(1700000000),
		},
		map[string]interface{}{"unrelated": true},
	}

	records := decodeRecords(rows)
	require.Len(t, records, 1)
	assert.Equal(t, "dQw4w9WgXcQ", records[0].VideoID)

	sum, err := recordToSummary(records[0])
	require.NoError(t, err)
	assert.Equal(t, "A Video", sum.Title)
	assert.Equal(t, int64(1700000000), sum.GeneratedAt.Unix())
}

func TestRecordToSummaryBadSections(t *testing.T) {
	_, err := recordToSummary(Record{VideoID: "dQw4w9WgXcQ", Sections: "not json"})
	assert.Error(t, err)
}
