package history

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"tldw/pkg/summarize"
	"tldw/pkg/surreal"
)

const table = "summaries"

// Store archives generated summaries in SurrealDB. The cache answers
// "have I summarized this recently"; the archive answers "what have I
// summarized, ever".
type Store struct {
	client *surreal.Client
}

// Record is one archived summary row. Sections travel as a JSON string so
// the row shape stays flat.
type Record struct {
	VideoID     string `json:"video_id"`
	Title       string `json:"title"`
	Sections    string `json:"sections"`
	GeneratedAt int64  `json:"generated_at"`
}

func NewStore(client *surreal.Client) *Store {
	store := &Store{client: client}
	if err := store.Init(); err != nil {
		// The DB may be reachable later or the schema may already exist;
		// archiving is best-effort either way.
		log.Printf("Warning: Failed to initialize summary archive schema: %v", err)
	}
	return store
}

func (s *Store) Init() error {
	if err := surreal.ValidateIdentifier(table); err != nil {
		return err
	}
	query := `
		DEFINE TABLE IF NOT EXISTS summaries SCHEMAFULL;
		DEFINE FIELD IF NOT EXISTS video_id ON summaries TYPE string;
		DEFINE FIELD IF NOT EXISTS title ON summaries TYPE string;
		DEFINE FIELD IF NOT EXISTS sections ON summaries TYPE string;
		DEFINE FIELD IF NOT EXISTS generated_at ON summaries TYPE int;
	`
	_, err := s.client.Query(query, map[string]interface{}{})
	return err
}

// Save upserts one summary keyed by its video ID.
func (s *Store) Save(summary *summarize.Summary) error {
	sections, err := json.Marshal(summary.Sections)
	if err != nil {
		return fmt.Errorf("marshal sections: %w", err)
	}

	query := `
		INSERT INTO summaries (id, video_id, title, sections, generated_at)
		VALUES (type::thing("summaries", $video_id), $video_id, $title, $sections, $generated_at)
		ON DUPLICATE KEY UPDATE title = $title, sections = $sections, generated_at = $generated_at;
	`
	_, err = s.client.Query(query, map[string]interface{}{
		"video_id":     summary.VideoID,
		"title":        summary.Title,
		"sections":     string(sections),
		"generated_at": summary.GeneratedAt.Unix(),
	})
	return err
}

// ByVideo returns the archived summary for a video, or nil when absent.
func (s *Store) ByVideo(videoID string) (*summarize.Summary, error) {
	query := `SELECT video_id, title, sections, generated_at FROM type::thing("summaries", $video_id);`
	result, err := s.client.Query(query, map[string]interface{}{"video_id": videoID})
	if err != nil {
		return nil, err
	}

	records := decodeRecords(result)
	if len(records) == 0 {
		return nil, nil
	}
	return recordToSummary(records[0])
}

// Recent returns up to limit archived summaries, newest first.
func (s *Store) Recent(limit int) ([]*summarize.Summary, error) {
	query := `SELECT video_id, title, sections, generated_at FROM summaries ORDER BY generated_at DESC LIMIT $limit;`
	result, err := s.client.Query(query, map[string]interface{}{"limit": limit})
	if err != nil {
		return nil, err
	}

	var summaries []*summarize.Summary
	for _, rec := range decodeRecords(result) {
		sum, err := recordToSummary(rec)
		if err != nil {
			log.Printf("Skipping unreadable archive row for %s: %v", rec.VideoID, err)
			continue
		}
		summaries = append(summaries, sum)
	}
	return summaries, nil
}

// decodeRecords flattens the driver's loosely typed rows into Records by
// round-tripping through JSON, which is simpler and safer than walking
// nested type assertions.
func decodeRecords(result interface{}) []Record {
	rows, ok := result.([]interface{})
	if !ok {
		return nil
	}

	var records []Record
	for _, row := range rows {
		data, err := json.Marshal(row)
		if err != nil {
			continue
		}
		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			continue
		}
		if rec.VideoID != "" {
			records = append(records, rec)
		}
	}
	return records
}

func recordToSummary(rec Record) (*summarize.Summary, error) {
	var sections []summarize.Section
	if err := json.Unmarshal([]byte(rec.Sections), &sections); err != nil {
		return nil, fmt.Errorf("unmarshal sections for %s: %w", rec.VideoID, err)
	}

	return &summarize.Summary{
		VideoID:     rec.VideoID,
		Title:       rec.Title,
		Sections:    sections,
		GeneratedAt: time.Unix(rec.GeneratedAt, 0).UTC(),
	}, nil
}
