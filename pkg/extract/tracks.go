package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"tldw/pkg/page"
	"tldw/pkg/transcript"
)

// TrackSource obtains transcripts without a rendered page by reading the
// caption track advertised in the watch-page HTML. It is the headless
// counterpart of PanelExtractor and serves the same Source contract.
type TrackSource struct {
	fetcher *page.Fetcher
	baseURL string
}

func NewTrackSource(f *page.Fetcher) *TrackSource {
	return &TrackSource{
		fetcher: f,
		baseURL: "https://www.youtube.com",
	}
}

// SetBaseURL points the source at a different host (tests).
func (s *TrackSource) SetBaseURL(u string) {
	s.baseURL = u
}

var playerResponseRegex = regexp.MustCompile(`ytInitialPlayerResponse\s*=\s*({.+?});`)

type captionTrack struct {
	URL          string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
}

func (s *TrackSource) Transcript(ctx context.Context, videoID string) (*transcript.Transcript, error) {
	watchURL := fmt.Sprintf("%s/watch?v=%s", s.baseURL, videoID)

	fetched, err := s.fetcher.Fetch(ctx, watchURL)
	if err != nil {
		return nil, fmt.Errorf("fetch watch page: %w", err)
	}

	tracks, err := extractCaptionTracks(fetched.HTML)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoTranscriptUI, err)
	}
	if len(tracks) == 0 {
		return nil, fmt.Errorf("%w: no caption tracks for %s", ErrNoTranscriptUI, videoID)
	}

	track := pickTrack(tracks)

	captions, err := s.fetcher.Fetch(ctx, track.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch captions: %w", err)
	}

	segments := parseTimedText(captions.HTML)
	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: track %s yielded nothing", ErrEmptyTranscript, track.LanguageCode)
	}

	title := extractVideoTitle(fetched.HTML)

	return transcript.New(videoID, title, segments)
}

func extractCaptionTracks(watchHTML string) ([]captionTrack, error) {
	match := playerResponseRegex.FindStringSubmatch(watchHTML)
	if len(match) < 2 {
		return nil, fmt.Errorf("could not find ytInitialPlayerResponse")
	}

	var playerResponse struct {
		Captions struct {
			PlayerCaptionsTracklistRenderer struct {
				CaptionTracks []captionTrack `json:"captionTracks"`
			} `json:"playerCaptionsTracklistRenderer"`
		} `json:"captions"`
	}

	if err := json.Unmarshal([]byte(match[1]), &playerResponse); err != nil {
		return nil, err
	}

	return playerResponse.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks, nil
}

// pickTrack prefers an English track and otherwise takes the first one.
func pickTrack(tracks []captionTrack) captionTrack {
	for _, t := range tracks {
		if strings.Contains(t.LanguageCode, "en") {
			return t
		}
	}
	return tracks[0]
}

var timedTextRegex = regexp.MustCompile(`<text\s+start="([\d.]+)"\s+dur="([\d.]+)"[^>]*>([^<]+)</text>`)

func parseTimedText(xml string) []transcript.Segment {
	var segments []transcript.Segment

	for _, match := range timedTextRegex.FindAllStringSubmatch(xml, -1) {
		var start float64
		fmt.Sscanf(match[1], "%f", &start)

		text := html.UnescapeString(match[3])
		text = strings.ReplaceAll(text, "\n", " ")
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		seconds := int(start)
		segments = append(segments, transcript.Segment{
			Text:      text,
			Timestamp: transcript.FormatTimestamp(seconds),
			Seconds:   seconds,
			Index:     len(segments),
		})
	}

	return segments
}

func extractVideoTitle(watchHTML string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(watchHTML))
	if err != nil {
		return ""
	}

	if title, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && title != "" {
		return title
	}

	title := strings.TrimSpace(doc.Find("title").Text())
	return strings.TrimSuffix(title, " - YouTube")
}
