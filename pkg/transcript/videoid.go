package transcript

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// videoIDRegex matches the platform's 11-character opaque video key.
var videoIDRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// IsVideoID reports whether s is a well-formed 11-character video identifier.
func IsVideoID(s string) bool {
	return videoIDRegex.MatchString(s)
}

// ParseVideoID extracts the video identifier from a watch URL. Supported
// shapes: youtube.com/watch?v=ID, youtu.be/ID, /embed/ID and /shorts/ID.
func ParseVideoID(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	var videoID string

	if strings.Contains(parsed.Host, "youtube.com") {
		videoID = parsed.Query().Get("v")
	}

	if strings.Contains(parsed.Host, "youtu.be") {
		videoID = strings.TrimPrefix(parsed.Path, "/")
	}

	if strings.Contains(parsed.Path, "/embed/") {
		videoID = strings.TrimPrefix(parsed.Path, "/embed/")
	}

	if strings.Contains(parsed.Path, "/shorts/") {
		videoID = strings.TrimPrefix(parsed.Path, "/shorts/")
	}

	videoID = strings.Split(videoID, "?")[0]
	videoID = strings.Split(videoID, "/")[0]

	if !IsVideoID(videoID) {
		return "", fmt.Errorf("could not extract video ID from URL: %s", rawURL)
	}

	return videoID, nil
}
