package extract

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tldw/pkg/page"
	"tldw/pkg/transcript"
)

// Source produces a transcript for a video, whatever the underlying
// mechanism. PanelExtractor reads the rendered transcript panel;
// TrackSource fetches the caption track over HTTP.
type Source interface {
	Transcript(ctx context.Context, videoID string) (*transcript.Transcript, error)
}

// Selectors describes where transcript UI lives in the page. The label
// strings the discovery chain searches for are fixed ("transcript",
// "caption", "more actions", "more options"); only the structural selectors
// vary between layouts.
type Selectors struct {
	Panel       string
	SegmentRow  string
	SegmentTime string
	SegmentText string
	Buttons     string
	Menu        string
	MenuItem    string
}

func DefaultSelectors() Selectors {
	return Selectors{
		Panel:       ".transcript-panel, ytd-transcript-renderer",
		SegmentRow:  ".segment, ytd-transcript-segment-renderer",
		SegmentTime: ".segment-timestamp",
		SegmentText: ".segment-text",
		Buttons:     "button",
		Menu:        ".menu-popup, ytd-menu-popup-renderer",
		MenuItem:    ".menu-item, ytd-menu-service-item-renderer",
	}
}

const (
	defaultPanelTimeout = 5 * time.Second
	defaultMenuTimeout  = 500 * time.Millisecond
)

// PanelExtractor pulls the ordered transcript out of a live page, opening
// the transcript panel first when it is not already visible. One extractor
// owns one page context; results are memoized per video for the lifetime of
// the extractor, and only a single extraction may run at a time.
type PanelExtractor struct {
	page         page.Page
	selectors    Selectors
	panelTimeout time.Duration
	menuTimeout  time.Duration

	mu       sync.Mutex
	inFlight bool
	memo     map[string]*transcript.Transcript
}

func NewPanelExtractor(p page.Page) *PanelExtractor {
	return &PanelExtractor{
		page:         p,
		selectors:    DefaultSelectors(),
		panelTimeout: defaultPanelTimeout,
		menuTimeout:  defaultMenuTimeout,
		memo:         make(map[string]*transcript.Transcript),
	}
}

// SetSelectors overrides the default layout selectors.
func (e *PanelExtractor) SetSelectors(s Selectors) {
	e.selectors = s
}

// SetTimeouts overrides the panel and menu observation windows.
func (e *PanelExtractor) SetTimeouts(panel, menu time.Duration) {
	e.panelTimeout = panel
	e.menuTimeout = menu
}

// Extract locates the transcript panel, opening it if necessary, and reads
// all segment rows in document order. A second call for the same video
// returns the memoized transcript without touching the page again.
func (e *PanelExtractor) Extract(ctx context.Context, videoID, title string) (*transcript.Transcript, error) {
	e.mu.Lock()
	if cached, ok := e.memo[videoID]; ok {
		e.mu.Unlock()
		return cached, nil
	}
	if e.inFlight {
		e.mu.Unlock()
		return nil, ErrBusy
	}
	e.inFlight = true
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.inFlight = false
		e.mu.Unlock()
	}()

	if err := e.ensurePanelOpen(ctx); err != nil {
		return nil, err
	}

	segments, err := e.readSegments(ctx)
	if err != nil {
		return nil, err
	}

	tr, err := transcript.New(videoID, title, segments)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEmptyTranscript, videoID)
	}

	e.mu.Lock()
	e.memo[videoID] = tr
	e.mu.Unlock()

	return tr, nil
}

// Transcript satisfies Source. The page has no title metadata the extractor
// owns, so the title is left to the caller via Extract when known.
func (e *PanelExtractor) Transcript(ctx context.Context, videoID string) (*transcript.Transcript, error) {
	return e.Extract(ctx, videoID, "")
}

func (e *PanelExtractor) ensurePanelOpen(ctx context.Context) error {
	// Already open: nothing to discover.
	if len(e.page.Find(e.selectors.Panel)) > 0 {
		return nil
	}

	control, err := e.locateControl(ctx)
	if err != nil {
		return err
	}

	if err := e.page.Click(ctx, control); err != nil {
		return fmt.Errorf("trigger transcript control: %w", err)
	}

	if _, err := e.page.WaitFor(ctx, e.selectors.Panel, e.panelTimeout); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w (waited %s)", ErrPanelTimeout, e.panelTimeout)
	}
	return nil
}

// locateControl walks the fallback chain: a directly labeled control first,
// then the overflow menu, then the secondary options menu. Order matters;
// the direct control is cheapest and most reliable.
func (e *PanelExtractor) locateControl(ctx context.Context) (*page.Element, error) {
	for _, label := range []string{"show transcript", "transcript", "caption"} {
		if el := e.page.FindByText(e.selectors.Buttons, label); el != nil {
			return el, nil
		}
	}

	if el, err := e.searchMenu(ctx, "more actions"); err != nil {
		return nil, err
	} else if el != nil {
		return el, nil
	}

	if el, err := e.searchMenu(ctx, "more options"); err != nil {
		return nil, err
	} else if el != nil {
		return el, nil
	}

	return nil, ErrNoTranscriptUI
}

// searchMenu opens the menu behind the button with the given label, looks
// for a transcript/caption entry, and closes the menu again when nothing
// matched. Failing to close is not fatal.
func (e *PanelExtractor) searchMenu(ctx context.Context, buttonLabel string) (*page.Element, error) {
	opener := e.page.FindByText(e.selectors.Buttons, buttonLabel)
	if opener == nil {
		return nil, nil
	}

	if err := e.page.Click(ctx, opener); err != nil {
		return nil, fmt.Errorf("open %q menu: %w", buttonLabel, err)
	}

	if _, err := e.page.WaitFor(ctx, e.selectors.Menu, e.menuTimeout); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// Menu never appeared; treat as no match and move on.
		return nil, nil
	}

	for _, label := range []string{"transcript", "caption"} {
		if el := e.page.FindByText(e.selectors.MenuItem, label); el != nil {
			return el, nil
		}
	}

	// No entry matched; toggle the opener to put the page back how we
	// found it.
	_ = e.page.Click(ctx, opener)

	return nil, nil
}

func (e *PanelExtractor) readSegments(ctx context.Context) ([]transcript.Segment, error) {
	if _, err := e.page.WaitFor(ctx, e.selectors.SegmentRow, e.panelTimeout); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: no segment rows", ErrEmptyTranscript)
	}

	var segments []transcript.Segment
	for _, row := range e.page.Find(e.selectors.SegmentRow) {
		times := row.Find(e.selectors.SegmentTime)
		texts := row.Find(e.selectors.SegmentText)
		// Rows missing either label are skipped, not fatal.
		if len(times) == 0 || len(texts) == 0 {
			continue
		}

		display := times[0].Text()
		text := texts[0].Text()
		if text == "" {
			continue
		}

		// One malformed stamp should not abort the transcript.
		seconds, err := transcript.ParseTimestamp(display)
		if err != nil {
			seconds = 0
		}

		segments = append(segments, transcript.Segment{
			Text:      text,
			Timestamp: display,
			Seconds:   seconds,
			Index:     len(segments),
		})
	}

	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: zero parsable rows", ErrEmptyTranscript)
	}
	return segments, nil
}
