package digest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"tldw/pkg/cache"
	"tldw/pkg/extract"
	"tldw/pkg/generate"
	"tldw/pkg/summarize"
	"tldw/pkg/transcript"
)

// State is the lifecycle of one summarization request.
type State int

const (
	StateIdle State = iota
	StateExtractingInfo
	StateCheckingCache
	StateExtractingTranscript
	StateReducing
	StateAligning
	StateCaching
	StateDone
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateExtractingInfo:
		return "extracting-info"
	case StateCheckingCache:
		return "checking-cache"
	case StateExtractingTranscript:
		return "extracting-transcript"
	case StateReducing:
		return "reducing"
	case StateAligning:
		return "aligning"
	case StateCaching:
		return "caching"
	case StateDone:
		return "done"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// ErrBusy means a request for the same video is already active.
var ErrBusy = errors.New("summarization already in progress")

// Error wraps a failure with the state it happened in, so callers can tell
// which stage of the pipeline gave up.
type Error struct {
	State State
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.State, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Result is a completed summarization.
type Result struct {
	Summary   *summarize.Summary
	FromCache bool
	Strategy  string
}

// Archiver receives every fresh summary, best-effort.
type Archiver interface {
	Save(summary *summarize.Summary) error
}

// Orchestrator drives one summarization request end to end: cache check,
// transcript extraction, reduction, alignment, caching. It never retries a
// failed stage; retry policy belongs to whoever drives repeated attempts.
type Orchestrator struct {
	source     extract.Source
	cache      *cache.Cache
	positional *summarize.Positional
	session    *generate.Session
	archive    Archiver

	mu     sync.Mutex
	active map[string]bool
	states map[string]State
}

func NewOrchestrator(source extract.Source, c *cache.Cache) *Orchestrator {
	return &Orchestrator{
		source:     source,
		cache:      c,
		positional: summarize.NewPositional(),
		active:     make(map[string]bool),
		states:     make(map[string]State),
	}
}

// SetGeneratorSession attaches an optional generator. When the session is
// ready the delegated strategy runs first, falling back to positional
// sampling if the generator fails outright.
func (o *Orchestrator) SetGeneratorSession(s *generate.Session) {
	o.session = s
}

// SetArchiver attaches an optional summary archive.
func (o *Orchestrator) SetArchiver(a Archiver) {
	o.archive = a
}

// SetBlockSize tunes the positional reducer's paragraph size.
func (o *Orchestrator) SetBlockSize(n int) {
	o.positional.SetBlockSize(n)
}

// State reports the last observed state for a video.
func (o *Orchestrator) State(videoID string) State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.states[videoID]
}

func (o *Orchestrator) setState(videoID string, s State) {
	o.mu.Lock()
	o.states[videoID] = s
	o.mu.Unlock()
}

// Summarize runs the full pipeline for one video. A second call for the
// same video while one is active fails fast with ErrBusy.
func (o *Orchestrator) Summarize(ctx context.Context, videoID, title string) (*Result, error) {
	o.mu.Lock()
	if o.active[videoID] {
		o.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrBusy, videoID)
	}
	o.active[videoID] = true
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		delete(o.active, videoID)
		o.mu.Unlock()
	}()

	result, err := o.run(ctx, videoID, title)
	if err != nil {
		o.setState(videoID, StateErrored)
		return nil, err
	}
	o.setState(videoID, StateDone)
	return result, nil
}

func (o *Orchestrator) run(ctx context.Context, videoID, title string) (*Result, error) {
	o.setState(videoID, StateExtractingInfo)
	if !transcript.IsVideoID(videoID) {
		return nil, &Error{State: StateExtractingInfo, Err: fmt.Errorf("invalid video ID: %q", videoID)}
	}

	o.setState(videoID, StateCheckingCache)
	entry, err := o.cache.Get(ctx, videoID)
	if err != nil {
		// A broken cache read should not block summarization.
		log.Printf("Cache read failed for %s: %v", videoID, err)
	}
	if entry != nil {
		sum := entry.Summary
		return &Result{Summary: &sum, FromCache: true, Strategy: "cached"}, nil
	}

	o.setState(videoID, StateExtractingTranscript)
	tr, err := o.source.Transcript(ctx, videoID)
	if err != nil {
		return nil, &Error{State: StateExtractingTranscript, Err: err}
	}
	if title != "" && tr.Title == "" {
		tr.Title = title
	}

	o.setState(videoID, StateReducing)
	sum, strategy, err := o.reduce(ctx, tr)
	if err != nil {
		return nil, &Error{State: StateReducing, Err: err}
	}

	// Alignment is folded into the delegated reducer; the state still
	// surfaces so observers see the full pipeline.
	o.setState(videoID, StateAligning)

	o.setState(videoID, StateCaching)
	if err := o.cache.Put(ctx, sum); err != nil {
		return nil, &Error{State: StateCaching, Err: err}
	}

	if o.archive != nil {
		if err := o.archive.Save(sum); err != nil {
			log.Printf("Archiving summary for %s failed: %v", videoID, err)
		}
	}

	return &Result{Summary: sum, Strategy: strategy}, nil
}

func (o *Orchestrator) reduce(ctx context.Context, tr *transcript.Transcript) (*summarize.Summary, string, error) {
	if o.session != nil && o.session.Ready() {
		sum, err := summarize.NewDelegated(o.session).Reduce(ctx, tr)
		if err == nil {
			return sum, "delegated", nil
		}
		// The generator is best-effort; positional sampling always works.
		log.Printf("Delegated reduction failed, falling back to positional: %v", err)
	}

	sum, err := o.positional.Reduce(ctx, tr)
	if err != nil {
		return nil, "", err
	}
	return sum, "positional", nil
}

// Describe renders an error for display, distinguishing "this video likely
// has no captions" from transient conditions worth retrying.
func Describe(err error) string {
	switch {
	case errors.Is(err, extract.ErrNoTranscriptUI):
		return "This video does not appear to have captions available."
	case errors.Is(err, extract.ErrEmptyTranscript):
		return "The transcript for this video could not be read; it may have no usable captions."
	case errors.Is(err, extract.ErrPanelTimeout):
		return "The transcript took too long to load. This is usually temporary; try again."
	case errors.Is(err, extract.ErrBusy), errors.Is(err, ErrBusy):
		return "A summary for this video is already being generated."
	default:
		return fmt.Sprintf("Summarization failed: %v", err)
	}
}
