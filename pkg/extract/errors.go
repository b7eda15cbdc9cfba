package extract

import "errors"

var (
	// ErrNoTranscriptUI means no caption-panel affordance could be located
	// anywhere in the discovery chain. The video most likely has no captions.
	ErrNoTranscriptUI = errors.New("no transcript control found on page")

	// ErrPanelTimeout means a located control was triggered but the panel
	// never populated inside the observation window. Usually transient.
	ErrPanelTimeout = errors.New("transcript panel did not appear in time")

	// ErrEmptyTranscript means the panel opened but yielded zero parsable
	// segment rows.
	ErrEmptyTranscript = errors.New("transcript panel contained no segments")

	// ErrBusy means an extraction is already in flight for this page
	// context. Two concurrent menu-opening sequences would race, so the
	// second caller fails fast instead.
	ErrBusy = errors.New("extraction already in progress")
)
