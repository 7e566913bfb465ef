package summarizer

import "errors"

var (
	// ErrNoMessages is returned when the resolved message range is empty.
	ErrNoMessages = errors.New("no messages to summarize")

	// ErrUnknownStrategy is returned at construction for a strategy
	// outside the closed set of known algorithms.
	ErrUnknownStrategy = errors.New("unknown summarization strategy")

	// ErrUnknownLevel is returned at construction for an unrecognized
	// compression level.
	ErrUnknownLevel = errors.New("unknown compression level")

	// ErrMissingSummary is returned by incremental updates without an
	// existing summary to extend.
	ErrMissingSummary = errors.New("existing summary is required")
)
