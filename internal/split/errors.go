package split

import "errors"

var (
	// ErrInvalidTarget is returned when the requested section count is
	// outside the supported range of 1 to 50.
	ErrInvalidTarget = errors.New("target section count must be between 1 and 50")

	// ErrEmptyDocument is returned for an empty or whitespace-only document.
	ErrEmptyDocument = errors.New("document is empty")

	// ErrUnsplittable reports that the oracle found no usable split point
	// in a section. It is handled inside the pipeline and never escapes
	// Splitter.Split.
	ErrUnsplittable = errors.New("section has no usable split point")

	// ErrUnusableResponse reports that the oracle answered but the answer
	// failed validation: content was altered, the index list did not parse,
	// or the count was wrong.
	ErrUnusableResponse = errors.New("oracle response failed validation")
)
