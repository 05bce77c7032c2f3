package spotcolor

import "emperror.dev/errors"

const (
	// ErrInvalidImage is returned for empty, non-image, undecodable or
	// zero-dimension input.
	ErrInvalidImage = errors.Sentinel("invalid image")

	// ErrDecodeFailure is returned when the simplified output cannot be encoded.
	ErrDecodeFailure = errors.Sentinel("cannot encode output image")

	// ErrInvalidColorCount is returned when the target colour count is below 1.
	ErrInvalidColorCount = errors.Sentinel("target color count must be at least 1")

	// ErrUnknownFormat is returned for an unsupported output format.
	ErrUnknownFormat = errors.Sentinel("unknown output format")
)

// ErrImageTooLarge is returned when the image exceeds Config.MaxPixels.
// It also matches ErrInvalidImage.
var ErrImageTooLarge = errors.Wrap(ErrInvalidImage, "image exceeds pixel limit")
