package graytext

import "errors"

// Errors returned by this package are wrapped around one of these sentinels,
// use errors.Is to check which kind of failure happened.
var (
	// ErrImageDecode means the input image is missing, corrupt or in an
	// unsupported format.
	ErrImageDecode = errors.New("unable to decode image")

	// ErrFormat means the text grid is malformed: missing or bad header,
	// non-integer tokens, or values outside of [0, 255].
	ErrFormat = errors.New("malformed text grid")

	// ErrShape means the declared dimensions do not match the pixel values
	// present.
	ErrShape = errors.New("grid shape mismatch")

	// ErrIO means a filesystem read or write failed.
	ErrIO = errors.New("i/o failure")
)
