package errs

import stderrors "errors"

var (
	As     = stderrors.As
	Is     = stderrors.Is
	Unwrap = stderrors.Unwrap
)

// Sentinel errors shared by providers and the download pipeline.
// Provider methods wrap these with fmt.Errorf("...: %w", err) so callers
// can classify failures without string matching.
var (
	// ErrNotFound means a user-supplied locator could not be resolved.
	ErrNotFound = stderrors.New("resource not found")

	// ErrParse means an adapter could not extract required data from a page.
	ErrParse = stderrors.New("failed to parse page data")

	// ErrNetwork covers transport failures, including timeouts.
	ErrNetwork = stderrors.New("network request failed")

	// ErrAuthRequired means the adapter detected it is viewing a login wall
	// or an anti-bot challenge instead of content.
	ErrAuthRequired = stderrors.New("authentication required")

	// ErrConversion means an image transcode failed. It is handled inside the
	// pipeline (the original file is kept) and never surfaces to callers.
	ErrConversion = stderrors.New("image conversion failed")
)

func IsNotFound(err error) bool     { return Is(err, ErrNotFound) }
func IsParse(err error) bool        { return Is(err, ErrParse) }
func IsNetwork(err error) bool      { return Is(err, ErrNetwork) }
func IsAuthRequired(err error) bool { return Is(err, ErrAuthRequired) }
