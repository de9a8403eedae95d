package platform

import "errors"

// Sentinel errors for headless host operations.
var (
	// ErrUnknownTemplate is returned by Headless.Instantiate for values
	// that are neither a registered template nor an instance of one.
	ErrUnknownTemplate = errors.New("platform: unknown template")
)
