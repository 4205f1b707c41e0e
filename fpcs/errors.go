package fpcs

import "errors"

var (
	// ErrInvalidConfiguration is returned by New when the configuration
	// cannot describe a runnable simulation. It is never raised mid-run.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrInsufficientPeers is returned by New when the requested sample
	// size exceeds the available peers and degradation is disabled.
	ErrInsufficientPeers = errors.New("insufficient peers")
)
