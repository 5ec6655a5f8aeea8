package recommend

import "errors"

var (
	// ErrConfiguration means the engine cannot be built from the catalog,
	// e.g. an empty catalog or one without any usable term. Not recoverable
	// without a different catalog.
	ErrConfiguration = errors.New("configuration error")

	// ErrInvalidArgument means the caller passed an unsupported search mode,
	// a blank query, or a recommendation count outside the supported range.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrEmptyMatch means no catalog entry matched the query, so there is
	// nothing to average.
	ErrEmptyMatch = errors.New("no catalog entries match the query")
)
