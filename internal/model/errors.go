package model

import "github.com/rotisserie/eris"

// Error taxonomy. Identifier validation is the only hard failure expected to
// propagate to the immediate caller; everything else has a defined fallback.
var (
	// ErrInvalidIdentifier rejects a malformed tax id before any I/O.
	ErrInvalidIdentifier = eris.New("invalid tax identifier")

	// ErrNoRegistryData means both external registry lookups failed. The
	// caller decides whether that is fatal.
	ErrNoRegistryData = eris.New("no registry data available")

	// ErrNoCatalog means the tenant has zero eligible products. Callers get
	// a zero-score result, not a failure.
	ErrNoCatalog = eris.New("no product catalog available")

	// ErrUnparseableModelResponse means the LLM reply was not valid
	// structured JSON; it triggers fallback scoring and is never surfaced
	// as a user-facing failure.
	ErrUnparseableModelResponse = eris.New("unparseable model response")

	// ErrPersistenceUnavailable covers missing tables and unreachable
	// storage; logged and swallowed, never blocks a scoring result.
	ErrPersistenceUnavailable = eris.New("persistence unavailable")
)
