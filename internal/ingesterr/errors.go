// Package ingesterr defines the internal error taxonomy shared across the
// ingestion pipeline (spec.md §7): decode errors, shape errors, DB errors
// and bucket errors. Sentinels are wrapped with fmt.Errorf("...: %w", ...)
// at each call site so errors.Is still finds the underlying category.
package ingesterr

import (
	"errors"
	"fmt"
)

var (
	// ErrDecode covers malformed XDR, malformed base64, malformed UTF-8,
	// or a JSON serialization failure.
	ErrDecode = errors.New("decode error")

	// ErrShape covers a structurally well-formed but semantically invalid
	// record: wrong threshold length, non-symbol event topic, a
	// contract-data address whose ScAddress variant isn't Contract, a
	// missing required nested field.
	ErrShape = errors.New("shape error")

	// ErrDB covers the storage layer rejecting a write or being
	// unreachable.
	ErrDB = errors.New("db error")

	// ErrBucket covers a bucket file open/read failure.
	ErrBucket = errors.New("bucket error")

	// ErrInvalidThresholds is a specific ErrShape case: an account's
	// thresholds payload was not exactly four bytes.
	ErrInvalidThresholds = fmt.Errorf("%w: invalid thresholds: expected exactly 4 bytes", ErrShape)

	// ErrInvalidAddress is a specific ErrShape case: an address field that
	// was expected to hold one ScAddress/strkey variant held another.
	ErrInvalidAddress = fmt.Errorf("%w: invalid address variant", ErrShape)

	// ErrInvalidEvent is a specific ErrShape case: a contract event that
	// failed one of the §4.9 structural requirements (missing contract
	// id, non-symbol first topic).
	ErrInvalidEvent = fmt.Errorf("%w: invalid event", ErrShape)
)
