package storage

import (
	"errors"

	"fraudrisk/pkg/serrors"
)

// Common errors returned by storage implementations.
var (
	// ErrAlreadyInTx is returned when an operation requiring a non-transactional
	// context is attempted while already inside a transaction.
	ErrAlreadyInTx = errors.New("already in tx")
	// ErrNotInTx is returned when a transaction-specific operation is attempted
	// while not currently inside a transaction.
	ErrNotInTx = errors.New("not in tx")
	// ErrArtifactNotFound is returned by LoadArtifact when no artifact was
	// saved. It also matches serrors.ErrNotFound.
	ErrArtifactNotFound = serrors.With(serrors.ErrNotFound, "no model artifact has been saved")
)
