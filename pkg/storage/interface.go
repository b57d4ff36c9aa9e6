// Package storage defines the storage interfaces the application relies on.
// Artifact storage has several backends (file, postgres, sqlite, redis);
// training run bookkeeping and job queueing need postgres, where River lives.
//
//go:generate mockgen -package mockstorage -source=interface.go -destination=mock/mockstorage.go *
package storage

import (
	"context"

	"fraudrisk/pkg/domain"
)

// ArtifactStorage persists the single model artifact slot.
type ArtifactStorage interface {
	// SaveArtifact replaces the stored artifact in one atomic write, so a
	// reader never observes a model without its report or vice versa.
	SaveArtifact(ctx context.Context, artifact domain.Artifact) error
	// LoadArtifact returns the most recently saved artifact, or an error
	// matching ErrArtifactNotFound when nothing was saved yet.
	LoadArtifact(ctx context.Context) (*domain.Artifact, error)
}

// ArtifactBackend is an ArtifactStorage owning resources that must be
// released.
type ArtifactBackend interface {
	ArtifactStorage

	// Close releases connections or file handles. The backend must not be used
	// afterwards.
	Close() error
}

// AllStorage is a composite interface that includes all domain-specific storage
// capabilities of the transactional backend.
type AllStorage interface {
	ArtifactStorage
	RunStorage
	JobStorage
}

// TxStorage describes a storage handle that operates within a database
// transaction. It exposes the same domain-specific capabilities as AllStorage,
// and additionally allows committing or rolling back the ongoing transaction.
// Implementations should become unusable after Commit or Rollback is called.
type TxStorage interface {
	AllStorage

	// Commit finalizes the transaction, persisting all changes.
	Commit() error
	// Rollback aborts the transaction, discarding all uncommitted changes.
	Rollback() error
}

// Storage describes a non-transactional storage handle with the ability to
// start transactions.
type Storage interface {
	AllStorage

	// Close releases any resources held by the storage implementation (e.g. the
	// underlying connection pool). After Close, the instance should not be used.
	Close() error

	// Begin starts a new transaction and returns a TxStorage that can be used to
	// perform further operations within that transaction.
	Begin(ctx context.Context) (TxStorage, error)
	// WithTx begins a transaction, invokes cb with it, and commits on success
	// or rolls back if cb returns an error.
	WithTx(ctx context.Context, cb func(storage AllStorage) error) error
}
