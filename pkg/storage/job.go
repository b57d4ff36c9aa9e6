package storage

import (
	"context"

	"github.com/riverqueue/river"
)

// JobStorage queues River jobs. Backends that support transactions insert the
// job in the surrounding transaction, so a training run and its job are
// committed together.
type JobStorage interface {
	// AddJob reports false without error when a unique job with the same
	// arguments already exists.
	AddJob(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (bool, error)
}
