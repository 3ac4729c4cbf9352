// Package fixity implements the traversal, classification, and repair
// logic for auditing datastream checksums across a repository.
package fixity

import (
	"context"
	"time"

	"github.com/fcrepo-tools/fixity/internal/fedora"
)

// Repository is the capability the walker needs from a repository.
// *fedora.Client satisfies it; tests use an in-memory fake.
type Repository interface {
	// FindByModel returns the pids of every object carrying the given
	// content model.
	FindByModel(ctx context.Context, modelURI string) ([]string, error)
	// ObjectExists reports whether a pid can be resolved.
	ObjectExists(ctx context.Context, pid string) (bool, error)
	// ListDatastreamIDs enumerates an object's datastreams.
	ListDatastreamIDs(ctx context.Context, pid string) ([]string, error)
	// Datastream fetches the current profile of one datastream.
	Datastream(ctx context.Context, pid, dsID string) (*fedora.Datastream, error)
	// DatastreamHistory fetches one profile snapshot per stored version.
	DatastreamHistory(ctx context.Context, pid, dsID string) ([]fedora.Datastream, error)
	// VerifyChecksum recomputes and compares the checksum of one version;
	// nil asOf means the current version.
	VerifyChecksum(ctx context.Context, pid, dsID string, asOf *time.Time) (bool, error)
	// SetChecksumType saves a datastream with a new checksum type, which
	// causes the repository to (re)compute its checksum.
	SetChecksumType(ctx context.Context, pid, dsID string, ct fedora.ChecksumType, logMessage string) error
}

var _ Repository = (*fedora.Client)(nil)
