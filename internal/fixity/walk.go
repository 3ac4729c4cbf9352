package fixity

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fcrepo-tools/fixity/internal/fedora"
)

// Mode selects what the walker does with each datastream.
type Mode int

const (
	// ModeValidate classifies every datastream (and optionally every
	// version) as ok, invalid, or missing.
	ModeValidate Mode = iota
	// ModeRepair saves a new checksum type on datastreams without fixity
	// information, causing the repository to recompute their checksums.
	ModeRepair
)

// Options configure one walker run.
type Options struct {
	Mode Mode

	// AllVersions checks every historical version of each datastream
	// instead of just the current one (validate mode).
	AllVersions bool
	// MissingOnly skips checksum verification and only looks for
	// datastreams with no fixity information (validate mode).
	MissingOnly bool

	// Max stops the walk after this many objects; 0 means no limit.
	Max int

	// ChecksumType is the type saved on repaired datastreams. The
	// DEFAULT sentinel lets the repository pick its configured default.
	ChecksumType fedora.ChecksumType
	// Force lists datastream ids repaired regardless of their state.
	Force []string
	// RunID is stamped into the audit message of every repair save.
	RunID string

	// Progress, when set, is called after each completed object with the
	// number of objects processed so far.
	Progress func(done int)
}

// Walker drives the sequential object/datastream traversal. One object at
// a time, one datastream at a time, one version at a time.
type Walker struct {
	repo    Repository
	report  *Report
	stopper *Stopper
	logger  *slog.Logger
	opts    Options
	forced  map[string]bool
}

// NewWalker wires a walker. stopper may be nil when cooperative stopping
// is not needed (tests).
func NewWalker(repo Repository, report *Report, stopper *Stopper, logger *slog.Logger, opts Options) *Walker {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.ChecksumType == "" {
		opts.ChecksumType = fedora.ChecksumTypeDefault
	}
	forced := make(map[string]bool, len(opts.Force))
	for _, id := range opts.Force {
		forced[id] = true
	}
	return &Walker{
		repo:    repo,
		report:  report,
		stopper: stopper,
		logger:  logger,
		opts:    opts,
		forced:  forced,
	}
}

// Run walks the target pids in order and returns the accumulated stats.
// Stop requests and the Max limit are honored only between objects, so an
// in-flight object is always fully processed. Objects that cannot be
// resolved are skipped with a warning and do not count toward the object
// total. In validate mode a repository failure on a datastream aborts the
// run; in repair mode per-datastream failures are logged and the walk
// continues.
func (w *Walker) Run(ctx context.Context, pids []string) (*Stats, error) {
	stats := &Stats{}
	for _, pid := range pids {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		exists, err := w.repo.ObjectExists(ctx, pid)
		if err != nil {
			w.logger.Warn("skipping inaccessible object", "pid", pid, "error", err)
			continue
		}
		if !exists {
			w.logger.Warn("skipping missing object", "pid", pid)
			continue
		}

		dsIDs, err := w.repo.ListDatastreamIDs(ctx, pid)
		if err != nil {
			w.logger.Warn("skipping object, cannot list datastreams", "pid", pid, "error", err)
			continue
		}

		for _, dsID := range dsIDs {
			stats.Datastreams++
			switch w.opts.Mode {
			case ModeRepair:
				w.repairDatastream(ctx, stats, pid, dsID)
			default:
				if err := w.validateDatastream(ctx, stats, pid, dsID); err != nil {
					return stats, err
				}
			}
		}

		stats.Objects++
		if w.opts.Progress != nil {
			w.opts.Progress(stats.Objects)
		}

		if w.stopper.Stopping() {
			break
		}
		if w.opts.Max > 0 && stats.Objects >= w.opts.Max {
			break
		}
	}
	return stats, nil
}

func (w *Walker) validateDatastream(ctx context.Context, stats *Stats, pid, dsID string) error {
	if w.opts.AllVersions {
		versions, err := w.repo.DatastreamHistory(ctx, pid, dsID)
		if err != nil {
			return fmt.Errorf("history of %s/%s: %w", pid, dsID, err)
		}
		for i := range versions {
			version := &versions[i]
			stats.DatastreamVersions++
			asOf := version.CreatedAt.Time
			status, err := w.classify(ctx, pid, version, &asOf)
			if err != nil {
				return err
			}
			stats.recordStatus(status)
			w.report.Record(pid, version, status)
		}
		return nil
	}

	ds, err := w.repo.Datastream(ctx, pid, dsID)
	if err != nil {
		return err
	}
	status, err := w.classify(ctx, pid, ds, nil)
	if err != nil {
		return err
	}
	stats.recordStatus(status)
	w.report.Record(pid, ds, status)
	return nil
}

// classify runs verification when it can influence the outcome and
// derives the status. A snapshot without fixity information is missing no
// matter what verification would say, so the round trip is skipped.
func (w *Walker) classify(ctx context.Context, pid string, ds *fedora.Datastream, asOf *time.Time) (Status, error) {
	valid := false
	if !w.opts.MissingOnly && ds.HasChecksum() {
		v, err := w.repo.VerifyChecksum(ctx, pid, ds.ID, asOf)
		if err != nil {
			return "", fmt.Errorf("verify checksum of %s/%s: %w", pid, ds.ID, err)
		}
		valid = v
	}
	return Classify(ds, valid, w.opts.MissingOnly), nil
}

// repairDatastream never returns an error: repair failures are reported,
// counted, and swallowed so the walk continues.
func (w *Walker) repairDatastream(ctx context.Context, stats *Stats, pid, dsID string) {
	ds, err := w.repo.Datastream(ctx, pid, dsID)
	if err != nil {
		w.logger.Error("cannot read datastream profile", "pid", pid, "dsid", dsID, "error", err)
		return
	}
	if !NeedsRepair(ds, w.forced) {
		return
	}

	msg := "recomputing datastream checksum"
	if w.opts.RunID != "" {
		msg = fmt.Sprintf("recomputing datastream checksum (fixity run %s)", w.opts.RunID)
	}
	if err := w.repo.SetChecksumType(ctx, pid, dsID, w.opts.ChecksumType, msg); err != nil {
		w.report.SaveError(pid, dsID, err)
		stats.SaveErrors++
		return
	}
	stats.Updated++
	w.logger.Info("updated datastream checksum", "pid", pid, "dsid", dsID, "type", w.opts.ChecksumType)
}
