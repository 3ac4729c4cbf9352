package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fcrepo-tools/fixity/internal/fedora"
	"github.com/fcrepo-tools/fixity/internal/fixity"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	checksumTypeName string
	forceIDs         []string
)

var repairCmd = &cobra.Command{
	Use:   "repair [PID...]",
	Short: "Recompute checksums for datastreams without fixity information",
	Long: `Repair re-saves datastreams whose checksum type is DISABLED or whose
checksum value is "none", which makes the repository compute and persist
a fresh checksum. Datastream ids listed with --force are re-saved even
when they already have a healthy checksum.

Examples:
  fixity repair demo:1
  fixity repair --checksum-type SHA-256
  fixity repair --force DC,RELS-EXT demo:1 demo:2`,
	RunE: runRepair,
}

func init() {
	repairCmd.Flags().StringVar(&checksumTypeName, "checksum-type", string(fedora.ChecksumTypeDefault),
		"checksum type to set (DEFAULT lets the repository choose its configured algorithm)")
	repairCmd.Flags().StringSliceVar(&forceIDs, "force", nil,
		"datastream ids to repair even if they already have a checksum")
}

func runRepair(cmd *cobra.Command, args []string) error {
	ct, err := fedora.ParseChecksumType(checksumTypeName)
	if err != nil {
		return err
	}
	if ct == fedora.ChecksumTypeDisabled {
		return fmt.Errorf("refusing to repair to checksum type DISABLED")
	}

	ctx := context.Background()

	pids, err := resolveTargets(ctx, args)
	if err != nil {
		return err
	}
	if len(pids) == 0 {
		fmt.Println("No objects to check.")
		return nil
	}

	report := fixity.NewReport(os.Stdout, quiet, false)
	stopper := &fixity.Stopper{}
	armStopper(stopper, os.Stdout)
	prog := newWalkProgress(len(pids))

	runID := uuid.NewString()
	logger.Info("starting repair run", "run_id", runID, "targets", len(pids), "checksum_type", ct)

	walker := fixity.NewWalker(repo, report, stopper, logger, fixity.Options{
		Mode:         fixity.ModeRepair,
		Max:          maxObjects,
		ChecksumType: ct,
		Force:        forceIDs,
		RunID:        runID,
		Progress:     prog.Advance,
	})

	stats, err := walker.Run(ctx, pids)
	prog.Finish()
	if err != nil {
		return fmt.Errorf("repair: %w", err)
	}

	report.RepairSummary(stats)
	return nil
}
