package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fcrepo-tools/fixity/internal/fixity"
	"github.com/spf13/cobra"
)

var (
	csvFile     string
	allVersions bool
	missingOnly bool
)

var validateCmd = &cobra.Command{
	Use:   "validate [PID...]",
	Short: "Check datastream checksums and report missing or invalid ones",
	Long: `Validate walks the target objects and classifies every datastream as
ok, invalid, or missing. Only non-ok datastreams are printed; the final
summary always is.

Examples:
  fixity validate --fedora-root https://fedora.example.com/fedora/
  fixity validate demo:1 demo:2
  fixity validate --all-versions --csv-file bad-checksums.csv
  fixity validate --missing-only -q`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&csvFile, "csv-file", "", "write non-ok classifications to this CSV file")
	validateCmd.Flags().BoolVarP(&allVersions, "all-versions", "a", false, "check every historical version of each datastream")
	validateCmd.Flags().BoolVar(&missingOnly, "missing-only", false, "only look for missing checksums, skip verification")
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	pids, err := resolveTargets(ctx, args)
	if err != nil {
		return err
	}
	if len(pids) == 0 {
		fmt.Println("No objects to check.")
		return nil
	}

	report := fixity.NewReport(os.Stdout, quiet, csvFile != "")
	stopper := &fixity.Stopper{}
	armStopper(stopper, os.Stdout)
	prog := newWalkProgress(len(pids))

	walker := fixity.NewWalker(repo, report, stopper, logger, fixity.Options{
		Mode:        fixity.ModeValidate,
		AllVersions: allVersions,
		MissingOnly: missingOnly,
		Max:         maxObjects,
		Progress:    prog.Advance,
	})

	stats, err := walker.Run(ctx, pids)
	prog.Finish()
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}

	report.ValidateSummary(stats, allVersions, missingOnly)

	if csvFile != "" {
		if err := writeCSVFile(report, csvFile); err != nil {
			return err
		}
		fmt.Printf("Report written to %s\n", csvFile)
	}
	return nil
}

func writeCSVFile(report *fixity.Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	if err := report.WriteCSV(f); err != nil {
		f.Close()
		return fmt.Errorf("write csv file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close csv file: %w", err)
	}
	return nil
}
