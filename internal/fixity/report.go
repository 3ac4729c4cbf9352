package fixity

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/fcrepo-tools/fixity/internal/fedora"
)

// Row is one non-ok classification destined for the CSV export.
type Row struct {
	PID          string
	DatastreamID string
	CreatedAt    fedora.Time
	Status       Status
	MIMEType     string
	Versionable  bool
}

// Report collects the console output and export rows for one run.
type Report struct {
	out     io.Writer
	quiet   bool
	collect bool
	rows    []Row
}

// NewReport writes console lines to out. Status lines for non-ok
// classifications are suppressed when quiet is set; rows are only
// accumulated when collect is set (i.e. a CSV export was requested).
func NewReport(out io.Writer, quiet, collect bool) *Report {
	return &Report{out: out, quiet: quiet, collect: collect}
}

// Record logs one classification. ok results are silent.
func (r *Report) Record(pid string, ds *fedora.Datastream, status Status) {
	if status == StatusOK {
		return
	}
	if !r.quiet {
		fmt.Fprintf(r.out, "%s/%s - %s checksum (%s)\n", pid, ds.ID, status, ds.CreatedAt)
	}
	if r.collect {
		r.rows = append(r.rows, Row{
			PID:          pid,
			DatastreamID: ds.ID,
			CreatedAt:    ds.CreatedAt,
			Status:       status,
			MIMEType:     ds.MIMEType,
			Versionable:  ds.Versionable,
		})
	}
}

// SaveError prints a repair failure. Errors print even under quiet.
func (r *Report) SaveError(pid, dsID string, err error) {
	fmt.Fprintf(r.out, "Error saving %s/%s: %v\n", pid, dsID, err)
}

// Rows returns the accumulated export rows in classification order.
func (r *Report) Rows() []Row {
	return r.rows
}

// WriteCSV writes the export: a header row followed by one row per non-ok
// classification.
func (r *Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"pid", "datastream id", "date created", "status", "mimetype", "versioned"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range r.rows {
		record := []string{
			row.PID,
			row.DatastreamID,
			row.CreatedAt.String(),
			string(row.Status),
			row.MIMEType,
			strconv.FormatBool(row.Versionable),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ValidateSummary renders the end-of-run totals for a validate run.
func (r *Report) ValidateSummary(stats *Stats, allVersions, missingOnly bool) {
	fmt.Fprintf(r.out, "\nObjects checked: %d\n", stats.Objects)
	fmt.Fprintf(r.out, "Datastreams checked: %d\n", stats.Datastreams)
	if allVersions {
		fmt.Fprintf(r.out, "Datastream versions checked: %d\n", stats.DatastreamVersions)
	}
	if !missingOnly {
		fmt.Fprintf(r.out, "Invalid checksums: %d\n", stats.Invalid)
	}
	fmt.Fprintf(r.out, "Missing checksums: %d\n", stats.Missing)
}

// RepairSummary renders the end-of-run totals for a repair run. The save
// error count only appears when something actually failed.
func (r *Report) RepairSummary(stats *Stats) {
	fmt.Fprintf(r.out, "\nObjects checked: %d\n", stats.Objects)
	fmt.Fprintf(r.out, "Datastreams updated: %d\n", stats.Updated)
	if stats.SaveErrors > 0 {
		fmt.Fprintf(r.out, "Save errors: %d\n", stats.SaveErrors)
	}
}
