package fixity

import (
	"bytes"
	"testing"
	"time"

	"github.com/fcrepo-tools/fixity/internal/fedora"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDS() *fedora.Datastream {
	return &fedora.Datastream{
		PID:          "obj:2",
		ID:           "DS2",
		ChecksumType: fedora.ChecksumTypeDisabled,
		Checksum:     fedora.ChecksumNone,
		MIMEType:     "application/pdf",
		Versionable:  true,
		CreatedAt:    fedora.Time{Time: time.Date(2012, 5, 4, 13, 12, 1, 12_000_000, time.UTC)},
	}
}

func TestReportRecord(t *testing.T) {
	var out bytes.Buffer
	r := NewReport(&out, false, true)

	r.Record("obj:1", &fedora.Datastream{ID: "DS1"}, StatusOK)
	assert.Empty(t, out.String(), "ok classifications are silent")
	assert.Empty(t, r.Rows())

	r.Record("obj:2", sampleDS(), StatusMissing)
	assert.Equal(t, "obj:2/DS2 - missing checksum (2012-05-04T13:12:01.012Z)\n", out.String())
	require.Len(t, r.Rows(), 1)
}

func TestReportQuietStillCollectsRows(t *testing.T) {
	var out bytes.Buffer
	r := NewReport(&out, true, true)

	r.Record("obj:2", sampleDS(), StatusMissing)
	assert.Empty(t, out.String())
	assert.Len(t, r.Rows(), 1)

	// save errors print even under quiet
	r.SaveError("obj:2", "DS2", assert.AnError)
	assert.Contains(t, out.String(), "Error saving obj:2/DS2")
}

func TestReportWriteCSV(t *testing.T) {
	r := NewReport(&bytes.Buffer{}, true, true)
	r.Record("obj:2", sampleDS(), StatusMissing)

	var csvOut bytes.Buffer
	require.NoError(t, r.WriteCSV(&csvOut))

	want := "pid,datastream id,date created,status,mimetype,versioned\n" +
		"obj:2,DS2,2012-05-04T13:12:01.012Z,missing,application/pdf,true\n"
	assert.Equal(t, want, csvOut.String())
}

func TestReportWriteCSVHeaderOnly(t *testing.T) {
	r := NewReport(&bytes.Buffer{}, true, true)

	var csvOut bytes.Buffer
	require.NoError(t, r.WriteCSV(&csvOut))
	assert.Equal(t, "pid,datastream id,date created,status,mimetype,versioned\n", csvOut.String())
}

func TestValidateSummary(t *testing.T) {
	stats := &Stats{Objects: 10, Datastreams: 25, DatastreamVersions: 40, Invalid: 2, Missing: 3}

	var out bytes.Buffer
	NewReport(&out, false, false).ValidateSummary(stats, false, false)
	assert.Contains(t, out.String(), "Objects checked: 10")
	assert.Contains(t, out.String(), "Datastreams checked: 25")
	assert.NotContains(t, out.String(), "versions", "version total only appears in all-versions mode")
	assert.Contains(t, out.String(), "Invalid checksums: 2")
	assert.Contains(t, out.String(), "Missing checksums: 3")

	out.Reset()
	NewReport(&out, false, false).ValidateSummary(stats, true, true)
	assert.Contains(t, out.String(), "Datastream versions checked: 40")
	assert.NotContains(t, out.String(), "Invalid", "invalid total is omitted in missing-only mode")
}

func TestRepairSummary(t *testing.T) {
	var out bytes.Buffer
	NewReport(&out, false, false).RepairSummary(&Stats{Objects: 4, Updated: 2})
	assert.Contains(t, out.String(), "Objects checked: 4")
	assert.Contains(t, out.String(), "Datastreams updated: 2")
	assert.NotContains(t, out.String(), "Save errors", "error total only appears when nonzero")

	out.Reset()
	NewReport(&out, false, false).RepairSummary(&Stats{Objects: 4, Updated: 2, SaveErrors: 1})
	assert.Contains(t, out.String(), "Save errors: 1")
}
