package fixity

import "github.com/fcrepo-tools/fixity/internal/fedora"

// Status is the fixity classification of one datastream version.
type Status string

const (
	StatusOK      Status = "ok"
	StatusInvalid Status = "invalid"
	StatusMissing Status = "missing"
)

// Classify derives the fixity status of one datastream version snapshot.
//
// valid is the repository's verdict on whether the stored checksum matches
// the recomputed content. A DISABLED checksum type or a "none" value
// always classifies as missing: an absent checksum must never be reported
// as a verified match, whatever the repository says.
//
// When missingOnly is set, verification is not consulted at all and every
// datastream with a recorded checksum is ok. In all-versions runs each
// snapshot is classified on its own type and value fields, so a
// datastream that was disabled historically and fixed later still reports
// missing for the old versions.
func Classify(ds *fedora.Datastream, valid, missingOnly bool) Status {
	if !ds.HasChecksum() {
		return StatusMissing
	}
	if missingOnly || valid {
		return StatusOK
	}
	return StatusInvalid
}
