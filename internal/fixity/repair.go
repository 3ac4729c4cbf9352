package fixity

import "github.com/fcrepo-tools/fixity/internal/fedora"

// NeedsRepair reports whether a datastream should have its checksum
// recomputed: fixity is disabled or absent, or the operator listed the
// datastream id in the forced set. A forced datastream is repaired even
// when its existing checksum is healthy.
func NeedsRepair(ds *fedora.Datastream, forced map[string]bool) bool {
	return !ds.HasChecksum() || forced[ds.ID]
}
