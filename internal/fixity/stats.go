package fixity

// Stats accumulates the counters for one run. The walker owns a single
// instance and returns it from Run; counters only ever increase.
type Stats struct {
	// Objects counts fully processed objects. Skipped (missing or
	// inaccessible) objects are not counted.
	Objects int
	// Datastreams counts datastreams visited, across all objects.
	Datastreams int
	// DatastreamVersions counts version snapshots visited; only nonzero
	// in all-versions mode.
	DatastreamVersions int

	// Classification outcomes (validate mode).
	OK      int
	Invalid int
	Missing int

	// Repair outcomes (repair mode).
	Updated    int
	SaveErrors int
}

func (s *Stats) recordStatus(status Status) {
	switch status {
	case StatusOK:
		s.OK++
	case StatusInvalid:
		s.Invalid++
	case StatusMissing:
		s.Missing++
	}
}
