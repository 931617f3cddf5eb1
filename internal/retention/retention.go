package retention

import (
	"sort"

	"github.com/raoulx24/hcloud-snapshot-rotator/internal/snapshot"
)

// Plan splits a server's snapshots into those kept and those to delete.
type Plan struct {
	Keep   []snapshot.Snapshot
	Delete []snapshot.Snapshot
}

// Select keeps the newest `keep` snapshots and marks the rest for deletion.
// Snapshots with equal creation times keep their query order. A negative
// keep is treated as zero. The input slice is not modified.
func Select(snaps []snapshot.Snapshot, keep int) Plan {
	if keep < 0 {
		keep = 0
	}

	sorted := append([]snapshot.Snapshot(nil), snaps...)

	// Sort newest → oldest
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	if len(sorted) <= keep {
		return Plan{Keep: sorted}
	}

	return Plan{
		Keep:   sorted[:keep],
		Delete: sorted[keep:],
	}
}
