package snapshot

import (
	"fmt"
	"time"
)

// Snapshot is a provider-side server image, rebuilt on every query.
type Snapshot struct {
	ID        string
	Name      string // the image description
	CreatedAt time.Time
}

func (s Snapshot) String() string {
	return fmt.Sprintf("%s (ID: %s) created at %s", s.Name, s.ID, s.CreatedAt.Format(time.RFC3339))
}

// Names returns the names of snaps in order.
func Names(snaps []Snapshot) []string {
	out := make([]string, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, s.Name)
	}
	return out
}

// NewName builds "<server>-<YYYYMMDDHHMMSS>".
func NewName(server string, at time.Time) string {
	return server + "-" + at.Format("20060102150405")
}
