package worker

import (
	"github.com/raoulx24/hcloud-snapshot-rotator/internal/config"
	"github.com/raoulx24/hcloud-snapshot-rotator/internal/status"
)

// Result is the outcome of handling one server.
type Result struct {
	Server config.Server
	Record status.Record
	Err    error // set when processing panicked or was interrupted
}
