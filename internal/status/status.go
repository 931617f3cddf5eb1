// Package status defines the one-line outcome record the snapshot manager
// writes for every server, and the notifier reads back.
package status

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	Tag       = "FINAL_STATUS"
	Separator = " | "

	Success = "SUCCESS"
	Failure = "FAILURE"

	// NoSnapshot is written when no new snapshot was created.
	NoSnapshot = "none"

	TimeLayout = "2006-01-02 15:04:05"

	fieldCount = 8
)

// ErrMalformed marks a line that does not hold exactly eight fields.
var ErrMalformed = errors.New("malformed status record")

var tagPattern = regexp.MustCompile(`(?i)^` + Tag + `\s*\|`)

// Record is a parsed status line.
type Record struct {
	Tag       string
	Script    string
	Server    string
	Status    string
	Hostname  string
	Timestamp string
	Snapshot  string
	Summary   string
}

// New builds the record for one processed server.
func New(script, server string, ok bool, hostname string, at time.Time, snapshotName string, total int) Record {
	st := Failure
	if ok {
		st = Success
	}
	if snapshotName == "" {
		snapshotName = NoSnapshot
	}
	return Record{
		Tag:       Tag,
		Script:    script,
		Server:    server,
		Status:    st,
		Hostname:  hostname,
		Timestamp: at.Format(TimeLayout),
		Snapshot:  snapshotName,
		Summary:   Summary(total),
	}
}

// Summary renders the trailing snapshot count field.
func Summary(total int) string {
	return strconv.Itoa(total) + " snapshots exist"
}

func (r Record) String() string {
	return strings.Join(r.fields(), Separator)
}

func (r Record) fields() []string {
	return []string{r.Tag, r.Script, r.Server, r.Status, r.Hostname, r.Timestamp, r.Snapshot, r.Summary}
}

// HasTag reports whether msg starts with the status tag, ignoring case.
func HasTag(msg string) bool {
	return tagPattern.MatchString(msg)
}

// Parse splits a status line into its fields. Anything other than exactly
// eight fields yields ErrMalformed and a zero Record.
func Parse(line string) (Record, error) {
	parts := strings.Split(line, Separator)
	if len(parts) != fieldCount {
		return Record{}, fmt.Errorf("%w: %d fields", ErrMalformed, len(parts))
	}
	return Record{
		Tag:       parts[0],
		Script:    parts[1],
		Server:    parts[2],
		Status:    parts[3],
		Hostname:  parts[4],
		Timestamp: parts[5],
		Snapshot:  parts[6],
		Summary:   parts[7],
	}, nil
}
