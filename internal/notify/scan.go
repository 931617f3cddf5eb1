// Package notify relays status records from the snapshot log to Telegram.
package notify

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/raoulx24/hcloud-snapshot-rotator/internal/logging"
	"github.com/raoulx24/hcloud-snapshot-rotator/internal/status"
)

// fieldSep splits "<time> - <LEVEL> - <message>".
const fieldSep = " - "

// Entry is a status line found in the log.
type Entry struct {
	Line    int
	Message string
}

// Scan reads r once and returns every line whose message starts with the
// status tag. Other lines are skipped. Lines have no length limit.
func Scan(r io.Reader, log logging.Logger) ([]Entry, int, error) {
	br := bufio.NewReader(r)

	var (
		entries []Entry
		n       int
	)
	for {
		raw, err := br.ReadString('\n')
		if raw == "" && err != nil {
			if err == io.EOF {
				break
			}
			return entries, n, fmt.Errorf("reading log: %w", err)
		}
		n++

		if e, ok := scanLine(n, raw, log); ok {
			entries = append(entries, e)
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			return entries, n, fmt.Errorf("reading log: %w", err)
		}
	}
	return entries, n, nil
}

func scanLine(n int, raw string, log logging.Logger) (Entry, bool) {
	line := strings.TrimSpace(raw)

	if !strings.Contains(line, fieldSep) {
		log.Debug("Line %d: Skipping non-formatted line.", n)
		return Entry{}, false
	}

	parts := strings.SplitN(line, fieldSep, 3)
	if len(parts) < 3 {
		log.Warn("Malformed log line (less than 3 parts): %s", line)
		return Entry{}, false
	}

	msg := parts[2]
	if !status.HasTag(msg) {
		log.Debug("Line %d: No %s entry found.", n, status.Tag)
		return Entry{}, false
	}
	return Entry{Line: n, Message: msg}, true
}

// ScanFile runs Scan over the file at path.
func ScanFile(path string, log logging.Logger) ([]Entry, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()
	return Scan(f, log)
}
