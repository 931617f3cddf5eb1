package status

import (
	"fmt"

	"github.com/raoulx24/hcloud-snapshot-rotator/internal/logging"
)

// Markdown renders the chat message for r.
func (r Record) Markdown() string {
	return fmt.Sprintf("*%s*\n"+
		"*Script:* `%s`\n"+
		"*Server:* `%s`\n"+
		"*Status:* `%s`\n"+
		"*Hostname:* `%s`\n"+
		"*Timestamp:* `%s`\n"+
		"*Snapshot:* `%s`\n"+
		"*Total Snapshots:* `%s`",
		Tag, r.Script, r.Server, r.Status, r.Hostname, r.Timestamp, r.Snapshot, r.Summary)
}

// FormatMessage turns a raw status line into a chat message. Malformed lines
// are returned unchanged so the information still reaches the channel.
func FormatMessage(raw string, log logging.Logger) string {
	rec, err := Parse(raw)
	if err != nil {
		log.Warn("Unexpected %s format: %s", Tag, raw)
		return raw
	}
	return rec.Markdown()
}
