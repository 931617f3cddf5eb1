package status

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raoulx24/hcloud-snapshot-rotator/internal/logging"
)

const sample = "FINAL_STATUS | snapshot-manager | example.com | SUCCESS | hostname | 2024-12-02 13:32:34 | example.com-20241202133213 | 3 snapshots exist"

func TestNewAndString(t *testing.T) {
	at := time.Date(2024, 12, 2, 13, 32, 34, 0, time.Local)

	rec := New("snapshot-manager", "example.com", true, "hostname", at, "example.com-20241202133213", 3)
	assert.Equal(t, sample, rec.String())

	failed := New("snapshot-manager", "web", false, "h", at, "", 1)
	assert.Equal(t, Failure, failed.Status)
	assert.Equal(t, NoSnapshot, failed.Snapshot)
	assert.Equal(t, "1 snapshots exist", failed.Summary)
}

func TestParseRoundTrip(t *testing.T) {
	recs := []Record{
		New("snapshot-manager", "a", true, "host", time.Unix(0, 0), "a-1", 0),
		New("snapshot-manager", "b.example", false, "host-2", time.Unix(1733146354, 0), "", 7),
	}
	for _, r := range recs {
		got, err := Parse(r.String())
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}
}

func TestParseMalformed(t *testing.T) {
	for _, line := range []string{
		"FINAL_STATUS | incomplete | entry",
		sample + " | extra",
		"",
	} {
		rec, err := Parse(line)
		assert.ErrorIs(t, err, ErrMalformed)
		assert.Equal(t, Record{}, rec)
	}
}

func TestHasTag(t *testing.T) {
	assert.True(t, HasTag(sample))
	assert.True(t, HasTag("final_status| x"))
	assert.True(t, HasTag("Final_Status   | x"))
	assert.False(t, HasTag("Some FINAL_STATUS | x"))
	assert.False(t, HasTag("FINAL_STATUSES | x"))
}

func TestFormatMessage(t *testing.T) {
	rec := &logging.Recorder{}

	msg := FormatMessage(sample, rec)
	assert.Contains(t, msg, "*FINAL_STATUS*")
	assert.Contains(t, msg, "*Script:* `snapshot-manager`")
	assert.Contains(t, msg, "*Status:* `SUCCESS`")
	assert.Contains(t, msg, "*Snapshot:* `example.com-20241202133213`")
	assert.Contains(t, msg, "*Total Snapshots:* `3 snapshots exist`")
	assert.Empty(t, rec.Messages("WARNING"))
}

func TestFormatMessageMalformedPassesThrough(t *testing.T) {
	rec := &logging.Recorder{}
	raw := "FINAL_STATUS | incomplete | entry"

	assert.Equal(t, raw, FormatMessage(raw, rec))
	assert.True(t, rec.Contains("WARNING", "Unexpected FINAL_STATUS format"))
}
