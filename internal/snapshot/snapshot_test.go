package snapshot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewName(t *testing.T) {
	at := time.Date(2024, 12, 2, 13, 32, 13, 0, time.Local)
	assert.Equal(t, "example.com-20241202133213", NewName("example.com", at))
}

func TestNames(t *testing.T) {
	snaps := []Snapshot{{Name: "a"}, {Name: "b"}}
	assert.Equal(t, []string{"a", "b"}, Names(snaps))
	assert.Empty(t, Names(nil))
}
