package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

const validServer = `
server:
  id: 123456
  name: test-server
  api_token: test-token-123456
  retain_last_snapshots: 3
`

func TestLoadServerValid(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", validServer)

	srv, err := LoadServer(filepath.Join(dir, "a.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Server{
		ID:                  "123456",
		Name:                "test-server",
		APIToken:            "test-token-123456",
		RetainLastSnapshots: 3,
	}, srv)
}

func TestLoadServerExpandsEnv(t *testing.T) {
	t.Setenv("HCLOUD_TOKEN_TEST", "from-env-abcdef123456")
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", `
server:
  id: "42"
  name: web
  api_token: $(HCLOUD_TOKEN_TEST)
  retain_last_snapshots: "0"
`)

	srv, err := LoadServer(filepath.Join(dir, "a.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "from-env-abcdef123456", srv.APIToken)
	assert.Equal(t, "42", srv.ID)
	assert.Equal(t, 0, srv.RetainLastSnapshots)
}

func TestLoadServerErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "missing server key",
			body:    "other: 1\n",
			wantErr: "missing the 'server' key",
		},
		{
			name: "missing retention",
			body: `
server:
  id: 1
  name: a
  api_token: t
`,
			wantErr: "missing the 'retain_last_snapshots' field",
		},
		{
			name: "missing token",
			body: `
server:
  id: 1
  name: a
  retain_last_snapshots: 2
`,
			wantErr: "missing the 'api_token' field",
		},
		{
			name: "retention not integer",
			body: `
server:
  id: 1
  name: a
  api_token: t
  retain_last_snapshots: many
`,
			wantErr: "is not an integer",
		},
		{
			name: "negative retention",
			body: `
server:
  id: 1
  name: a
  api_token: t
  retain_last_snapshots: -1
`,
			wantErr: "must not be negative",
		},
		{
			name: "non numeric id",
			body: `
server:
  id: abc
  name: a
  api_token: t
  retain_last_snapshots: 1
`,
			wantErr: "is not numeric",
		},
		{
			name:    "bad yaml",
			body:    "server: [unclosed\n",
			wantErr: "parsing YAML file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, "s.yaml", tt.body)

			_, err := LoadServer(filepath.Join(dir, "s.yaml"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadServersMissingFile(t *testing.T) {
	_, err := LoadServers(t.TempDir(), []string{"nope.yaml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestLoadServersDiscoversSorted(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.yaml", `
server: {id: 2, name: b, api_token: t, retain_last_snapshots: 1}
`)
	writeFile(t, dir, "a.yml", `
server: {id: 1, name: a, api_token: t, retain_last_snapshots: 1}
`)
	writeFile(t, dir, "notes.txt", "ignored")

	servers, err := LoadServers(dir, nil)
	require.NoError(t, err)
	require.Len(t, servers, 2)
	assert.Equal(t, "a", servers[0].Name)
	assert.Equal(t, "b", servers[1].Name)
}

func TestLoadServersEmptyDir(t *testing.T) {
	_, err := LoadServers(t.TempDir(), nil)
	assert.ErrorIs(t, err, ErrNoServers)
}

func TestLoadServersOneBadFileAbortsAll(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", validServer)
	writeFile(t, dir, "b.yaml", "server:\n  id: 1\n")

	servers, err := LoadServers(dir, []string{"a.yaml", "b.yaml"})
	require.Error(t, err)
	assert.Nil(t, servers)
}
