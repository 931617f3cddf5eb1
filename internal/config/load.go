package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNoServers is returned when no server configuration could be found.
var ErrNoServers = errors.New("no valid server configurations found")

// matches $(VAR_NAME)
var envPattern = regexp.MustCompile(`\$\(([A-Za-z0-9_]+)\)`)

// replaces $(VAR) with os.Getenv(VAR)
func expandEnvVars(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(m string) string {
		key := mapEnvKey(envPattern.FindStringSubmatch(m)[1])
		return os.Getenv(key)
	})
}

// DiscoverServerFiles lists the *.yaml and *.yml files in dir, sorted by name.
func DiscoverServerFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading config dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yaml", ".yml":
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// LoadServers loads one server per file. Names are resolved relative to dir
// unless absolute; with no names, every YAML file in dir is used. Any bad
// file fails the whole load.
func LoadServers(dir string, names []string) ([]Server, error) {
	if len(names) == 0 {
		found, err := DiscoverServerFiles(dir)
		if err != nil {
			return nil, err
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("no .yaml configuration files found in %q: %w", dir, ErrNoServers)
		}
		names = found
	}

	servers := make([]Server, 0, len(names))
	for _, name := range names {
		path := name
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, name)
		}

		srv, err := LoadServer(path)
		if err != nil {
			return nil, err
		}
		servers = append(servers, srv)
	}

	if len(servers) == 0 {
		return nil, ErrNoServers
	}
	return servers, nil
}

// LoadServer reads and validates a single server configuration file.
func LoadServer(path string) (Server, error) {
	// read raw YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Server{}, fmt.Errorf("configuration file %q does not exist", path)
		}
		return Server{}, fmt.Errorf("reading config file: %w", err)
	}

	// expand $(ENV_VAR) placeholders
	expanded := expandEnvVars(string(data))

	var doc serverFile
	if err := yaml.Unmarshal([]byte(expanded), &doc); err != nil {
		return Server{}, fmt.Errorf("parsing YAML file %q: %w", path, err)
	}
	if doc.Server == nil {
		return Server{}, fmt.Errorf("configuration file %q is missing the 'server' key", path)
	}

	return doc.Server.validate(path)
}

func (s *serverSection) validate(path string) (Server, error) {
	fields := []struct {
		name string
		val  *string
	}{
		{"id", s.ID},
		{"name", s.Name},
		{"api_token", s.APIToken},
		{"retain_last_snapshots", s.RetainLastSnapshots},
	}
	for _, f := range fields {
		if f.val == nil || strings.TrimSpace(*f.val) == "" {
			return Server{}, fmt.Errorf("configuration file %q is missing the '%s' field under 'server'", path, f.name)
		}
	}

	// snapshots are linked to servers by numeric id
	id, err := strconv.ParseInt(strings.TrimSpace(*s.ID), 10, 64)
	if err != nil {
		return Server{}, fmt.Errorf("invalid data type in %q: id %q is not numeric", path, *s.ID)
	}

	retain, err := strconv.Atoi(strings.TrimSpace(*s.RetainLastSnapshots))
	if err != nil {
		return Server{}, fmt.Errorf("invalid data type in %q: retain_last_snapshots %q is not an integer", path, *s.RetainLastSnapshots)
	}
	if retain < 0 {
		return Server{}, fmt.Errorf("invalid data type in %q: retain_last_snapshots must not be negative", path)
	}

	return Server{
		ID:                  strconv.FormatInt(id, 10),
		Name:                strings.TrimSpace(*s.Name),
		APIToken:            strings.TrimSpace(*s.APIToken),
		RetainLastSnapshots: retain,
	}, nil
}
