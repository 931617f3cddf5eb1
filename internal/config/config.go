package config

import "time"

// Server describes one hcloud server whose snapshots are rotated.
type Server struct {
	ID                  string
	Name                string
	APIToken            string
	RetainLastSnapshots int
}

// serverFile mirrors the on-disk layout. Pointer fields tell an absent key
// apart from a zero value.
type serverFile struct {
	Server *serverSection `yaml:"server"`
}

type serverSection struct {
	ID                  *string `yaml:"id"`
	Name                *string `yaml:"name"`
	APIToken            *string `yaml:"api_token"`
	RetainLastSnapshots *string `yaml:"retain_last_snapshots"`
}

// Notifier holds the status notifier settings.
type Notifier struct {
	BotToken string
	ChatID   string
	APIURL   string

	Retries      int
	RetryDelay   time.Duration
	MessageDelay time.Duration
	Timeout      time.Duration
}
