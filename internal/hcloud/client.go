package hcloud

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/raoulx24/hcloud-snapshot-rotator/internal/config"
	"github.com/raoulx24/hcloud-snapshot-rotator/internal/logging"
	"github.com/raoulx24/hcloud-snapshot-rotator/internal/snapshot"
)

// ErrUnexpectedOutput is returned when command output does not have the
// expected shape.
var ErrUnexpectedOutput = errors.New("unexpected hcloud output")

// StatusAvailable is the image status of a finished snapshot.
const StatusAvailable = "available"

// image is the subset of `hcloud image ... --output json` that is used.
type image struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	Created     string `json:"created"`
	Status      string `json:"status"`
	CreatedFrom *struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"created_from"`
}

// Client wraps snapshot operations on top of a Runner.
type Client struct {
	runner Runner
	log    logging.Logger
}

func NewClient(r Runner, log logging.Logger) *Client {
	return &Client{runner: r, log: log}
}

// ListSnapshots returns the snapshots created from srv. Entries with an
// unreadable creation time are skipped. Output that is not a JSON array
// yields no snapshots and an error.
func (c *Client) ListSnapshots(ctx context.Context, srv config.Server) ([]snapshot.Snapshot, error) {
	out, err := c.runner.Run(ctx, srv.APIToken, "image", "list", "--type", "snapshot", "--output", "json")
	if err != nil {
		return nil, err
	}

	var images []image
	if err := json.Unmarshal([]byte(out), &images); err != nil {
		return nil, fmt.Errorf("%w: parsing snapshot list: %v", ErrUnexpectedOutput, err)
	}

	var snaps []snapshot.Snapshot
	for _, img := range images {
		if img.CreatedFrom == nil || strconv.FormatInt(img.CreatedFrom.ID, 10) != srv.ID {
			continue
		}

		created, err := time.Parse(time.RFC3339, img.Created)
		if err != nil {
			c.log.Error("Server '%s': Invalid date format for snapshot '%s': %s", srv.Name, img.Description, img.Created)
			continue
		}

		s := snapshot.Snapshot{
			ID:        strconv.FormatInt(img.ID, 10),
			Name:      img.Description,
			CreatedAt: created.UTC(),
		}
		c.log.Debug("Server '%s': Snapshot found: %s", srv.Name, s)
		snaps = append(snaps, s)
	}

	return snaps, nil
}

// CreateSnapshot requests a new snapshot of srv and returns the new image id.
// The CLI answers "Image <id> created from Server <server-id>".
func (c *Client) CreateSnapshot(ctx context.Context, srv config.Server, description string) (string, error) {
	out, err := c.runner.Run(ctx, srv.APIToken,
		"server", "create-image", "--type", "snapshot", "--description", description, srv.ID)
	if err != nil {
		return "", err
	}

	fields := strings.Fields(out)
	if len(fields) < 2 {
		return "", fmt.Errorf("%w: cannot extract snapshot id from %q", ErrUnexpectedOutput, out)
	}
	return fields[1], nil
}

// ImageStatus returns the provider status of image id, e.g. "creating".
func (c *Client) ImageStatus(ctx context.Context, srv config.Server, id string) (string, error) {
	out, err := c.runner.Run(ctx, srv.APIToken, "image", "describe", id, "--output", "json")
	if err != nil {
		return "", err
	}

	var img image
	if err := json.Unmarshal([]byte(out), &img); err != nil {
		return "", fmt.Errorf("%w: parsing snapshot status: %v", ErrUnexpectedOutput, err)
	}
	return img.Status, nil
}

// DeleteImage removes image id.
func (c *Client) DeleteImage(ctx context.Context, srv config.Server, id string) error {
	_, err := c.runner.Run(ctx, srv.APIToken, "image", "delete", id)
	return err
}
