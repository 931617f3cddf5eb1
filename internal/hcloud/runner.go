// Package hcloud drives the hcloud command-line tool.
package hcloud

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/raoulx24/hcloud-snapshot-rotator/internal/logging"
)

// TokenEnv carries the API token to the child process. The token never
// appears on the command line.
const TokenEnv = "HCLOUD_TOKEN"

// ErrCommandFailed is returned when the command exits non-zero or cannot start.
var ErrCommandFailed = errors.New("hcloud command failed")

// Runner executes one hcloud invocation and returns its trimmed stdout.
type Runner interface {
	Run(ctx context.Context, token string, args ...string) (string, error)
}

// ExecRunner runs the real executable, one call at a time.
type ExecRunner struct {
	Path string
	Log  logging.Logger
}

var _ Runner = &ExecRunner{}

func NewExecRunner(path string, log logging.Logger) *ExecRunner {
	return &ExecRunner{Path: path, Log: log}
}

func (r *ExecRunner) Run(ctx context.Context, token string, args ...string) (string, error) {
	line := strings.Join(append([]string{r.Path}, args...), " ")
	r.Log.Info("Executing command: %s (%s=%s)", line, TokenEnv, MaskToken(token))

	cmd := exec.CommandContext(ctx, r.Path, args...)
	cmd.Env = append(os.Environ(), TokenEnv+"="+token)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := strings.TrimSpace(stdout.String())
	errOut := strings.TrimSpace(stderr.String())

	if err != nil {
		r.Log.Error("Command failed: %s", firstNonEmpty(errOut, err.Error()))
		if out != "" {
			r.Log.Debug("Failed command output: %s", out)
		}
		return "", fmt.Errorf("%w: %s: %v", ErrCommandFailed, strings.Join(args, " "), err)
	}

	r.Log.Debug("Command stdout: %s", out)
	if errOut != "" {
		r.Log.Warn("Command stderr: %s", errOut)
	}
	return out, nil
}

// MaskToken keeps the first and last six characters of token.
func MaskToken(token string) string {
	if len(token) <= 12 {
		return "***"
	}
	return token[:6] + "..." + token[len(token)-6:]
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
