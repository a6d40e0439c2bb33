package input

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"
)

// DefaultCommandTimeout bounds a single helper invocation.
const DefaultCommandTimeout = 500 * time.Millisecond

// CommandRequest is written as JSON to the helper's stdin.
type CommandRequest struct {
	Action string `json:"action"` // "key_down" or "key_up"
	Key    string `json:"key"`
}

// CommandResponse is read as JSON from the helper's stdout.
type CommandResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// CommandInjector delegates key presses to an external helper executable,
// one process per call.
type CommandInjector struct {
	path    string
	timeout time.Duration
}

// NewCommandInjector creates an injector running the helper at path. A
// non-positive timeout selects DefaultCommandTimeout.
func NewCommandInjector(path string, timeout time.Duration) *CommandInjector {
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	return &CommandInjector{path: path, timeout: timeout}
}

// KeyDown asks the helper to press key.
func (c *CommandInjector) KeyDown(key string) error {
	return c.execute(&CommandRequest{Action: "key_down", Key: key})
}

// KeyUp asks the helper to release key.
func (c *CommandInjector) KeyUp(key string) error {
	return c.execute(&CommandRequest{Action: "key_up", Key: key})
}

func (c *CommandInjector) execute(req *CommandRequest) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.path)

	reqJSON, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	cmd.Stdin = bytes.NewReader(reqJSON)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()

	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("key helper timeout after %s", c.timeout)
	}
	if err != nil {
		if s := stderr.String(); s != "" {
			return fmt.Errorf("key helper failed: %w, stderr: %s", err, s)
		}
		return fmt.Errorf("key helper failed: %w", err)
	}

	var resp CommandResponse
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		return fmt.Errorf("failed to parse key helper response: %w, stdout: %s", err, stdout.String())
	}
	if !resp.Success {
		return fmt.Errorf("key helper %s %q: %s", req.Action, req.Key, resp.Error)
	}
	return nil
}
