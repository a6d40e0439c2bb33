// Package main provides a key helper for pinchkey's command injector.
// It holds and releases keys via xdotool on Linux and AppleScript on macOS.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Request represents the input from the command injector.
type Request struct {
	Action string `json:"action"`
	Key    string `json:"key"`
}

// Response represents the output to the command injector.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// xdotoolKeys maps key names to X keysyms where they differ.
var xdotoolKeys = map[string]string{
	"space":     "space",
	"enter":     "Return",
	"tab":       "Tab",
	"esc":       "Escape",
	"escape":    "Escape",
	"up":        "Up",
	"down":      "Down",
	"left":      "Left",
	"right":     "Right",
	"backspace": "BackSpace",
	"shift":     "shift",
	"ctrl":      "ctrl",
	"control":   "ctrl",
	"alt":       "alt",
}

// macKeyCodes maps key names to macOS virtual key codes.
var macKeyCodes = map[string]int{
	"space":     49,
	"enter":     36,
	"tab":       48,
	"esc":       53,
	"escape":    53,
	"up":        126,
	"down":      125,
	"left":      123,
	"right":     124,
	"backspace": 51,
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	if req.Key == "" {
		writeErrorResponse("key is required")
		return
	}

	var down bool
	switch req.Action {
	case "key_down":
		down = true
	case "key_up":
		down = false
	default:
		writeErrorResponse(fmt.Sprintf("unknown action: %s", req.Action))
		return
	}

	if err := toggle(req.Key, down); err != nil {
		writeErrorResponse(fmt.Sprintf("action %s failed: %v", req.Action, err))
		return
	}

	writeSuccessResponse()
}

func toggle(key string, down bool) error {
	key = strings.ToLower(key)
	switch runtime.GOOS {
	case "linux":
		return run("xdotool", xdotoolArgs(key, down)...)
	case "darwin":
		return run("osascript", "-e", buildKeyScript(key, down))
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

func xdotoolArgs(key string, down bool) []string {
	cmd := "keyup"
	if down {
		cmd = "keydown"
	}
	if sym, ok := xdotoolKeys[key]; ok {
		key = sym
	}
	return []string{cmd, key}
}

// buildKeyScript generates an AppleScript that presses or releases key.
func buildKeyScript(key string, down bool) string {
	verb := "key up"
	if down {
		verb = "key down"
	}
	if code, ok := macKeyCodes[key]; ok {
		return fmt.Sprintf(`tell application "System Events" to %s (key code %d)`, verb, code)
	}
	return fmt.Sprintf(`tell application "System Events" to %s "%s"`, verb, key)
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(errMsg string) {
	json.NewEncoder(os.Stdout).Encode(Response{Success: false, Error: errMsg})
}

// writeSuccessResponse writes a success response to stdout.
func writeSuccessResponse() {
	json.NewEncoder(os.Stdout).Encode(Response{Success: true})
}

func run(name string, args ...string) error {
	output, err := exec.Command(name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}
