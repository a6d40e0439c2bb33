package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate(Default()) error = %v", err)
	}

	if cfg.Gesture.PinchThreshold != 0.05 {
		t.Errorf("pinch_threshold = %f, want 0.05", cfg.Gesture.PinchThreshold)
	}
	if cfg.Gesture.Key != "space" {
		t.Errorf("key = %q, want space", cfg.Gesture.Key)
	}
	if cfg.Camera.Width != 640 || cfg.Camera.Height != 480 {
		t.Errorf("resolution = %dx%d, want 640x480", cfg.Camera.Width, cfg.Camera.Height)
	}
	if cfg.Detector.MaxHands != 1 {
		t.Errorf("max_hands = %d, want 1", cfg.Detector.MaxHands)
	}
}

func TestParse_EmptyKeepsDefaults(t *testing.T) {
	for _, input := range []string{"", "# nothing here\n"} {
		cfg, err := Parse([]byte(input))
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", input, err)
		}
		if *cfg != *Default() {
			t.Errorf("Parse(%q) = %+v, want defaults", input, cfg)
		}
	}
}

func TestParse_Overrides(t *testing.T) {
	input := `
camera:
  device: 1
gesture:
  pinch_threshold: 0.04
  key: up
display:
  enabled: false
input:
  backend: command
  command: /usr/local/bin/pinchkey-keys
mqtt:
  broker: localhost:1883
  qos: 1
`
	cfg, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Camera.Device != 1 {
		t.Errorf("camera.device = %d, want 1", cfg.Camera.Device)
	}
	// Unset fields keep their defaults
	if cfg.Camera.Width != 640 {
		t.Errorf("camera.width = %d, want 640", cfg.Camera.Width)
	}
	if cfg.Gesture.PinchThreshold != 0.04 {
		t.Errorf("gesture.pinch_threshold = %f, want 0.04", cfg.Gesture.PinchThreshold)
	}
	if cfg.Gesture.Key != "up" {
		t.Errorf("gesture.key = %q, want up", cfg.Gesture.Key)
	}
	if cfg.Display.Enabled {
		t.Error("display.enabled = true, want false")
	}
	if cfg.Input.Backend != BackendCommand || cfg.Input.Command != "/usr/local/bin/pinchkey-keys" {
		t.Errorf("input = %+v, want command backend", cfg.Input)
	}
	if cfg.MQTT.Topic != "pinchkey/events" {
		t.Errorf("mqtt.topic = %q, want default", cfg.MQTT.Topic)
	}
	if cfg.MQTT.QoS != 1 {
		t.Errorf("mqtt.qos = %d, want 1", cfg.MQTT.QoS)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"zero threshold", "gesture:\n  pinch_threshold: 0\n", "pinch_threshold"},
		{"negative threshold", "gesture:\n  pinch_threshold: -0.1\n", "pinch_threshold"},
		{"empty key", "gesture:\n  key: \"\"\n", "gesture.key"},
		{"empty model", "detector:\n  model_path: \"\"\n", "model_path"},
		{"bad confidence", "detector:\n  min_tracking_confidence: 1.5\n", "min_tracking_confidence"},
		{"bad resolution", "camera:\n  width: 0\n", "camera.width"},
		{"negative read failures", "camera:\n  max_read_failures: -1\n", "max_read_failures"},
		{"long quit key", "display:\n  quit_key: qq\n", "quit_key"},
		{"bad smoothing", "display:\n  fps_smoothing: 1\n", "fps_smoothing"},
		{"bad qos", "mqtt:\n  qos: 3\n", "mqtt.qos"},
		{"unknown backend", "input:\n  backend: uinput\n", "input.backend"},
		{"command without helper", "input:\n  backend: command\n", "input.command"},
		{"unknown field", "gesture:\n  treshold: 0.1\n", "failed to parse"},
		{"malformed", "camera: [1, 2\n", "failed to parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_FillsDefaults(t *testing.T) {
	cfg := Default()
	cfg.Detector.MaxHands = 0
	cfg.Display.WaitMs = 0
	cfg.Input.TimeoutMs = 0
	cfg.Camera.MaxReadFailures = 0

	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Detector.MaxHands != 1 {
		t.Errorf("max_hands = %d, want 1", cfg.Detector.MaxHands)
	}
	if cfg.Display.WaitMs != 5 {
		t.Errorf("wait_ms = %d, want 5", cfg.Display.WaitMs)
	}
	if cfg.Input.TimeoutMs != 500 {
		t.Errorf("input.timeout_ms = %d, want 500", cfg.Input.TimeoutMs)
	}
	if cfg.Camera.MaxReadFailures != 300 {
		t.Errorf("camera.max_read_failures = %d, want 300", cfg.Camera.MaxReadFailures)
	}
}

func TestLoad(t *testing.T) {
	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "pinchkey.yaml")
		if err := os.WriteFile(path, []byte("gesture:\n  key: enter\n"), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Gesture.Key != "enter" {
			t.Errorf("gesture.key = %q, want enter", cfg.Gesture.Key)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}

func TestDisplayConfig_QuitRune(t *testing.T) {
	if got := (DisplayConfig{QuitKey: "q"}).QuitRune(); got != 'q' {
		t.Errorf("QuitRune() = %q, want 'q'", got)
	}
}
