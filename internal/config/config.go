// Package config loads pinchkey settings from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the complete pinchkey configuration
type Config struct {
	Camera   CameraConfig   `yaml:"camera"`
	Detector DetectorConfig `yaml:"detector"`
	Gesture  GestureConfig  `yaml:"gesture"`
	Input    InputConfig    `yaml:"input"`
	Display  DisplayConfig  `yaml:"display"`
	Server   ServerConfig   `yaml:"server"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
}

// CameraConfig contains camera settings
type CameraConfig struct {
	Device int `yaml:"device"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	FPS    int `yaml:"fps"`

	// MaxReadFailures is how many consecutive failed reads stop the loop.
	MaxReadFailures int `yaml:"max_read_failures"`
}

// DetectorConfig contains hand landmark model settings
type DetectorConfig struct {
	ModelPath              string  `yaml:"model_path"`
	ScriptPath             string  `yaml:"script_path"` // empty: search scripts/ next to the binary
	Python                 string  `yaml:"python"`      // empty: venv python, then python3
	MaxHands               int     `yaml:"max_hands"`
	MinDetectionConfidence float64 `yaml:"min_detection_confidence"`
	MinPresenceConfidence  float64 `yaml:"min_presence_confidence"`
	MinTrackingConfidence  float64 `yaml:"min_tracking_confidence"`
}

// GestureConfig contains pinch recognition settings
type GestureConfig struct {
	PinchThreshold float64 `yaml:"pinch_threshold"` // normalized thumb-index distance
	Key            string  `yaml:"key"`             // robotgo key name
}

// InputConfig selects how key presses reach the host
type InputConfig struct {
	Backend   string `yaml:"backend"`    // "robotgo" or "command"
	Command   string `yaml:"command"`    // helper executable for the command backend
	TimeoutMs int    `yaml:"timeout_ms"` // per helper call
}

// DisplayConfig contains debug preview settings
type DisplayConfig struct {
	Enabled      bool    `yaml:"enabled"`
	WindowTitle  string  `yaml:"window_title"`
	QuitKey      string  `yaml:"quit_key"`
	WaitMs       int     `yaml:"wait_ms"`
	FPSSmoothing float64 `yaml:"fps_smoothing"` // 0 = instantaneous
}

// ServerConfig contains telemetry server settings
type ServerConfig struct {
	Addr string `yaml:"addr"` // empty disables the server
}

// MQTTConfig contains MQTT broker settings
type MQTTConfig struct {
	Broker   string `yaml:"broker"` // host:port, empty disables publishing
	ClientID string `yaml:"client_id"`
	Topic    string `yaml:"topic"`
	QoS      byte   `yaml:"qos"`
}

// Input backends.
const (
	BackendRobotgo = "robotgo"
	BackendCommand = "command"
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Camera: CameraConfig{
			Device: 0,
			Width:  640,
			Height: 480,
			FPS:    30,

			MaxReadFailures: 300,
		},
		Detector: DetectorConfig{
			ModelPath:              "hand_landmarker.task",
			MaxHands:               1,
			MinDetectionConfidence: 0.5,
			MinPresenceConfidence:  0.5,
			MinTrackingConfidence:  0.5,
		},
		Gesture: GestureConfig{
			PinchThreshold: 0.05,
			Key:            "space",
		},
		Input: InputConfig{
			Backend:   BackendRobotgo,
			TimeoutMs: 500,
		},
		Display: DisplayConfig{
			Enabled:     true,
			WindowTitle: "Pinch Key Controller",
			QuitKey:     "q",
			WaitMs:      5,
		},
		MQTT: MQTTConfig{
			Topic: "pinchkey/events",
		},
	}
}

// Load reads a YAML configuration file on top of Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML on top of Default and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
