package config

import (
	"fmt"
	"unicode/utf8"
)

// Validate checks if the configuration is valid
func Validate(cfg *Config) error {
	// Validate camera
	if cfg.Camera.Device < 0 {
		return fmt.Errorf("camera.device must be >= 0")
	}
	if cfg.Camera.Width <= 0 || cfg.Camera.Height <= 0 {
		return fmt.Errorf("camera.width and camera.height must be > 0")
	}
	if cfg.Camera.FPS < 0 {
		return fmt.Errorf("camera.fps must be >= 0")
	}
	if cfg.Camera.MaxReadFailures < 0 {
		return fmt.Errorf("camera.max_read_failures must be >= 0")
	}
	if cfg.Camera.MaxReadFailures == 0 {
		cfg.Camera.MaxReadFailures = 300
	}

	// Validate detector
	if cfg.Detector.ModelPath == "" {
		return fmt.Errorf("detector.model_path is required")
	}
	if cfg.Detector.MaxHands <= 0 {
		cfg.Detector.MaxHands = 1 // default
	}
	for name, v := range map[string]float64{
		"min_detection_confidence": cfg.Detector.MinDetectionConfidence,
		"min_presence_confidence":  cfg.Detector.MinPresenceConfidence,
		"min_tracking_confidence":  cfg.Detector.MinTrackingConfidence,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("detector.%s must be within [0, 1]", name)
		}
	}

	// Validate gesture
	if cfg.Gesture.PinchThreshold <= 0 {
		return fmt.Errorf("gesture.pinch_threshold must be > 0")
	}
	if cfg.Gesture.Key == "" {
		return fmt.Errorf("gesture.key is required")
	}

	// Validate input
	switch cfg.Input.Backend {
	case BackendRobotgo:
	case BackendCommand:
		if cfg.Input.Command == "" {
			return fmt.Errorf("input.command is required for the command backend")
		}
	default:
		return fmt.Errorf("input.backend must be %q or %q", BackendRobotgo, BackendCommand)
	}
	if cfg.Input.TimeoutMs <= 0 {
		cfg.Input.TimeoutMs = 500 // default
	}

	// Validate display
	if cfg.Display.Enabled && utf8.RuneCountInString(cfg.Display.QuitKey) != 1 {
		return fmt.Errorf("display.quit_key must be a single character")
	}
	if cfg.Display.WaitMs <= 0 {
		cfg.Display.WaitMs = 5 // default
	}
	if cfg.Display.FPSSmoothing < 0 || cfg.Display.FPSSmoothing >= 1 {
		return fmt.Errorf("display.fps_smoothing must be within [0, 1)")
	}

	// Validate MQTT
	if cfg.MQTT.QoS > 2 {
		return fmt.Errorf("mqtt.qos must be 0, 1 or 2")
	}
	if cfg.MQTT.Broker != "" && cfg.MQTT.Topic == "" {
		return fmt.Errorf("mqtt.topic is required when mqtt.broker is set")
	}

	return nil
}

// QuitRune returns the display quit key.
func (d DisplayConfig) QuitRune() rune {
	r, _ := utf8.DecodeRuneInString(d.QuitKey)
	return r
}
