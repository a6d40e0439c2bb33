package detector

import (
	"errors"

	"gocv.io/x/gocv"
)

var (
	// ErrModelNotFound is returned when the landmark model asset does not exist.
	ErrModelNotFound = errors.New("hand landmark model not found")

	// ErrServiceNotFound is returned when the landmark service script cannot be located.
	ErrServiceNotFound = errors.New("hand landmark service not found")
)

// Detector defines the interface for hand detection implementations.
type Detector interface {
	// Detect analyzes an RGB video frame and returns detected hand landmarks
	// in the detector's own output order.
	// Returns an empty slice if no hands are detected.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for hand detection.
type Config struct {
	// ModelPath is the MediaPipe hand landmarker asset (.task file).
	ModelPath string

	// ScriptPath overrides the location of the landmark service script.
	ScriptPath string

	// Python overrides the interpreter used to run the service.
	Python string

	// MaxHands is the maximum number of hands to detect (default: 1).
	MaxHands int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinPresenceConf is the minimum hand presence confidence threshold (0.0-1.0).
	MinPresenceConf float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		ModelPath:       "hand_landmarker.task",
		MaxHands:        1,
		MinConfidence:   0.5,
		MinPresenceConf: 0.5,
		MinTrackingConf: 0.5,
	}
}
