// Package gesture provides pinch recognition: a geometric classifier over
// two landmarks and an edge-triggered state machine over its output.
package gesture

import (
	"math"

	"github.com/ayusman/pinchkey/internal/detector"
)

// DefaultPinchThreshold is the normalized thumb-index distance below which a
// hand counts as pinched. It depends on the detector's coordinate convention
// and is meant to be tuned, not derived.
const DefaultPinchThreshold = 0.05

// Classification is the per-frame reading of the hand.
type Classification int

const (
	// Released means the thumb and index fingertip are apart, or no hand was seen.
	Released Classification = iota
	// Pinched means the thumb and index fingertip are touching.
	Pinched
)

func (c Classification) String() string {
	switch c {
	case Released:
		return "released"
	case Pinched:
		return "pinched"
	default:
		return "unknown"
	}
}

// Distance returns the Euclidean distance between two points in normalized
// image space. It is invariant to camera resolution but not to aspect ratio
// or to how far the hand is from the camera.
func Distance(a, b detector.Point2D) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Classify reports Pinched iff the distance between thumb and index is
// strictly less than threshold.
func Classify(thumb, index detector.Point2D, threshold float64) Classification {
	if Distance(thumb, index) < threshold {
		return Pinched
	}
	return Released
}

// ClassifyHand classifies the pinch points of hand and returns the measured
// distance. A nil hand classifies as Released with distance -1.
func ClassifyHand(hand *detector.HandLandmarks, threshold float64) (Classification, float64) {
	if hand == nil {
		return Released, -1
	}
	thumb, index := hand.PinchPoints()
	return Classify(thumb, index, threshold), Distance(thumb, index)
}
