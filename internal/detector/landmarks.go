// Package detector provides hand detection interfaces and types for pinch recognition.
package detector

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Landmarks that make up a pinch.
const (
	PinchThumb  = ThumbTip
	PinchFinger = IndexTip
)

// Point3D is a landmark in normalized image coordinates. X and Y are
// fractions of the frame width and height, Z is relative depth.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Point2D is a landmark projected onto the image plane.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// XY drops the depth component.
func (p Point3D) XY() Point2D {
	return Point2D{X: p.X, Y: p.Y}
}

// HandLandmarks represents the 21 hand landmarks detected by MediaPipe.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// PinchPoints returns the thumb tip and index fingertip on the image plane.
func (h *HandLandmarks) PinchPoints() (thumb, finger Point2D) {
	return h.Points[PinchThumb].XY(), h.Points[PinchFinger].XY()
}

// FirstHand returns the first hand in detector output order, or nil when
// no hand was detected. Additional hands are ignored.
func FirstHand(hands []HandLandmarks) *HandLandmarks {
	if len(hands) == 0 {
		return nil
	}
	return &hands[0]
}
