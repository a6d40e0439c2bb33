// Package testutil builds synthetic frames and landmark scripts for tests.
package testutil

import (
	"fmt"

	"github.com/ayusman/pinchkey/internal/detector"
	"gocv.io/x/gocv"
)

// BlankFrame returns a black BGR frame of the given size. The caller closes it.
func BlankFrame(width, height int) *gocv.Mat {
	mat := gocv.Zeros(height, width, gocv.MatTypeCV8UC3)
	return &mat
}

// LoadSequence returns n blank 640x480 frames. The caller closes them.
func LoadSequence(n int) []*gocv.Mat {
	frames := make([]*gocv.Mat, n)
	for i := range frames {
		frames[i] = BlankFrame(640, 480)
	}
	return frames
}

// CloseAll closes every frame.
func CloseAll(frames []*gocv.Mat) {
	for _, f := range frames {
		f.Close()
	}
}

// Script turns a compact hand script into per-frame detector results:
// 'P' is a pinching hand, 'R' an open hand and '-' no hand.
func Script(s string) ([][]detector.HandLandmarks, error) {
	seq := make([][]detector.HandLandmarks, 0, len(s))
	for i, c := range s {
		switch c {
		case 'P':
			seq = append(seq, []detector.HandLandmarks{detector.PinchLandmarks()})
		case 'R':
			seq = append(seq, []detector.HandLandmarks{detector.OpenPalmLandmarks()})
		case '-':
			seq = append(seq, nil)
		default:
			return nil, fmt.Errorf("script %q: unknown symbol %q at %d", s, c, i)
		}
	}
	return seq, nil
}

// MustScript is Script that panics on a malformed script.
func MustScript(s string) [][]detector.HandLandmarks {
	seq, err := Script(s)
	if err != nil {
		panic(err)
	}
	return seq
}
