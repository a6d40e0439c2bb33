package capture

import "gocv.io/x/gocv"

// Mirror flips src around the vertical axis into dst, producing a selfie view.
func Mirror(src gocv.Mat, dst *gocv.Mat) {
	gocv.Flip(src, dst, 1)
}

// ToRGB converts a BGR frame into dst as RGB, the layout the landmark model expects.
func ToRGB(src gocv.Mat, dst *gocv.Mat) {
	if src.Channels() == 1 {
		gocv.CvtColor(src, dst, gocv.ColorGrayToRGB)
		return
	}
	gocv.CvtColor(src, dst, gocv.ColorBGRToRGB)
}
