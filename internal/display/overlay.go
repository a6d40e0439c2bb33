package display

import (
	"fmt"
	"image"
	"image/color"

	"github.com/ayusman/pinchkey/internal/detector"
	"gocv.io/x/gocv"
)

var (
	landmarkColor = color.RGBA{R: 0, G: 0, B: 255, A: 0}
	pinchColor    = color.RGBA{R: 255, G: 0, B: 255, A: 0}
	activeColor   = color.RGBA{R: 0, G: 255, B: 0, A: 0}
)

// Overlay is what gets drawn on a preview frame. It is observational only.
type Overlay struct {
	Hand   *detector.HandLandmarks
	Active bool
	FPS    float64
	Label  string
}

// Draw annotates img in place: every landmark, the pinch points joined by a
// segment, an indicator while the gesture is active, and the FPS counter.
func Draw(img *gocv.Mat, o Overlay) {
	w, h := img.Cols(), img.Rows()

	if o.Hand != nil {
		for _, p := range o.Hand.Points {
			gocv.Circle(img, toPixel(p, w, h), 3, landmarkColor, -1)
		}

		thumb := toPixel(o.Hand.Points[detector.PinchThumb], w, h)
		finger := toPixel(o.Hand.Points[detector.PinchFinger], w, h)
		gocv.Circle(img, thumb, 10, pinchColor, -1)
		gocv.Circle(img, finger, 10, pinchColor, -1)
		gocv.Line(img, thumb, finger, pinchColor, 3)

		if o.Active {
			mid := image.Pt((thumb.X+finger.X)/2, (thumb.Y+finger.Y)/2)
			gocv.Circle(img, mid, 10, activeColor, -1)
			if o.Label != "" {
				gocv.PutText(img, o.Label, image.Pt(mid.X-20, mid.Y-20), gocv.FontHersheyPlain, 2, activeColor, 2)
			}
		}
	}

	gocv.PutText(img, fmt.Sprintf("FPS: %d", int(o.FPS)), image.Pt(10, 30), gocv.FontHersheyPlain, 2, activeColor, 2)
}

func toPixel(p detector.Point3D, w, h int) image.Point {
	return image.Pt(int(p.X*float64(w)), int(p.Y*float64(h)))
}
