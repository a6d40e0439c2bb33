package app

import "time"

// FPSMeter estimates frame rate from the wall-clock delta between
// consecutive frame starts. It is advisory and feeds only the overlay and
// reports.
type FPSMeter struct {
	smoothing float64
	last      time.Time
	fps       float64
}

// NewFPSMeter returns a meter. smoothing in [0, 1) is the weight kept from the
// previous estimate; 0 reports the instantaneous rate.
func NewFPSMeter(smoothing float64) *FPSMeter {
	if smoothing < 0 || smoothing >= 1 {
		smoothing = 0
	}
	return &FPSMeter{smoothing: smoothing}
}

// Tick records a frame start at t and returns the current estimate. The
// first tick returns 0.
func (m *FPSMeter) Tick(t time.Time) float64 {
	if m.last.IsZero() {
		m.last = t
		return 0
	}

	dt := t.Sub(m.last).Seconds()
	m.last = t
	if dt <= 0 {
		return m.fps
	}

	instant := 1 / dt
	if m.fps == 0 || m.smoothing == 0 {
		m.fps = instant
	} else {
		m.fps = m.smoothing*m.fps + (1-m.smoothing)*instant
	}
	return m.fps
}

// FPS returns the last estimate.
func (m *FPSMeter) FPS() float64 {
	return m.fps
}
