package display

import "gocv.io/x/gocv"

// Mock is a test Display that requests a quit after a fixed number of frames.
type Mock struct {
	quitAfter int
	shown     int
	polls     int
	closed    bool
	lastCols  int
	lastRows  int
}

// NewMock returns a Mock that quits on the quitAfter-th poll. Zero never quits.
func NewMock(quitAfter int) *Mock {
	return &Mock{quitAfter: quitAfter}
}

func (m *Mock) Show(img gocv.Mat) {
	m.shown++
	m.lastCols = img.Cols()
	m.lastRows = img.Rows()
}

func (m *Mock) QuitRequested() bool {
	m.polls++
	return m.quitAfter > 0 && m.polls >= m.quitAfter
}

func (m *Mock) Close() error {
	m.closed = true
	return nil
}

// Shown returns how many frames were shown.
func (m *Mock) Shown() int { return m.shown }

// Closed reports whether Close was called.
func (m *Mock) Closed() bool { return m.closed }

// LastSize returns the dimensions of the last frame shown.
func (m *Mock) LastSize() (cols, rows int) { return m.lastCols, m.lastRows }
