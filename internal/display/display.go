// Package display renders the debug preview and polls for the quit key.
package display

import "gocv.io/x/gocv"

// Display shows annotated frames and reports when the user asked to quit.
type Display interface {
	Show(img gocv.Mat)
	// QuitRequested polls for the quit signal. It must not block longer than
	// the configured key wait.
	QuitRequested() bool
	Close() error
}

// Window is a Display backed by an OpenCV HighGUI window.
type Window struct {
	win     *gocv.Window
	quitKey int
	waitMs  int
}

// NewWindow opens a window titled title. Pressing quitKey in the window
// requests a quit; waitMs is the key poll delay per frame.
func NewWindow(title string, quitKey rune, waitMs int) *Window {
	if waitMs <= 0 {
		waitMs = 1
	}
	return &Window{
		win:     gocv.NewWindow(title),
		quitKey: int(quitKey),
		waitMs:  waitMs,
	}
}

// Show draws img in the window.
func (w *Window) Show(img gocv.Mat) {
	w.win.IMShow(img)
}

// QuitRequested waits up to waitMs for a key press.
func (w *Window) QuitRequested() bool {
	key := w.win.WaitKey(w.waitMs)
	return key >= 0 && key&0xFF == w.quitKey
}

// Close destroys the window.
func (w *Window) Close() error {
	return w.win.Close()
}

// Headless discards frames. Quit comes from process signals only.
type Headless struct{}

func (Headless) Show(gocv.Mat)       {}
func (Headless) QuitRequested() bool { return false }
func (Headless) Close() error        { return nil }
