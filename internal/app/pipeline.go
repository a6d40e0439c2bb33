package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ayusman/pinchkey/internal/capture"
	"github.com/ayusman/pinchkey/internal/detector"
	"github.com/ayusman/pinchkey/internal/display"
	"github.com/ayusman/pinchkey/internal/gesture"
	"gocv.io/x/gocv"
)

// OutcomeKind tells the loop what to do after one iteration.
type OutcomeKind int

const (
	// OutcomeContinue means the frame was fully processed.
	OutcomeContinue OutcomeKind = iota
	// OutcomeSkipped means no usable frame was read; state is unchanged.
	OutcomeSkipped
	// OutcomeQuit means a quit was requested.
	OutcomeQuit
	// OutcomeFailed means the iteration hit an unrecoverable error.
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeContinue:
		return "continue"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeQuit:
		return "quit"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the result of one iteration.
type Outcome struct {
	Kind OutcomeKind
	Err  error
}

// step processes a single frame:
//
//  1. Read a frame (a transient failure skips the iteration)
//  2. Mirror it and convert a copy to RGB for the detector
//  3. Detect landmarks and take the first hand
//  4. Classify the pinch, advance the state machine, dispatch the event
//  5. Notify observers, draw the overlay, show the frame
//  6. Poll the display for a quit
func (a *App) step(ctx context.Context) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{Kind: OutcomeFailed, Err: fmt.Errorf("panic in frame loop: %v", r)}
		}
	}()

	frame, err := a.camera.ReadFrame()
	if err != nil {
		if errors.Is(err, capture.ErrCameraNotOpen) || errors.Is(err, capture.ErrEndOfStream) || !a.camera.IsOpen() {
			return Outcome{Kind: OutcomeFailed, Err: fmt.Errorf("read frame: %w", err)}
		}
		return a.skip(err)
	}
	defer frame.Close()
	if frame.Empty() {
		return a.skip(capture.ErrEmptyFrame)
	}
	a.readFailures = 0

	now := a.now()
	fps := a.fps.Tick(now)

	mirrored := gocv.NewMat()
	defer mirrored.Close()
	capture.Mirror(*frame, &mirrored)

	rgb := gocv.NewMat()
	defer rgb.Close()
	capture.ToRGB(mirrored, &rgb)

	hands, err := a.detector.Detect(&rgb)
	if err != nil {
		return Outcome{Kind: OutcomeFailed, Err: fmt.Errorf("detect hands: %w", err)}
	}
	hand := detector.FirstHand(hands)

	class, distance := gesture.ClassifyHand(hand, a.threshold)
	evt := a.machine.Update(class)
	a.dispatcher.Dispatch(evt)

	a.seq++
	a.notify(Report{
		Session:        a.session,
		Seq:            a.seq,
		At:             now,
		HandPresent:    hand != nil,
		Distance:       distance,
		Classification: class,
		State:          a.machine.State(),
		Event:          evt,
		Key:            a.dispatcher.Key(),
		FPS:            fps,
	})

	display.Draw(&mirrored, display.Overlay{
		Hand:   hand,
		Active: a.machine.State() == gesture.StatePinched,
		FPS:    fps,
		Label:  strings.ToUpper(a.dispatcher.Key()),
	})
	a.display.Show(mirrored)

	if a.display.QuitRequested() {
		return Outcome{Kind: OutcomeQuit}
	}
	if ctx.Err() != nil {
		return Outcome{Kind: OutcomeQuit}
	}
	return Outcome{Kind: OutcomeContinue}
}

// skip logs a frame that could not be used and still honours a quit from
// the display. Too many consecutive skips fail the loop.
func (a *App) skip(err error) Outcome {
	a.readFailures++
	if a.readFailures >= a.maxReadFailures {
		return Outcome{Kind: OutcomeFailed, Err: fmt.Errorf("no frame after %d reads: %w", a.readFailures, err)}
	}
	a.logger.Warn("skipping frame", "error", err, "consecutive", a.readFailures)
	if a.display.QuitRequested() {
		return Outcome{Kind: OutcomeQuit}
	}
	return Outcome{Kind: OutcomeSkipped}
}
