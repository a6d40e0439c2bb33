// Package app provides the frame loop that turns camera frames into key events.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ayusman/pinchkey/internal/capture"
	"github.com/ayusman/pinchkey/internal/detector"
	"github.com/ayusman/pinchkey/internal/display"
	"github.com/ayusman/pinchkey/internal/gesture"
	"github.com/ayusman/pinchkey/internal/input"
	"github.com/google/uuid"
)

// Phase is the lifecycle stage of an App.
type Phase int

const (
	PhaseInitializing Phase = iota
	PhaseRunning
	PhaseTerminating
)

func (p Phase) String() string {
	switch p {
	case PhaseInitializing:
		return "initializing"
	case PhaseRunning:
		return "running"
	case PhaseTerminating:
		return "terminating"
	default:
		return "unknown"
	}
}

// Config holds the collaborators and settings of the frame loop.
type Config struct {
	Camera   capture.Camera
	Detector detector.Detector
	Injector input.Injector
	// Display is optional; nil runs headless.
	Display display.Display

	// Threshold is the pinch distance; zero selects gesture.DefaultPinchThreshold.
	Threshold float64
	// Key is the key held while pinching; empty selects input.DefaultKey.
	Key string
	// FPSSmoothing is the weight of the previous FPS estimate (0 = instantaneous).
	FPSSmoothing float64

	Observers []Observer
	Logger    *slog.Logger
	// SessionID tags reports; empty generates one.
	SessionID string
	// Now overrides the clock used for FPS and report timestamps.
	Now func() time.Time

	// ReadRetryDelay is the pause after a failed read; zero selects DefaultReadRetryDelay.
	ReadRetryDelay time.Duration
	// MaxReadFailures is how many consecutive failed reads end the loop;
	// zero selects DefaultMaxReadFailures.
	MaxReadFailures int
}

const (
	// DefaultReadRetryDelay keeps a failing camera from spinning the loop.
	DefaultReadRetryDelay = 10 * time.Millisecond
	// DefaultMaxReadFailures is roughly ten seconds of silence at 30 FPS.
	DefaultMaxReadFailures = 300
)

// App is the frame loop orchestrator. It owns the pinch state for the
// lifetime of one Run; nothing in it is safe for concurrent use.
type App struct {
	camera     capture.Camera
	detector   detector.Detector
	display    display.Display
	dispatcher *input.Dispatcher
	machine    *gesture.StateMachine
	fps        *FPSMeter
	threshold  float64
	observers  []Observer
	logger     *slog.Logger
	session    string
	now        func() time.Time
	phase      Phase
	seq        uint64

	retryDelay      time.Duration
	maxReadFailures int
	readFailures    int
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	threshold := config.Threshold
	if threshold <= 0 {
		threshold = gesture.DefaultPinchThreshold
	}

	session := config.SessionID
	if session == "" {
		session = uuid.NewString()
	}

	now := config.Now
	if now == nil {
		now = time.Now
	}

	disp := config.Display
	if disp == nil {
		disp = display.Headless{}
	}

	retryDelay := config.ReadRetryDelay
	if retryDelay <= 0 {
		retryDelay = DefaultReadRetryDelay
	}

	maxReadFailures := config.MaxReadFailures
	if maxReadFailures <= 0 {
		maxReadFailures = DefaultMaxReadFailures
	}

	return &App{
		camera:     config.Camera,
		detector:   config.Detector,
		display:    disp,
		dispatcher: input.NewDispatcher(config.Injector, config.Key, logger),
		machine:    gesture.NewStateMachine(),
		fps:        NewFPSMeter(config.FPSSmoothing),
		threshold:  threshold,
		observers:  config.Observers,
		logger:     logger.With("session", session),
		session:    session,
		now:        now,
		phase:      PhaseInitializing,

		retryDelay:      retryDelay,
		maxReadFailures: maxReadFailures,
	}
}

// Run opens the camera and processes frames until ctx is cancelled, the
// display requests a quit, or an iteration fails. A closed camera, an
// exhausted frame source and too many consecutive failed reads are failures. On every exit path after
// the camera opened, a held key is released before devices are closed.
// Run returns nil on a requested quit.
func (a *App) Run(ctx context.Context) error {
	a.phase = PhaseInitializing

	if err := a.camera.Open(); err != nil {
		a.phase = PhaseTerminating
		a.closeDevices()
		return fmt.Errorf("open camera: %w", err)
	}
	defer a.terminate()

	a.phase = PhaseRunning
	a.readFailures = 0
	a.logger.Info("frame loop started",
		"key", a.dispatcher.Key(),
		"threshold", a.threshold,
		"camera_fps", a.camera.FPS(),
	)

	for {
		if ctx.Err() != nil {
			a.logger.Info("quit requested", "reason", ctx.Err())
			return nil
		}

		out := a.step(ctx)
		switch out.Kind {
		case OutcomeContinue:
			continue
		case OutcomeSkipped:
			if !a.backoff(ctx) {
				a.logger.Info("quit requested", "reason", ctx.Err())
				return nil
			}
		case OutcomeQuit:
			a.logger.Info("quit requested", "reason", "display")
			return nil
		case OutcomeFailed:
			a.logger.Error("frame loop failed", "error", out.Err)
			return out.Err
		}
	}
}

// backoff waits out the retry delay after a skipped frame. It reports
// false when ctx ended first.
func (a *App) backoff(ctx context.Context) bool {
	t := time.NewTimer(a.retryDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// terminate forces a pending pinch to end through the dispatcher, tells
// observers about the release and releases devices.
func (a *App) terminate() {
	a.phase = PhaseTerminating

	if evt := a.machine.ForceRelease(); evt != gesture.EventNone {
		a.logger.Info("releasing held key on shutdown", "key", a.dispatcher.Key())
		a.dispatcher.Dispatch(evt)

		a.seq++
		a.notify(Report{
			Session:        a.session,
			Seq:            a.seq,
			At:             a.now(),
			HandPresent:    false,
			Distance:       -1,
			Classification: gesture.Released,
			State:          a.machine.State(),
			Event:          evt,
			Key:            a.dispatcher.Key(),
			FPS:            a.fps.FPS(),
		})
	}

	a.closeDevices()
	a.logger.Info("frame loop stopped", "reports", a.seq)
}

func (a *App) closeDevices() {
	if err := a.camera.Close(); err != nil {
		a.logger.Warn("error closing camera", "error", err)
	}
	if err := a.display.Close(); err != nil {
		a.logger.Warn("error closing display", "error", err)
	}
	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			a.logger.Warn("error closing detector", "error", err)
		}
	}
}

// Phase returns the current lifecycle phase.
func (a *App) Phase() Phase {
	return a.phase
}

// State returns the current pinch state.
func (a *App) State() gesture.State {
	return a.machine.State()
}

// SessionID returns the identifier attached to this run's reports.
func (a *App) SessionID() string {
	return a.session
}
