// Package input turns pinch events into key presses.
package input

import (
	"log/slog"

	"github.com/ayusman/pinchkey/internal/gesture"
)

// DefaultKey is the key held while pinching.
const DefaultKey = "space"

// Injector presses and releases keys on the host.
type Injector interface {
	KeyDown(key string) error
	KeyUp(key string) error
}

// Dispatcher maps Enter/Exit events to key-down/key-up calls on an Injector.
// Every key-down it issues is matched by exactly one key-up, provided
// Release is called on shutdown. Injector failures are logged, not retried.
type Dispatcher struct {
	injector Injector
	key      string
	held     bool
	logger   *slog.Logger
}

// NewDispatcher creates a Dispatcher for key. An empty key selects DefaultKey.
func NewDispatcher(injector Injector, key string, logger *slog.Logger) *Dispatcher {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		injector: injector,
		key:      key,
		logger:   logger,
	}
}

// Key returns the key this dispatcher controls.
func (d *Dispatcher) Key() string {
	return d.key
}

// Held reports whether a key-down has been issued without a matching key-up.
func (d *Dispatcher) Held() bool {
	return d.held
}

// Dispatch issues the key call for evt. EventNone is ignored, as are Enter
// while held and Exit while not held.
func (d *Dispatcher) Dispatch(evt gesture.Event) {
	switch evt {
	case gesture.EventEnter:
		if d.held {
			return
		}
		// Held from here on even if injection fails, so a key-up still follows.
		d.held = true
		if err := d.injector.KeyDown(d.key); err != nil {
			d.logger.Warn("key down failed", "key", d.key, "error", err)
			return
		}
		d.logger.Info("key down", "key", d.key)
	case gesture.EventExit:
		d.Release()
	}
}

// Release issues a key-up if the key is held. It is a no-op otherwise.
func (d *Dispatcher) Release() {
	if !d.held {
		return
	}
	d.held = false
	if err := d.injector.KeyUp(d.key); err != nil {
		d.logger.Warn("key up failed", "key", d.key, "error", err)
		return
	}
	d.logger.Debug("key up", "key", d.key)
}
