package input

import (
	"fmt"

	"github.com/go-vgo/robotgo"
)

// RobotInjector sends key events to the desktop session through robotgo.
type RobotInjector struct{}

// NewRobotInjector returns an injector with robotgo's per-call key delay
// disabled. Consecutive toggles must not sleep.
func NewRobotInjector() *RobotInjector {
	robotgo.KeySleep = 0
	return &RobotInjector{}
}

// KeyDown presses key without releasing it.
func (r *RobotInjector) KeyDown(key string) error {
	if err := robotgo.KeyToggle(key, "down"); err != nil {
		return fmt.Errorf("key down %s: %w", key, err)
	}
	return nil
}

// KeyUp releases key.
func (r *RobotInjector) KeyUp(key string) error {
	if err := robotgo.KeyToggle(key, "up"); err != nil {
		return fmt.Errorf("key up %s: %w", key, err)
	}
	return nil
}
