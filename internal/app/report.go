package app

import (
	"time"

	"github.com/ayusman/pinchkey/internal/gesture"
)

// Report describes one processed frame.
type Report struct {
	Session        string                 `json:"session"`
	Seq            uint64                 `json:"seq"`
	At             time.Time              `json:"at"`
	HandPresent    bool                   `json:"hand_present"`
	Distance       float64                `json:"distance"` // -1 without a hand
	Classification gesture.Classification `json:"-"`
	State          gesture.State          `json:"-"`
	Event          gesture.Event          `json:"-"`
	Key            string                 `json:"key"`
	FPS            float64                `json:"fps"`

	ClassificationName string `json:"classification"`
	StateName          string `json:"state"`
	EventName          string `json:"event"`
}

// Observer receives a Report after every processed frame. Observe runs on
// the frame loop and must not block.
type Observer interface {
	Observe(r Report)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Report)

func (f ObserverFunc) Observe(r Report) { f(r) }

func (a *App) notify(r Report) {
	r.ClassificationName = r.Classification.String()
	r.StateName = r.State.String()
	r.EventName = r.Event.String()
	for _, o := range a.observers {
		o.Observe(r)
	}
}
