package input

import (
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"

	"github.com/ayusman/pinchkey/internal/gesture"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewDispatcher_DefaultKey(t *testing.T) {
	d := NewDispatcher(NewRecorder(), "", nil)
	if d.Key() != DefaultKey {
		t.Errorf("Key() = %q, want %q", d.Key(), DefaultKey)
	}
}

func TestDispatcher_Dispatch(t *testing.T) {
	tests := []struct {
		name   string
		events []gesture.Event
		want   []Action
		held   bool
	}{
		{
			name:   "none does nothing",
			events: []gesture.Event{gesture.EventNone, gesture.EventNone},
			want:   []Action{},
		},
		{
			name:   "enter then exit",
			events: []gesture.Event{gesture.EventEnter, gesture.EventExit},
			want:   []Action{ActionKeyDown, ActionKeyUp},
		},
		{
			name:   "enter holds the key",
			events: []gesture.Event{gesture.EventEnter},
			want:   []Action{ActionKeyDown},
			held:   true,
		},
		{
			name:   "repeated enter is ignored",
			events: []gesture.Event{gesture.EventEnter, gesture.EventEnter},
			want:   []Action{ActionKeyDown},
			held:   true,
		},
		{
			name:   "exit without enter is ignored",
			events: []gesture.Event{gesture.EventExit},
			want:   []Action{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := NewRecorder()
			d := NewDispatcher(rec, "space", quietLogger())

			for _, evt := range tt.events {
				d.Dispatch(evt)
			}

			if got := rec.Actions(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("actions = %v, want %v", got, tt.want)
			}
			if d.Held() != tt.held {
				t.Errorf("Held() = %v, want %v", d.Held(), tt.held)
			}
		})
	}
}

func TestDispatcher_UsesConfiguredKey(t *testing.T) {
	rec := NewRecorder()
	d := NewDispatcher(rec, "up", quietLogger())

	d.Dispatch(gesture.EventEnter)
	d.Dispatch(gesture.EventExit)

	for _, c := range rec.Calls() {
		if c.Key != "up" {
			t.Errorf("call %v used key %q, want up", c.Action, c.Key)
		}
	}
}

func TestDispatcher_Release(t *testing.T) {
	t.Run("releases a held key once", func(t *testing.T) {
		rec := NewRecorder()
		d := NewDispatcher(rec, "space", quietLogger())

		d.Dispatch(gesture.EventEnter)
		d.Release()
		d.Release()

		want := []Action{ActionKeyDown, ActionKeyUp}
		if got := rec.Actions(); !reflect.DeepEqual(got, want) {
			t.Errorf("actions = %v, want %v", got, want)
		}
	})

	t.Run("no-op when not held", func(t *testing.T) {
		rec := NewRecorder()
		d := NewDispatcher(rec, "space", quietLogger())

		d.Release()

		if got := rec.Calls(); len(got) != 0 {
			t.Errorf("expected no calls, got %v", got)
		}
	})
}

func TestDispatcher_InjectorFailure(t *testing.T) {
	rec := NewRecorder()
	rec.SetError(errors.New("no display"))
	d := NewDispatcher(rec, "space", quietLogger())

	// A failed key-down still counts as held so the key-up is attempted
	d.Dispatch(gesture.EventEnter)
	if !d.Held() {
		t.Fatal("expected key to be held after failed key down")
	}

	d.Dispatch(gesture.EventExit)
	if d.Held() {
		t.Error("expected key to be released after failed key up")
	}

	want := []Action{ActionKeyDown, ActionKeyUp}
	if got := rec.Actions(); !reflect.DeepEqual(got, want) {
		t.Errorf("actions = %v, want %v", got, want)
	}

	// Not retried
	d.Release()
	if got := len(rec.Calls()); got != 2 {
		t.Errorf("expected 2 calls, got %d", got)
	}
}
