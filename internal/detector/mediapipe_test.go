package detector

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

func TestNewMediaPipeDetector_MissingModel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ModelPath = filepath.Join(t.TempDir(), "hand_landmarker.task")

	_, err := NewMediaPipeDetector(cfg)
	if !errors.Is(err, ErrModelNotFound) {
		t.Fatalf("NewMediaPipeDetector() error = %v, want ErrModelNotFound", err)
	}
}

func TestNewMediaPipeDetector_EmptyModelPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ModelPath = ""

	_, err := NewMediaPipeDetector(cfg)
	if !errors.Is(err, ErrModelNotFound) {
		t.Fatalf("NewMediaPipeDetector() error = %v, want ErrModelNotFound", err)
	}
}

func TestNewMediaPipeDetector_MissingScript(t *testing.T) {
	tmpDir := t.TempDir()
	modelPath := filepath.Join(tmpDir, "hand_landmarker.task")
	if err := os.WriteFile(modelPath, []byte("model"), 0644); err != nil {
		t.Fatalf("failed to write model: %v", err)
	}

	cfg := DefaultConfig()
	cfg.ModelPath = modelPath
	cfg.ScriptPath = filepath.Join(tmpDir, "missing.py")

	_, err := NewMediaPipeDetector(cfg)
	if !errors.Is(err, ErrServiceNotFound) {
		t.Fatalf("NewMediaPipeDetector() error = %v, want ErrServiceNotFound", err)
	}
}

func TestNewMediaPipeDetector_Valid(t *testing.T) {
	tmpDir := t.TempDir()
	modelPath := filepath.Join(tmpDir, "hand_landmarker.task")
	scriptPath := filepath.Join(tmpDir, serviceScript)
	for _, p := range []string{modelPath, scriptPath} {
		if err := os.WriteFile(p, []byte("x"), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", p, err)
		}
	}

	cfg := DefaultConfig()
	cfg.ModelPath = modelPath
	cfg.ScriptPath = scriptPath
	cfg.MaxHands = 0

	d, err := NewMediaPipeDetector(cfg)
	if err != nil {
		t.Fatalf("NewMediaPipeDetector() error = %v", err)
	}

	// The service is not started until the first frame arrives
	if err := d.Close(); err != nil {
		t.Errorf("Close() on unstarted detector error = %v", err)
	}

	args := d.serviceArgs()
	if args[0] != scriptPath {
		t.Errorf("first arg = %s, want script path", args[0])
	}
	want := map[string]string{
		"--model":     modelPath,
		"--num-hands": "1",
	}
	for i := 1; i+1 < len(args); i += 2 {
		if v, ok := want[args[i]]; ok && args[i+1] != v {
			t.Errorf("%s = %s, want %s", args[i], args[i+1], v)
		}
	}
}

func TestMessageFraming(t *testing.T) {
	var buf bytes.Buffer

	payloads := [][]byte{[]byte("first"), {}, bytes.Repeat([]byte{0xAB}, 70000)}
	for _, p := range payloads {
		if err := writeMessage(&buf, p); err != nil {
			t.Fatalf("writeMessage() error = %v", err)
		}
	}

	for i, want := range payloads {
		got, err := readMessage(&buf)
		if err != nil {
			t.Fatalf("message %d: readMessage() error = %v", i, err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("message %d: got %d bytes, want %d", i, len(got), len(want))
		}
	}

	if _, err := readMessage(&buf); err == nil {
		t.Error("expected error reading past the last message")
	}
}

func TestReadMessage_Truncated(t *testing.T) {
	var buf bytes.Buffer
	if err := writeMessage(&buf, []byte("complete body")); err != nil {
		t.Fatalf("writeMessage() error = %v", err)
	}
	truncated := bytes.NewReader(buf.Bytes()[:buf.Len()-3])

	if _, err := readMessage(truncated); err == nil {
		t.Error("expected error for truncated body")
	}
}

func TestEncodeFrame(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5, 6}
	payload, err := encodeFrame(2, 1, 3, data)
	if err != nil {
		t.Fatalf("encodeFrame() error = %v", err)
	}

	var req map[string]interface{}
	if err := msgpack.Unmarshal(payload, &req); err != nil {
		t.Fatalf("failed to decode request: %v", err)
	}

	if req["format"] != "SRGB" {
		t.Errorf("format = %v, want SRGB", req["format"])
	}
	if got, ok := req["data"].([]byte); !ok || !bytes.Equal(got, data) {
		t.Errorf("data = %v, want %v", req["data"], data)
	}
}

func TestDecodeHands(t *testing.T) {
	t.Run("converts points in output order", func(t *testing.T) {
		points := make([][]float64, NumLandmarks)
		for i := range points {
			points[i] = []float64{float64(i) / 100, float64(i) / 50, -0.01}
		}
		body, err := msgpack.Marshal(map[string]interface{}{
			"hands": []map[string]interface{}{
				{"points": points, "handedness": "Left", "score": 0.8},
				{"points": points[:2], "handedness": "Right", "score": 0.9},
			},
		})
		if err != nil {
			t.Fatalf("failed to encode response: %v", err)
		}

		hands, err := decodeHands(body)
		if err != nil {
			t.Fatalf("decodeHands() error = %v", err)
		}
		if len(hands) != 2 {
			t.Fatalf("expected 2 hands, got %d", len(hands))
		}
		if hands[0].Handedness != "Left" {
			t.Errorf("first hand = %s, want Left", hands[0].Handedness)
		}
		if got := hands[0].Points[IndexTip]; got.X != 0.08 || got.Y != 0.16 {
			t.Errorf("index tip = %+v, want {0.08 0.16}", got)
		}
		// Missing points stay at the zero value
		if got := hands[1].Points[PinkyTip]; got != (Point3D{}) {
			t.Errorf("pinky tip = %+v, want zero", got)
		}
	})

	t.Run("no hands", func(t *testing.T) {
		body, _ := msgpack.Marshal(map[string]interface{}{"hands": []interface{}{}})

		hands, err := decodeHands(body)
		if err != nil {
			t.Fatalf("decodeHands() error = %v", err)
		}
		if len(hands) != 0 {
			t.Errorf("expected no hands, got %d", len(hands))
		}
	})

	t.Run("service error", func(t *testing.T) {
		body, _ := msgpack.Marshal(map[string]interface{}{"error": "bad frame"})

		if _, err := decodeHands(body); err == nil {
			t.Error("expected error from service response")
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := decodeHands([]byte{0xc1}); err == nil {
			t.Error("expected parse error")
		}
	})
}
