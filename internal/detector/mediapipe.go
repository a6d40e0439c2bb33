package detector

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
	"gocv.io/x/gocv"
)

const serviceScript = "hand_landmarker_service.py"

// MediaPipeDetector implements Detector using a Python MediaPipe subprocess.
// Frames and results cross the pipe as length-prefixed msgpack messages.
type MediaPipeDetector struct {
	config  Config
	script  string
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	stdout  *bufio.Reader
	mu      sync.Mutex
	started bool
}

// NewMediaPipeDetector creates a new MediaPipe detector.
// It fails with ErrModelNotFound when the model asset is missing and with
// ErrServiceNotFound when the service script cannot be located.
// The Python process is started lazily on first detection.
func NewMediaPipeDetector(config Config) (*MediaPipeDetector, error) {
	if _, err := os.Stat(config.ModelPath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrModelNotFound, config.ModelPath)
	}

	script := config.ScriptPath
	if script == "" {
		script = findLandmarkerScript()
	}
	if script == "" {
		return nil, fmt.Errorf("%w: %s", ErrServiceNotFound, serviceScript)
	}
	if _, err := os.Stat(script); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrServiceNotFound, script)
	}

	if config.MaxHands <= 0 {
		config.MaxHands = 1
	}

	return &MediaPipeDetector{
		config: config,
		script: script,
	}, nil
}

// Detect sends an RGB frame to the service and returns detected hand landmarks.
func (d *MediaPipeDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if frame == nil || frame.Empty() {
		return nil, nil
	}

	if err := d.ensureStarted(); err != nil {
		return nil, err
	}

	payload, err := encodeFrame(frame.Cols(), frame.Rows(), frame.Channels(), frame.ToBytes())
	if err != nil {
		return nil, err
	}

	if err := writeMessage(d.stdin, payload); err != nil {
		d.shutdown()
		return nil, err
	}

	body, err := readMessage(d.stdout)
	if err != nil {
		d.shutdown()
		return nil, err
	}

	return decodeHands(body)
}

// Close shuts down the Python process.
func (d *MediaPipeDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.shutdown()
}

func (d *MediaPipeDetector) ensureStarted() error {
	if d.started {
		return nil
	}

	// Use virtual environment Python if available
	pythonPath := d.config.Python
	if pythonPath == "" {
		pythonPath = findVenvPython()
	}
	if pythonPath == "" {
		pythonPath = "python3"
	}

	d.cmd = exec.Command(pythonPath, d.serviceArgs()...)

	stdin, err := d.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}

	stdout, err := d.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}

	// Capture stderr for debugging
	d.cmd.Stderr = os.Stderr

	if err := d.cmd.Start(); err != nil {
		return fmt.Errorf("start landmark service: %w", err)
	}

	d.stdin = stdin
	d.stdout = bufio.NewReader(stdout)
	d.started = true

	return nil
}

func (d *MediaPipeDetector) serviceArgs() []string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	return []string{
		d.script,
		"--model", d.config.ModelPath,
		"--num-hands", strconv.Itoa(d.config.MaxHands),
		"--min-detection-confidence", f(d.config.MinConfidence),
		"--min-presence-confidence", f(d.config.MinPresenceConf),
		"--min-tracking-confidence", f(d.config.MinTrackingConf),
	}
}

func (d *MediaPipeDetector) shutdown() error {
	if !d.started {
		return nil
	}

	if d.stdin != nil {
		d.stdin.Close()
	}

	err := d.cmd.Wait()
	d.started = false
	d.cmd = nil
	d.stdin = nil
	d.stdout = nil

	return err
}

// frameRequest is the msgpack message sent to the service.
type frameRequest struct {
	Width    int    `msgpack:"width"`
	Height   int    `msgpack:"height"`
	Channels int    `msgpack:"channels"`
	Format   string `msgpack:"format"`
	Data     []byte `msgpack:"data"`
}

// landmarkResponse is the msgpack message returned by the service.
type landmarkResponse struct {
	Hands []wireHand `msgpack:"hands"`
	Error string     `msgpack:"error"`
}

type wireHand struct {
	Points     [][]float64 `msgpack:"points"`
	Handedness string      `msgpack:"handedness"`
	Score      float64     `msgpack:"score"`
}

func encodeFrame(width, height, channels int, data []byte) ([]byte, error) {
	payload, err := msgpack.Marshal(&frameRequest{
		Width:    width,
		Height:   height,
		Channels: channels,
		Format:   "SRGB",
		Data:     data,
	})
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	return payload, nil
}

func decodeHands(body []byte) ([]HandLandmarks, error) {
	var resp landmarkResponse
	if err := msgpack.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("landmark service: %s", resp.Error)
	}

	result := make([]HandLandmarks, len(resp.Hands))
	for i, h := range resp.Hands {
		result[i] = h.toHandLandmarks()
	}
	return result, nil
}

func (h wireHand) toHandLandmarks() HandLandmarks {
	lm := HandLandmarks{
		Handedness: h.Handedness,
		Score:      h.Score,
	}

	for i := 0; i < NumLandmarks && i < len(h.Points); i++ {
		p := h.Points[i]
		if len(p) >= 2 {
			lm.Points[i].X = p[0]
			lm.Points[i].Y = p[1]
		}
		if len(p) >= 3 {
			lm.Points[i].Z = p[2]
		}
	}

	return lm
}

// writeMessage writes a 4-byte big-endian length followed by the payload.
func writeMessage(w io.Writer, payload []byte) error {
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(payload)))

	if _, err := w.Write(length); err != nil {
		return fmt.Errorf("write length: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("write data: %w", err)
	}
	return nil
}

// readMessage reads one length-prefixed message.
func readMessage(r io.Reader) ([]byte, error) {
	length := make([]byte, 4)
	if _, err := io.ReadFull(r, length); err != nil {
		return nil, fmt.Errorf("read length: %w", err)
	}

	body := make([]byte, binary.BigEndian.Uint32(length))
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}

func findLandmarkerScript() string {
	// Get executable directory
	execPath, err := os.Executable()
	var execDir string
	if err == nil {
		execDir = filepath.Dir(execPath)
	}

	candidates := []string{
		filepath.Join("scripts", serviceScript),
		filepath.Join("..", "scripts", serviceScript),
		filepath.Join(execDir, "scripts", serviceScript),
		filepath.Join(os.Getenv("HOME"), ".pinchkey", "scripts", serviceScript),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}

// findVenvPython looks for a Python interpreter in a virtual environment.
// It checks for venv/bin/python relative to the project directory.
func findVenvPython() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	execDir := filepath.Dir(execPath)

	candidates := []string{
		"venv/bin/python",
		"../venv/bin/python",
		filepath.Join(execDir, "venv/bin/python"),
		filepath.Join(os.Getenv("HOME"), ".pinchkey/venv/bin/python"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}
