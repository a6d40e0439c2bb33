// Package emitter publishes pinch transitions to an MQTT broker.
package emitter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/ayusman/pinchkey/internal/app"
	"github.com/ayusman/pinchkey/internal/gesture"
)

const queueSize = 64

// Config holds the emitter settings.
type Config struct {
	Broker   string // host:port
	ClientID string
	Topic    string
	QoS      byte
	Session  string
}

// Message is the JSON payload published for each transition.
type Message struct {
	Session  string    `json:"session"`
	Event    string    `json:"event"`
	Key      string    `json:"key"`
	Distance float64   `json:"distance"`
	At       time.Time `json:"at"`
}

// MQTTEmitter publishes Enter/Exit transitions to <topic>/<event>. It
// implements app.Observer; publishing happens on its own goroutine.
type MQTTEmitter struct {
	cfg    Config
	Client mqtt.Client
	logger *slog.Logger

	queue chan app.Report
	done  chan struct{}
	wg    sync.WaitGroup
	stop  sync.Once

	mu        sync.RWMutex
	published map[string]uint64 // count per topic
	errors    uint64
	dropped   uint64
	connected bool
}

// NewMQTTEmitter creates a new MQTT emitter. Nothing is published until
// Connect succeeds.
func NewMQTTEmitter(cfg Config, logger *slog.Logger) *MQTTEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ClientID == "" {
		cfg.ClientID = "pinchkey"
		if len(cfg.Session) >= 8 {
			cfg.ClientID += "-" + cfg.Session[:8]
		}
	}
	return &MQTTEmitter{
		cfg:       cfg,
		logger:    logger,
		queue:     make(chan app.Report, queueSize),
		done:      make(chan struct{}),
		published: make(map[string]uint64),
	}
}

// Connect establishes connection to the broker and starts the publisher.
func (e *MQTTEmitter) Connect(ctx context.Context) error {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s", e.cfg.Broker))
	opts.SetClientID(e.cfg.ClientID)
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(30 * time.Second)

	opts.OnConnect = func(c mqtt.Client) {
		e.setConnected(true)
		e.logger.Info("mqtt connection established", "broker", e.cfg.Broker, "client_id", e.cfg.ClientID)
	}
	opts.OnConnectionLost = func(c mqtt.Client, err error) {
		e.setConnected(false)
		e.logger.Warn("mqtt connection lost, will auto-reconnect", "error", err, "broker", e.cfg.Broker)
	}

	e.Client = mqtt.NewClient(opts)

	e.logger.Info("connecting to mqtt broker", "broker", e.cfg.Broker)

	token := e.Client.Connect()
	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(5 * time.Second):
		return fmt.Errorf("mqtt connection timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connection failed: %w", err)
	}
	e.setConnected(true)

	e.wg.Add(1)
	go e.run()
	return nil
}

// Observe queues transition reports for publication. It never blocks;
// reports are dropped when the queue is full.
func (e *MQTTEmitter) Observe(r app.Report) {
	if r.Event == gesture.EventNone {
		return
	}
	select {
	case e.queue <- r:
	default:
		e.mu.Lock()
		e.dropped++
		e.mu.Unlock()
	}
}

func (e *MQTTEmitter) run() {
	defer e.wg.Done()
	for {
		select {
		case r := <-e.queue:
			if err := e.publish(r); err != nil {
				e.logger.Warn("mqtt publish failed", "error", err, "event", r.Event)
			}
		case <-e.done:
			// Flush what is already queued so a final release goes out
			for {
				select {
				case r := <-e.queue:
					if err := e.publish(r); err != nil {
						e.logger.Warn("mqtt publish failed", "error", err, "event", r.Event)
					}
				default:
					return
				}
			}
		}
	}
}

func (e *MQTTEmitter) publish(r app.Report) error {
	if !e.isConnected() {
		e.countError()
		return fmt.Errorf("mqtt not connected")
	}

	topic, payload, err := e.buildMessage(r)
	if err != nil {
		e.countError()
		return err
	}

	token := e.Client.Publish(topic, e.cfg.QoS, false, payload)
	if !token.WaitTimeout(2 * time.Second) {
		e.countError()
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		e.countError()
		return fmt.Errorf("publish failed: %w", err)
	}

	e.mu.Lock()
	e.published[topic]++
	e.mu.Unlock()

	e.logger.Debug("transition published", "topic", topic, "qos", e.cfg.QoS, "size", len(payload))
	return nil
}

// buildMessage returns the topic and JSON payload for a transition report.
func (e *MQTTEmitter) buildMessage(r app.Report) (string, []byte, error) {
	event := r.Event.String()
	session := r.Session
	if session == "" {
		session = e.cfg.Session
	}

	payload, err := json.Marshal(Message{
		Session:  session,
		Event:    event,
		Key:      r.Key,
		Distance: r.Distance,
		At:       r.At,
	})
	if err != nil {
		return "", nil, fmt.Errorf("failed to marshal message: %w", err)
	}
	return fmt.Sprintf("%s/%s", e.cfg.Topic, event), payload, nil
}

// Disconnect stops the publisher after draining queued transitions and
// closes the MQTT connection.
func (e *MQTTEmitter) Disconnect() error {
	e.stop.Do(func() { close(e.done) })
	e.wg.Wait()

	if e.Client != nil && e.Client.IsConnected() {
		e.Client.Disconnect(250) // 250ms grace period
		e.logger.Info("mqtt disconnected")
	}
	e.setConnected(false)
	return nil
}

// Stats returns emitter statistics
func (e *MQTTEmitter) Stats() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()

	published := make(map[string]uint64)
	for k, v := range e.published {
		published[k] = v
	}

	return Stats{
		Connected: e.connected,
		Published: published,
		Errors:    e.errors,
		Dropped:   e.dropped,
	}
}

// Stats contains emitter statistics
type Stats struct {
	Connected bool
	Published map[string]uint64
	Errors    uint64
	Dropped   uint64
}

func (e *MQTTEmitter) setConnected(v bool) {
	e.mu.Lock()
	e.connected = v
	e.mu.Unlock()
}

func (e *MQTTEmitter) isConnected() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.connected
}

func (e *MQTTEmitter) countError() {
	e.mu.Lock()
	e.errors++
	e.mu.Unlock()
}
