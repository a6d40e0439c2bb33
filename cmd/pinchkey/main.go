package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ayusman/pinchkey/internal/app"
	"github.com/ayusman/pinchkey/internal/capture"
	"github.com/ayusman/pinchkey/internal/config"
	"github.com/ayusman/pinchkey/internal/detector"
	"github.com/ayusman/pinchkey/internal/display"
	"github.com/ayusman/pinchkey/internal/emitter"
	"github.com/ayusman/pinchkey/internal/input"
	"github.com/ayusman/pinchkey/internal/server"
	"github.com/google/uuid"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "Path to configuration file (built-in defaults when empty)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	headless := flag.Bool("headless", false, "Disable the preview window")
	flag.Parse()

	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			slog.Error("failed to load config", "path", *configPath, "error", err)
			return 1
		}
		cfg = loaded
	}
	if *headless {
		cfg.Display.Enabled = false
	}

	session := uuid.NewString()
	logger = logger.With("session", session)

	det, err := detector.NewMediaPipeDetector(detector.Config{
		ModelPath:       cfg.Detector.ModelPath,
		ScriptPath:      cfg.Detector.ScriptPath,
		Python:          cfg.Detector.Python,
		MaxHands:        cfg.Detector.MaxHands,
		MinConfidence:   cfg.Detector.MinDetectionConfidence,
		MinPresenceConf: cfg.Detector.MinPresenceConfidence,
		MinTrackingConf: cfg.Detector.MinTrackingConfidence,
	})
	if err != nil {
		if errors.Is(err, detector.ErrModelNotFound) {
			fmt.Fprintf(os.Stderr, "Error: model file %s not found\n", cfg.Detector.ModelPath)
			return 1
		}
		logger.Error("failed to create hand detector", "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var observers []app.Observer

	if cfg.Server.Addr != "" {
		srv := server.New(server.Config{Session: session, Logger: logger})
		observers = append(observers, srv)
		go func() {
			if err := srv.ListenAndServe(ctx, cfg.Server.Addr); err != nil {
				logger.Error("telemetry server failed", "error", err)
			}
		}()
	}

	if cfg.MQTT.Broker != "" {
		em := emitter.NewMQTTEmitter(emitter.Config{
			Broker:   cfg.MQTT.Broker,
			ClientID: cfg.MQTT.ClientID,
			Topic:    cfg.MQTT.Topic,
			QoS:      cfg.MQTT.QoS,
			Session:  session,
		}, logger)
		if err := em.Connect(ctx); err != nil {
			logger.Warn("mqtt unavailable, continuing without it", "error", err)
		} else {
			observers = append(observers, em)
			defer em.Disconnect()
		}
	}

	var injector input.Injector
	switch cfg.Input.Backend {
	case config.BackendCommand:
		injector = input.NewCommandInjector(cfg.Input.Command, time.Duration(cfg.Input.TimeoutMs)*time.Millisecond)
	default:
		injector = input.NewRobotInjector()
	}

	var disp display.Display = display.Headless{}
	if cfg.Display.Enabled {
		disp = display.NewWindow(cfg.Display.WindowTitle, cfg.Display.QuitRune(), cfg.Display.WaitMs)
	}

	controller := app.New(app.Config{
		Camera: capture.NewCamera(capture.Options{
			DeviceID: cfg.Camera.Device,
			Width:    cfg.Camera.Width,
			Height:   cfg.Camera.Height,
			FPS:      cfg.Camera.FPS,
		}),
		Detector:     det,
		Injector:     injector,
		Display:      disp,
		Threshold:    cfg.Gesture.PinchThreshold,
		Key:          cfg.Gesture.Key,
		FPSSmoothing: cfg.Display.FPSSmoothing,
		Observers:    observers,
		Logger:       logger,
		SessionID:    session,

		MaxReadFailures: cfg.Camera.MaxReadFailures,
	})

	logger.Info("starting pinch key controller",
		"camera", cfg.Camera.Device,
		"model", cfg.Detector.ModelPath,
		"key", cfg.Gesture.Key,
		"input", cfg.Input.Backend,
		"display", cfg.Display.Enabled,
	)

	if err := controller.Run(ctx); err != nil {
		logger.Error("controller stopped with error", "error", err)
		return 1
	}

	logger.Info("pinch key controller stopped")
	return 0
}
