package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	"github.com/lmittmann/tint"
	log "log/slog"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"murmur/internal/audio"
	"murmur/internal/bus"
	"murmur/internal/command"
	"murmur/internal/config"
	"murmur/internal/device"
	"murmur/internal/executor"
	"murmur/internal/ipc"
	"murmur/internal/pipeline"
	"murmur/internal/planner"
	"murmur/internal/proxy"
	"murmur/internal/segment"
	"murmur/pkg/stt"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

func main() {
	configFile := cli.StringP("config", "c", "", "Config file path")
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	logLevel := cli.StringP("log", "l", "info", "Log level")
	cli.Parse()

	log.SetDefault(log.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level: logLevelMap[*logLevel],
	})))

	log.Info("Booting up")

	godotenv.Load(*envFile)

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Error("Failed to load config", "err", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.SegmentsDir, 0o755); err != nil {
		log.Error("Failed to create segments dir", "dir", cfg.SegmentsDir, "err", err)
		os.Exit(1)
	}

	catalog, err := command.LoadCatalog(cfg.Catalog.Path)
	if err != nil {
		log.Error("Failed to load catalog", "err", err)
		os.Exit(1)
	}
	log.Debug("Loaded catalog", "commands", catalog.Len())

	transcriber, err := newTranscriber(cfg.Transcriber)
	if err != nil {
		log.Error("Failed to init transcriber", "err", err)
		os.Exit(1)
	}
	defer transcriber.Close()
	log.Debug("Loaded transcriber", "backend", cfg.Transcriber.Backend)

	gateway, err := newPlanner(cfg.Planner)
	if err != nil {
		log.Error("Failed to init planner", "err", err)
		os.Exit(1)
	}

	var events *bus.Bus
	if cfg.Bus.URL != "" {
		events, err = bus.Dial(cfg.Bus.URL)
		if err != nil {
			log.Warn("Event hub unavailable, continuing without it", "url", cfg.Bus.URL, "err", err)
			events = nil
		}
		defer events.Close()
	}

	capture := audio.NewCapture()
	if err := capture.Init(); err != nil {
		log.Error("Failed to init audio", "err", err)
		os.Exit(1)
	}
	defer capture.Close()
	log.Debug("Loaded capture")

	exec := executor.New(device.NewRobotgo())
	pipe := pipeline.New(catalog, transcriber, exec, gateway, events)

	segments := make(chan segment.Segment, cfg.Audio.Backlog)
	pipeDone := make(chan struct{})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		defer close(pipeDone)
		pipe.Run(ctx, segments)
	}()

	var ducker *audio.Ducker
	if cfg.Duck.Enabled {
		ducker = audio.NewDucker(cfg.Duck.Factor, time.Duration(cfg.Duck.FadeMS)*time.Millisecond)
	}

	lst := &listener{
		capture:    capture,
		classifier: audio.NewClassifier(cfg.Audio.SpeechThreshold),
		segDir:     cfg.SegmentsDir,
		maxSilence: time.Duration(cfg.Audio.MaxSilenceMS) * time.Millisecond,
		out:        segments,
		ducker:     ducker,
		startCue:   cfg.Cues.Start,
		stopCue:    cfg.Cues.Stop,
	}

	srv, err := ipc.StartServer(cfg.SocketPath, func(req ipc.Request) ipc.Response {
		return handleControl(req, lst, segments)
	})
	if err != nil {
		log.Error("Failed ipc server", "err", err)
		os.Exit(1)
	}

	log.Info("Boot up - successful", "socket", cfg.SocketPath)

	lst.Start()

	<-ctx.Done()
	log.Info("Shutting down")

	// Control handlers feed the segment channel; the server must be fully
	// drained before the channel closes.
	srv.Close()
	lst.Stop()
	close(segments)
	<-pipeDone
}

func handleControl(req ipc.Request, lst *listener, segments chan<- segment.Segment) ipc.Response {
	switch req.Cmd {
	case "start":
		lst.Start()
		return ipc.Response{OK: true, Message: "listening"}

	case "stop":
		lst.Stop()
		return ipc.Response{OK: true, Message: "stopped"}

	case "status":
		if lst.Listening() {
			return ipc.Response{OK: true, Message: "listening"}
		}
		return ipc.Response{OK: true, Message: "idle"}

	case "inject":
		info, err := os.Stat(req.Arg)
		if err != nil || info.IsDir() {
			return ipc.Response{OK: false, Message: fmt.Sprintf("no such file: %s", req.Arg)}
		}
		now := time.Now().UTC()
		seg := segment.Segment{Path: req.Arg, Start: now, End: now, Bytes: int(info.Size())}
		select {
		case segments <- seg:
			return ipc.Response{OK: true, Message: "queued"}
		default:
			return ipc.Response{OK: false, Message: "segment backlog full"}
		}

	default:
		log.Warn("Unknown command", "cmd", req.Cmd)
		return ipc.Response{OK: false, Message: fmt.Sprintf("unknown command %q", req.Cmd)}
	}
}

func newTranscriber(cfg config.TranscriberConfig) (stt.Transcriber, error) {
	switch cfg.Backend {
	case "cli":
		return stt.NewCLI(cfg.CLIPath, cfg.ModelPath), nil
	case "", "whisper":
		return stt.NewWhisper(cfg.ModelPath, stt.Options{
			Language: cfg.Language,
			Threads:  cfg.Threads,
		})
	}
	return nil, fmt.Errorf("unknown transcriber backend %q", cfg.Backend)
}

func newPlanner(cfg config.PlannerConfig) (planner.Gateway, error) {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second

	switch cfg.Mode {
	case "off":
		return nil, nil

	case "", "http":
		var client *http.Client
		if cfg.SocksProxy != "" {
			var err error
			client, err = proxy.NewSocksClient(cfg.SocksProxy, timeout)
			if err != nil {
				return nil, fmt.Errorf("dial socks proxy %s: %w", cfg.SocksProxy, err)
			}
		}
		return planner.NewHTTP(cfg.URL, client, timeout), nil

	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY not set")
		}
		opts := []option.RequestOption{option.WithAPIKey(apiKey)}
		if cfg.SocksProxy != "" {
			client, err := proxy.NewSocksClient(cfg.SocksProxy, timeout)
			if err != nil {
				return nil, fmt.Errorf("dial socks proxy %s: %w", cfg.SocksProxy, err)
			}
			opts = append(opts, option.WithHTTPClient(client))
		}
		return planner.NewOpenAI(openai.NewClient(opts...), cfg.Model, timeout), nil
	}

	return nil, fmt.Errorf("unknown planner mode %q", cfg.Mode)
}
