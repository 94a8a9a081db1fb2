package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/mikhailv/fake-streamer/internal/emitter"
	"github.com/mikhailv/fake-streamer/internal/log"
	"github.com/mikhailv/fake-streamer/internal/setup"
	"github.com/mikhailv/fake-streamer/internal/stream"
	"github.com/mikhailv/fake-streamer/internal/util"
	"github.com/mikhailv/fake-streamer/streamer/internal/config"
	"github.com/mikhailv/fake-streamer/streamer/internal/server"
	"github.com/mikhailv/fake-streamer/streamer/internal/shell"
	"github.com/mikhailv/fake-streamer/streamer/internal/tui"
)

func main() {
	ctx, stop := setup.ListenStopSignal(context.Background())
	defer stop()

	configFile := flag.String("config", "", "config file path, embedded defaults when empty")
	pprofAddr := flag.String("pprof", "", "pprof handler address")
	debug := flag.Bool("debug", false, "enable debug logging")
	terminal := flag.Bool("tui", false, "run the terminal ui instead of the web server")
	flag.Parse()

	cfg, err := loadConfig(*configFile)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logOpts := setup.LogOptions{
		Debug:   *debug,
		JSON:    cfg.Log.Format == config.LogFormatJSON,
		Console: os.Stdout,
		File:    cfg.Log.File,
	}
	if *terminal {
		logOpts.Console = nil // the terminal belongs to the ui
	}
	logger, logStream, closeLog, err := setupLogger(logOpts, cfg.History.LogSize)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to setup logger: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	setup.Pprof(ctx, *pprofAddr, log.WithPrefix(logger, "pprof"))

	if *terminal {
		if err := tui.Run(ctx, log.WithPrefix(logger, "tui"), cfg.Stream.Text.String(), cfg.Stream.Interval, cfg.History.EventSize); err != nil {
			logger.Error("terminal ui failed", "err", err)
			closeLog()
			os.Exit(1) //nolint:gocritic // log is closed above
		}
		return
	}

	em := emitter.New(
		emitter.WithLogger(log.WithPrefix(logger, "emitter")),
		emitter.WithDispatcher(emitter.NewSerial(ctx)),
	)
	session := shell.NewSession(log.WithPrefix(logger, "session"), em, cfg.History.EventSize)
	session.Configure(cfg.Stream.Text.String(), cfg.Stream.Interval)

	if *configFile != "" {
		go listenConfigUpdate(ctx, log.WithPrefix(logger, "config"), *configFile, cfg.ReloadInterval, func(cfg *config.Config) {
			session.Configure(cfg.Stream.Text.String(), cfg.Stream.Interval)
		})
	}

	httpServer := server.NewHTTPServer(cfg.HTTPAddr, log.WithPrefix(logger, "http"), session, logStream, cfg.WebSocket)
	go httpServer.Serve(ctx)

	<-ctx.Done()
	session.Cancel()
}

func loadConfig(file string) (*config.Config, error) {
	if file == "" {
		return config.DefaultConfig(), nil
	}
	return config.LoadConfig(file)
}

func setupLogger(opts setup.LogOptions, historySize int) (*slog.Logger, *stream.Buffered[log.Entry], func(), error) {
	var recorder log.Recorder
	logger, closeFn, err := setup.Logger(opts, func(handler slog.Handler) slog.Handler {
		recorder = log.NewRecorder(handler, historySize)
		return recorder
	})
	if err != nil {
		return nil, nil, nil, err
	}
	return logger, recorder.Stream(), closeFn, nil
}

// listenConfigUpdate reloads the config file whenever its modification time
// changes. Only the stream settings are applied at runtime.
func listenConfigUpdate(ctx context.Context, logger *slog.Logger, configFile string, interval time.Duration, onUpdate func(cfg *config.Config)) {
	getModTime := func() (time.Time, bool) {
		f, err := os.Stat(configFile)
		if err != nil {
			return time.Time{}, false
		}
		return f.ModTime(), true
	}

	modTime, _ := getModTime()
	util.RunPeriodically(ctx, interval, func(context.Context) {
		t, ok := getModTime()
		if !ok || !t.After(modTime) {
			return
		}
		cfg, err := config.LoadConfig(configFile)
		if err != nil {
			logger.Error("failed to reload config", "err", err)
			return
		}
		modTime = t
		logger.Info("config change detected", "interval", cfg.Stream.Interval)
		onUpdate(cfg)
	})
}
