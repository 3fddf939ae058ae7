// Command voxbot connects a script-driven agent to a game server. The main
// script path is the single positional argument; the process exits with the
// script host's exit code.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/voxbot/voxbot/internal/config"
	"github.com/voxbot/voxbot/internal/game"
	"github.com/voxbot/voxbot/internal/scripting"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath = flag.String("config", "", "path to a YAML config file")
		serverURL  = flag.String("url", "", "websocket server url (overrides config)")
		username   = flag.String("name", "", "agent user name (overrides config)")
		fps        = flag.Int("fps", 0, "physics ticks per second (overrides config)")
		debug      = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if *serverURL != "" {
		cfg.ServerURL = *serverURL
	}
	if *username != "" {
		cfg.Username = *username
	}
	if *fps > 0 {
		cfg.PhysicsFPS = *fps
	}
	if *debug {
		cfg.Debug = true
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if flag.NArg() == 1 {
		cfg.Script = flag.Arg(0)
	}
	if cfg.Script == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <script.js>\n", os.Args[0])
		flag.PrintDefaults()
		return 1
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	client := game.NewClient(cfg.ServerURL, cfg.Username,
		log.New(os.Stderr, "[game] ", log.LstdFlags|log.Lmicroseconds))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rt, err := scripting.NewRuntime(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer rt.Close()

	host := scripting.NewHost(rt, client, scripting.Options{
		ScriptPath: cfg.Script,
		Username:   cfg.Username,
		PhysicsFPS: cfg.PhysicsFPS,
		Logger:     logger,
	})
	if err := host.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	go func() {
		<-stop
		logger.Info("interrupt received, shutting down")
		host.RequestExit(130)
	}()

	return host.Wait()
}
