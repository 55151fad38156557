package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/cbodonnell/gametetris/client/game"
	"github.com/cbodonnell/gametetris/client/network"
	"github.com/cbodonnell/gametetris/client/render"
	"github.com/cbodonnell/gametetris/pkg/config"
	"github.com/cbodonnell/gametetris/pkg/log"
	"github.com/cbodonnell/gametetris/pkg/names"
	"github.com/cbodonnell/gametetris/pkg/queue"
	"github.com/cbodonnell/gametetris/pkg/version"
	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	serverURL := flag.String("server", network.DefaultServerURL, "WebSocket URL of the game server")
	name := flag.String("name", "", "Display name, generated when empty")
	hotSeat := flag.Bool("hot-seat", false, "Play locally with two players on one keyboard")
	configPath := flag.String("config", "", "Path to a YAML game config for hot-seat games")
	plain := flag.Bool("plain", false, "Draw without colors")
	logLevel := flag.String("log-level", "info", "Log level")
	logFile := flag.String("log-file", "", "File to write logs to, logs are discarded when empty")
	flag.Parse()

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	// the terminal belongs to the UI
	var logOut io.Writer = io.Discard
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			panic(fmt.Sprintf("Failed to open log file: %v", err))
		}
		defer f.Close()
		logOut = f
	}
	logger := log.New(logOut, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Starting client version %s", version.Get())

	cfg := config.Default()
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
		if err != nil {
			panic(fmt.Sprintf("Failed to load config: %v", err))
		}
	}

	style := render.DefaultStyle()
	if *plain {
		style = render.PlainStyle()
	}

	var model *game.Model
	if *hotSeat {
		model, err = game.NewHotSeatModel(cfg, [2]string{names.New().Name, names.New().Name}, style)
		if err != nil {
			panic(fmt.Sprintf("Failed to create game: %v", err))
		}
	} else {
		networkManager := network.NewNetworkManager(*serverURL, queue.NewInMemoryQueue(queue.DefaultQueueSize))
		if err := networkManager.Start(*name); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to connect: %v\n", err)
			os.Exit(1)
		}
		defer networkManager.Stop()
		model = game.NewNetworkModel(networkManager, cfg.TickInterval, style)
	}

	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to run game: %v\n", err)
		os.Exit(1)
	}
}
