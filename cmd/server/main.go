package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cbodonnell/gametetris/pkg/api"
	"github.com/cbodonnell/gametetris/pkg/config"
	"github.com/cbodonnell/gametetris/pkg/lobby"
	"github.com/cbodonnell/gametetris/pkg/log"
	"github.com/cbodonnell/gametetris/pkg/network"
	"github.com/cbodonnell/gametetris/pkg/queue"
	"github.com/cbodonnell/gametetris/pkg/repositories"
	"github.com/cbodonnell/gametetris/pkg/session"
	"github.com/cbodonnell/gametetris/pkg/state"
	"github.com/cbodonnell/gametetris/pkg/version"
	"github.com/cbodonnell/gametetris/pkg/workers"
)

func main() {
	wsPort := flag.Int("ws-port", 8888, "WebSocket port to listen on")
	apiPort := flag.Int("api-port", 9090, "API port to listen on, 0 disables the API")
	configPath := flag.String("config", "", "Path to a YAML game config")
	mode := flag.String("mode", "", "Overrides the session mode (lockstep or ratematched)")
	seed := flag.Uint64("seed", 0, "Seed for every match, 0 for a random seed per match")
	logLevel := flag.String("log-level", "info", "Log level")
	flag.Parse()

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	logger := log.New(os.Stdout, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", parsedLogLevel)

	log.Info("Starting game server version %s", version.Get())
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Default()
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
		if err != nil {
			panic(fmt.Sprintf("Failed to load config: %v", err))
		}
	}
	if *mode != "" {
		cfg.Mode = config.Mode(*mode)
		if err := cfg.Validate(); err != nil {
			panic(fmt.Sprintf("Invalid config: %v", err))
		}
	}
	log.Info("Running %dx%d boards in %s mode", cfg.Cols, cfg.Rows, cfg.Mode)

	connStr := os.Getenv("GAMETETRIS_DATABASE_URL")
	if connStr == "" {
		connStr = "sqlite://gametetris.db"
	}
	repository, err := repositories.NewRepository(ctx, connStr)
	if err != nil {
		panic(fmt.Sprintf("Failed to create repository: %v", err))
	}
	defer repository.Close(context.Background())

	clientManager := network.NewClientManager()
	clientMessageQueue := queue.NewInMemoryQueue(10000)

	networkManagerOpts := network.NewNetworkManagerOptions{
		ClientManager: clientManager,
		MessageQueue:  clientMessageQueue,
		WSPort:        *wsPort,
	}
	wsCertFile := os.Getenv("GAMETETRIS_WS_TLS_CERT_FILE")
	wsKeyFile := os.Getenv("GAMETETRIS_WS_TLS_KEY_FILE")
	if wsCertFile != "" && wsKeyFile != "" {
		networkManagerOpts.WSServerTLS = &network.TLSConfig{
			CertFile: wsCertFile,
			KeyFile:  wsKeyFile,
		}
	}
	networkManager := network.NewNetworkManager(networkManagerOpts)
	networkManager.Start(ctx)

	serverEventQueue := queue.NewInMemoryQueue(1000)
	connectionEventWorker := workers.NewConnectionEventWorker(workers.NewConnectionEventWorkerOptions{
		ConnectionEventChan: clientManager.GetConnectionEventChan(),
		ServerEventQueue:    serverEventQueue,
	})
	go connectionEventWorker.Start(ctx)

	registryPruneWorker := workers.NewRegistryPruneWorker(workers.NewRegistryPruneWorkerOptions{
		Repository: repository,
		Clients:    clientManager,
		Interval:   time.Minute,
	})
	go registryPruneWorker.Start(ctx)

	broadcastMessageChannelSize := 1000
	broadcastMessageChan := make(chan workers.BroadcastMessage, broadcastMessageChannelSize)
	broadcastMessageWorker := workers.NewBroadcastMessageWorker(workers.NewBroadcastMessageWorkerOptions{
		Sender:               networkManager,
		BroadcastMessageChan: broadcastMessageChan,
	})
	go broadcastMessageWorker.Start(ctx)

	stateManager := state.NewInMemoryStateManager()

	if *apiPort != 0 {
		apiServerOpts := api.NewAPIServerOptions{
			Port:         *apiPort,
			Repository:   repository,
			StateManager: stateManager,
			Token:        os.Getenv("GAMETETRIS_API_TOKEN"),
		}
		apiCertFile := os.Getenv("GAMETETRIS_API_TLS_CERT_FILE")
		apiKeyFile := os.Getenv("GAMETETRIS_API_TLS_KEY_FILE")
		if apiCertFile != "" && apiKeyFile != "" {
			apiServerOpts.TLS = &api.TLSConfig{
				CertFile: apiCertFile,
				KeyFile:  apiKeyFile,
			}
		}
		apiServer := api.NewAPIServer(apiServerOpts)
		go apiServer.Start()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := apiServer.Stop(shutdownCtx); err != nil {
				log.Error("Failed to stop API server: %v", err)
			}
		}()
	}

	gameManager := session.NewGameManager(session.NewGameManagerOptions{
		Config:               cfg,
		ClientMessageQueue:   clientMessageQueue,
		ConnectionEventQueue: serverEventQueue,
		Lobby:                lobby.NewLobby(lobby.NewLobbyOptions{Repository: repository}),
		StateManager:         stateManager,
		BroadcastMessageChan: broadcastMessageChan,
		Seed:                 *seed,
	})

	log.Info("Starting game manager")
	if err := gameManager.Start(ctx); err != nil {
		panic(fmt.Sprintf("Failed to start game manager: %v", err))
	}
	log.Info("Shutting down")
}
