package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/adventuremech/internal/chat"
	"github.com/cory-johannsen/adventuremech/internal/config"
	"github.com/cory-johannsen/adventuremech/internal/frontend/telnet"
	"github.com/cory-johannsen/adventuremech/internal/frontend/ws"
	"github.com/cory-johannsen/adventuremech/internal/game/dice"
	"github.com/cory-johannsen/adventuremech/internal/gameserver"
	"github.com/cory-johannsen/adventuremech/internal/observability"
	"github.com/cory-johannsen/adventuremech/internal/server"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the game engine and chat transports",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd, *configPath)
		},
	}
}

func serve(cmd *cobra.Command, configPath string) error {
	start := time.Now()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	room, closeRoom, err := openRoom(cfg.Broadcast, observability.Component(logger, "chat"))
	if err != nil {
		logger.Error("opening chat room", zap.Error(err))
		return err
	}
	defer closeRoom()

	asm, err := gameserver.Assemble(cfg.Game, room, dice.NewCryptoSource(), observability.Component(logger, "game"))
	if err != nil {
		logger.Error("assembling world", zap.Error(err))
		return err
	}
	defer asm.Close()

	engine := gameserver.NewEngine(asm.World, cfg.Game.TickInterval, observability.Component(logger, "engine"))
	names := chat.NewNames()

	lc := server.NewLifecycle(logger)
	lc.Add("engine", server.NewRunService(engine.Run))
	if cfg.Telnet.Enabled() {
		tlog := observability.Component(logger, "telnet")
		handler := telnet.NewChatHandler(engine, room, names, cfg.Game.WrapWidth, tlog)
		lc.Add("telnet", telnet.NewAcceptor(cfg.Telnet, handler, tlog))
	}
	if cfg.WebSocket.Enabled() {
		lc.Add("websocket", ws.NewServer(cfg.WebSocket, engine, room, names, observability.Component(logger, "websocket")))
	}

	logger.Info("starting mech bot",
		zap.String("telnet_addr", cfg.Telnet.Addr()),
		zap.Bool("telnet", cfg.Telnet.Enabled()),
		zap.String("websocket_addr", cfg.WebSocket.Addr()),
		zap.Bool("websocket", cfg.WebSocket.Enabled()),
		zap.String("broadcast", cfg.Broadcast.Mode),
		zap.Duration("tick_interval", cfg.Game.TickInterval),
		zap.Duration("startup", time.Since(start)),
	)
	return lc.Run(cmd.Context())
}

// openRoom builds the broadcaster selected by cfg.Mode.
//
// Postcondition: The returned close function is non-nil whenever err is nil.
func openRoom(cfg config.BroadcastConfig, logger *zap.Logger) (chat.Broadcaster, func(), error) {
	switch cfg.Mode {
	case "nats":
		nb, err := chat.NewNatsBroadcaster(logger,
			chat.WithHost(cfg.NatsHost),
			chat.WithPort(cfg.NatsPort),
			chat.WithSubject(cfg.Subject),
		)
		if err != nil {
			return nil, nil, err
		}
		if err := nb.Open(); err != nil {
			return nil, nil, err
		}
		return nb, nb.Close, nil
	default:
		return chat.NewHub(chat.DefaultBufferSize, logger), func() {}, nil
	}
}
