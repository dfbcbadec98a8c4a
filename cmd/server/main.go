package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"dungeon-core/internal/agent"
	"dungeon-core/internal/config"
	"dungeon-core/internal/domain"
	"dungeon-core/internal/engine"
	"dungeon-core/internal/infrastructure/storage"
	"dungeon-core/internal/server"
	"dungeon-core/internal/version"
	"dungeon-core/pkg/logger"
	"dungeon-core/pkg/utils"

	"github.com/sirupsen/logrus"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Парсинг флагов
	var (
		configPath string
		seed       int64
		seedName   string
		turns      int64
		headless   bool
		replayPath string
	)
	flag.StringVar(&configPath, "config", "", "Path to YAML config (empty for built-in defaults)")
	flag.Int64Var(&seed, "seed", 0, "World seed (0 for config/random)")
	flag.StringVar(&seedName, "seed-name", "", "Derive the seed from a string")
	flag.Int64Var(&turns, "turns", 2000, "Headless mode: stop after this many world turns")
	flag.BoolVar(&headless, "headless", false, "Run the autopilot without a network server")
	flag.StringVar(&replayPath, "replay", "", "Path to a .dcrp replay file to simulate")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load config")
	}
	// LOG_LEVEL из окружения важнее файла
	if _, ok := os.LookupEnv("LOG_LEVEL"); !ok {
		logger.Configure(cfg.Log.Level, cfg.Log.Format)
	}

	logger.Log.Info("Starting dungeon core...")
	logger.Log.Info(version.String())

	// РЕЖИМ РЕПЛЕЯ: сид берется из записи
	var rec *domain.ReplaySession
	if replayPath != "" {
		logger.Log.Info("Mode: replay simulation")
		rec, err = storage.Load(replayPath)
		if err != nil {
			logger.Log.WithError(err).Fatal("Failed to load replay")
		}
		seed = rec.Seed
		// Запись проигрываемой партии не пересохраняем
		cfg.Replay.Dir = ""
	}

	switch {
	case rec != nil:
	case seedName != "":
		seed = utils.StringToSeed(seedName)
	case seed == 0 && cfg.Seed != 0:
		seed = cfg.Seed
	case seed == 0:
		seed = time.Now().UnixNano()
	}
	logger.Log.Infof("Using master seed: %d", seed)

	service, err := engine.NewService(cfg, seed)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to create game service")
	}
	if dir := service.Output.Dir(); dir != "" {
		if err := cfg.WriteYAML(filepath.Join(dir, "config.yaml")); err != nil {
			logger.Log.WithError(err).Warn("Failed to save config next to telemetry")
		}
	}

	// Graceful Shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case rec != nil:
		runReplay(ctx, service, rec)
	case headless:
		runHeadless(ctx, service, turns)
	default:
		runServer(ctx, service, cfg.Server.Port)
	}

	if err := service.Close(); err != nil {
		logger.Log.WithError(err).Error("Failed to flush telemetry")
	}
	logger.Log.Info("Done.")
}

func runReplay(ctx context.Context, service *engine.GameService, rec *domain.ReplaySession) {
	status, err := service.Session.Playback(ctx, rec)
	if err != nil {
		logger.Log.WithError(err).Error("Playback failed")
		return
	}
	fields := logrus.Fields{
		"turn":   service.Session.Turn(),
		"status": status.String(),
	}
	if rec.Depth != service.Session.World.Level.Depth {
		fields["recorded_depth"] = rec.Depth
		logger.Log.WithFields(fields).Warn("Replay diverged from the recording")
		return
	}
	logger.Log.WithFields(fields).Info("Replay matches the recording")
}

func runServer(ctx context.Context, service *engine.GameService, port string) {
	if env := os.Getenv("CD_PORT"); env != "" {
		port = env
	}
	service.Start(ctx)

	srv := server.New(service, port)
	if err := srv.Run(ctx); err != nil {
		logger.Log.WithError(err).Error("Server stopped with error")
	}
	logger.Log.Info("Shutting down...")
}

// runHeadless играет автопилотом, пока не кончатся ходы или герой.
func runHeadless(ctx context.Context, service *engine.GameService, turns int64) {
	logger.Log.Info("Mode: headless autopilot")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	bot := agent.NewBot("autopilot", service)
	go bot.Run(ctx)
	service.Start(ctx)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			status := service.Session.Status()
			turn := service.Session.Turn()
			if status == engine.StatusDead || (turns > 0 && turn >= turns) {
				logger.Log.WithFields(logrus.Fields{
					"turn":   turn,
					"status": status.String(),
				}).Info("Autopilot finished")
				return
			}
		}
	}
}
