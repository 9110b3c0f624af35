package main

import (
	"os"
	"os/signal"
	"syscall"

	"leaguebot/internal/bot"
	"leaguebot/internal/config"
	"leaguebot/internal/engine"
	"leaguebot/internal/logger"
	"leaguebot/internal/storage"
)

func main() {
	cfg := config.MustLoad()
	logger.Init(cfg.LogLevel, cfg.LogPretty)

	logger.Info(0, "db_init", cfg.DatabasePath)
	if err := storage.InitDB(cfg.DatabasePath); err != nil {
		logger.Error(0, "db_init", err)
		os.Exit(1)
	}
	defer storage.CloseDB()

	eng := engine.New(cfg)

	b, err := bot.New(cfg, eng)
	if err != nil {
		logger.Error(0, "bot_init", err)
		os.Exit(1)
	}
	go b.Start()
	defer b.Stop()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info(0, "shutdown", "")
}
