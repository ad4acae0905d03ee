package main

import (
	"errors"
	"flag"
	"io/fs"
	"log"
	"os"

	"Velra/internal/di"
	"Velra/pkg/config"

	"github.com/joho/godotenv"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("env file ignored: %v", err)
	}

	// Load config
	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	// Wire DI: Initialize all dependencies
	app, err := di.InitializeServer(cfg)
	if err != nil {
		log.Fatalf("server initialization failed: %v", err)
	}

	log.Printf("env=%s port=%d static=%s snapshot=%s", cfg.Environment, cfg.Server.Port, cfg.Server.StaticDir, cfg.Snapshot.Path)

	// Run server (blocks until signal)
	if err := app.Run(); err != nil {
		log.Printf("server error: %v", err)
		os.Exit(1)
	}
}
