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
	once := flag.Bool("once", false, "run the startup refresh check once and exit")
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
	worker, err := di.InitializeWorker(cfg)
	if err != nil {
		log.Fatalf("worker initialization failed: %v", err)
	}

	log.Printf("env=%s snapshot=%s model=%s once=%v", cfg.Environment, cfg.Snapshot.Path, cfg.Gemini.Model, *once)

	// Run worker (blocks until signal unless --once)
	if err := worker.Run(*once); err != nil {
		log.Printf("worker error: %v", err)
		os.Exit(1)
	}
}
