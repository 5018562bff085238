package main

import (
	"context"
	"flag"
	"log"
	"os"

	"OptionScan/internal/di"
	"OptionScan/pkg/config"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "config/config.yaml", "config file path")
	snapshotPath := flag.String("snapshot", "", "scan snapshot JSON path")
	flag.Parse()

	if *snapshotPath == "" {
		log.Println("usage: app -snapshot <snapshot.json> [-config <config.yaml>]")
		os.Exit(2)
	}

	// Load config
	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	// Wire DI: initialize all dependencies
	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	if err := app.Run(context.Background(), *snapshotPath); err != nil {
		log.Printf("scan error: %v", err)
		os.Exit(1)
	}
}
