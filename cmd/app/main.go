package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"FactorLab/internal/di"
	"FactorLab/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	dbPath := flag.String("db", "", "sqlite database path (overrides config)")
	tickers := flag.String("tickers", "", "comma-separated tickers (overrides config)")
	start := flag.String("start", "", "start date, YYYY-MM-DD or YYYY-MM (overrides config)")
	carhart := flag.Bool("carhart", false, "add the momentum factor when available")
	serve := flag.Bool("serve", false, "keep serving results over HTTP after the batch")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	// Flags win over both file and environment.
	if *dbPath != "" {
		cfg.Storage.SQLite.Path = *dbPath
	}
	if *tickers != "" {
		cfg.Regression.Tickers = strings.Split(*tickers, ",")
	}
	if *start != "" {
		cfg.Regression.Start = *start
	}
	if *carhart {
		cfg.Regression.Carhart = true
	}
	if *serve {
		cfg.Server.Enabled = true
	}

	log.Printf("env=%s driver=%s tickers=%v", cfg.Environment, cfg.Storage.Driver, cfg.Regression.Tickers)

	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	if err := app.Run(); err != nil {
		os.Exit(1)
	}
}
