package main

import (
	"fmt"
	"log"
	"os"

	"github.com/Otwaboy/Agaspay-Capstone-sub004/internal/console"
	"github.com/Otwaboy/Agaspay-Capstone-sub004/pkg/config"
	"github.com/Otwaboy/Agaspay-Capstone-sub004/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zapLogger, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	app, err := console.NewApp(cfg, zapLogger)
	if err != nil {
		log.Fatalf("failed to start console: %v", err)
	}
	defer app.Close()

	if err := console.NewRootCmd(app).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
