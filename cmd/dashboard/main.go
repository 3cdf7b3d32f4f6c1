package main

import (
	"context"
	"flag"
	"log"

	"github.com/joho/godotenv"

	"commuteboard/app"
	"commuteboard/internal/config"
	"commuteboard/ui"
)

// Open variant of the dashboard: no auth gate, chi front end, fixed port.
// The password-gated front end lives in the root main package.
func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	service, err := app.NewDashboardService(cfg)
	if err != nil {
		log.Fatalf("Failed to create dashboard service: %v", err)
	}
	if err := service.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start dashboard service: %v", err)
	}
	defer service.Shutdown()

	dashboard, err := ui.NewApp(service)
	if err != nil {
		log.Fatalf("Failed to create dashboard app: %v", err)
	}
	log.Fatal(dashboard.Start("0.0.0.0:" + cfg.Server.Port))
}
