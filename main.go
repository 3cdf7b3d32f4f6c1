package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"commuteboard/app"
	"commuteboard/internal/config"
	"commuteboard/internal/watcher"
	"commuteboard/ui"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// Load environment variables from .env file
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := service.Start(ctx); err != nil {
		log.Fatalf("Failed to start dashboard service: %v", err)
	}
	defer service.Shutdown()

	// Config hot reload; the dashboard keeps running on the old config if
	// watching is unavailable.
	configWatcher, err := watcher.New(*configPath, func(newCfg *config.Config) error {
		return service.SetConfig(ctx, newCfg)
	})
	if err != nil {
		log.Printf("Config watching disabled: %v", err)
	} else {
		go func() {
			if err := configWatcher.Run(ctx); err != nil {
				log.Printf("Config watcher stopped: %v", err)
			}
		}()
	}

	server, err := ui.NewServer(service, cfg.Server.Password)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	go func() {
		if err := server.Start("0.0.0.0:" + cfg.Server.Port); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down")
}
