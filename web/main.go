package main

import (
	"flag"
	"os"

	"github.com/df07/go-reflective-raytracer/pkg/config"
	"github.com/df07/go-reflective-raytracer/pkg/logger"
	"github.com/df07/go-reflective-raytracer/web/server"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "YAML config file (optional)")
	port := flag.Int("port", 0, "Port to serve on (overrides config)")
	scenesDir := flag.String("scenes", "", "Directory of YAML scene files (overrides config)")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
	flag.Parse()

	cfg := config.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadConfig(*configPath); err != nil {
			logger.NewConsoleLogger("error").Errorf("%v", err)
			os.Exit(1)
		}
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *scenesDir != "" {
		cfg.Server.ScenesDir = *scenesDir
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	log := logger.NewConsoleLogger(cfg.Log.Level)
	if cfg.Log.File != "" {
		fileLog, err := logger.NewFileLogger(cfg.Log.Level, cfg.Log.File, true)
		if err != nil {
			log.Errorf("%v", err)
			os.Exit(1)
		}
		log = fileLog
	}
	defer log.Close()

	// Create and start web server
	webServer := server.NewServer(cfg.Server, cfg.RendererConfig(), log)

	log.Infof("Reflective Raytracer Web Server")
	log.Infof("Try http://localhost:%d/api/render?scene=default", cfg.Server.Port)

	if err := webServer.Start(); err != nil {
		log.Errorf("Error starting server: %v", err)
		log.Close()
		os.Exit(1)
	}
}
