package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/holter_telemetry/internal/app"
	"github.com/relabs-tech/holter_telemetry/internal/config"
)

func main() {
	configPath := flag.String("config", "./holter_config.txt", "path to configuration file")
	flag.Parse()

	log.Println("starting holter console (UDP record listener)")

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunConsole(config.Get()); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
