package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/holter_telemetry/internal/app"
	"github.com/relabs-tech/holter_telemetry/internal/config"
	"github.com/relabs-tech/holter_telemetry/internal/sensors"
)

func main() {
	configPath := flag.String("config", "./holter_config.txt", "path to configuration file")
	flag.Parse()

	log.Println("starting holter producer (mock sensors)")

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Get()

	if err := app.RunHolter(cfg, sensors.NewMockBiopotential(), sensors.NewMockAccel()); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
