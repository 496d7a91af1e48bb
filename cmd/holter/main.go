// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

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

	log.Println("starting holter biotelemetry producer (ECG + accel → UDP)")

	// Load configuration
	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Get()

	bio, err := sensors.NewAD8232Source(cfg)
	if err != nil {
		log.Fatalf("biopotential front-end: %v", err)
	}

	accel, err := sensors.NewADXL345(cfg)
	if err != nil {
		log.Fatalf("accelerometer: %v", err)
	}

	if err := app.RunHolter(cfg, bio, accel); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
