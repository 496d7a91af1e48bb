// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

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

	log.Println("starting holter web collector (UDP → websocket/API)")

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunWeb(config.Get()); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
