// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/relabs-tech/holter_telemetry/internal/config"
	"github.com/relabs-tech/holter_telemetry/internal/sensors"
	"github.com/relabs-tech/holter_telemetry/internal/telemetry"
	"github.com/relabs-tech/holter_telemetry/internal/transport"
)

// Clock abstracts monotonic device time so the loop can be driven in tests.
type Clock interface {
	// NowMillis returns monotonic milliseconds since system start.
	NowMillis() uint64
	Sleep(d time.Duration)
}

type realClock struct {
	start time.Time
}

// NewClock returns a monotonic clock anchored at process start.
func NewClock() Clock {
	return &realClock{start: time.Now()}
}

func (c *realClock) NowMillis() uint64 {
	return uint64(time.Since(c.start).Milliseconds())
}

func (c *realClock) Sleep(d time.Duration) {
	time.Sleep(d)
}

type samplerState int

const (
	stateInitializing samplerState = iota
	stateReady
	stateSampling
	stateFatal
)

// Sampler owns the sensors and the transport for the process lifetime and
// runs the synchronized acquisition loop: read both leads, read the
// accelerometer, derive lead III and the magnitude, serialize, send, wait.
type Sampler struct {
	bio   sensors.BiopotentialReader
	accel sensors.AccelReader
	sink  transport.LineSender
	clock Clock

	interval   time.Duration
	policy     string
	readyDelay time.Duration
	diagEvery  time.Duration
	accelRange byte
	accelRate  int

	state samplerState
}

func NewSampler(cfg *config.Config, bio sensors.BiopotentialReader, accel sensors.AccelReader, sink transport.LineSender, clock Clock) *Sampler {
	return &Sampler{
		bio:        bio,
		accel:      accel,
		sink:       sink,
		clock:      clock,
		interval:   time.Duration(cfg.SampleInterval) * time.Millisecond,
		policy:     cfg.SchedulingPolicy,
		readyDelay: time.Duration(cfg.ReadyDelay) * time.Millisecond,
		diagEvery:  time.Duration(cfg.DiagInterval) * time.Millisecond,
		accelRange: cfg.AccelRange,
		accelRate:  cfg.AccelDataRate,
	}
}

// Run drives the state machine until ctx is cancelled. On hardware that is
// effectively forever; neither the sampling loop nor the fatal diagnostic
// loop terminates on its own.
func (s *Sampler) Run(ctx context.Context) error {
	s.state = stateInitializing

	if err := s.bio.Wake(sensors.ChannelI); err != nil {
		return fmt.Errorf("sampler: wake lead I: %w", err)
	}
	if err := s.bio.Wake(sensors.ChannelII); err != nil {
		return fmt.Errorf("sampler: wake lead II: %w", err)
	}

	// One-shot presence probe. A missing motion sensor is fatal: the device
	// must not silently stream biopotential data without motion context.
	if !s.accel.IsPresent() {
		log.Printf("sampler: accelerometer not detected, entering diagnostic state")
		s.state = stateFatal
		return s.runFatal(ctx)
	}

	if err := s.accel.Configure(s.accelRange, s.accelRate); err != nil {
		return fmt.Errorf("sampler: accel configure: %w", err)
	}

	s.state = stateReady
	if err := s.sink.SendLine(telemetry.ReadyLine); err != nil {
		log.Printf("sampler: readiness send error: %v", err)
	}
	log.Printf("sampler: ready, policy=%s interval=%s", s.policy, s.interval)

	if !s.wait(ctx, s.readyDelay) {
		return ctx.Err()
	}

	s.state = stateSampling
	return s.runSampling(ctx)
}

// runFatal re-emits the diagnostic sentinel on a slow fixed cadence and
// never proceeds to sampling.
func (s *Sampler) runFatal(ctx context.Context) error {
	for {
		if err := s.sink.SendLine(telemetry.DiagAccelNotFound); err != nil {
			log.Printf("sampler: diagnostic send error: %v", err)
		}
		if !s.wait(ctx, s.diagEvery) {
			return ctx.Err()
		}
	}
}

func (s *Sampler) runSampling(ctx context.Context) error {
	for {
		tickStart := s.clock.NowMillis()

		sample, err := s.readSample(tickStart)
		if err != nil {
			// A failed read drops this tick; the stream is loss-tolerant
			// and the cadence must not stall on retries.
			log.Printf("sampler: %v, skipping tick", err)
		} else if err := s.sink.SendLine(sample.Record()); err != nil {
			log.Printf("sampler: send error: %v", err)
		}

		var sleep time.Duration
		switch s.policy {
		case config.PolicyFixedRate:
			// Absolute-deadline scheduling: subtract the work time from the
			// interval. On overrun the sleep is skipped entirely.
			elapsed := time.Duration(s.clock.NowMillis()-tickStart) * time.Millisecond
			if elapsed < s.interval {
				sleep = s.interval - elapsed
			}
		default:
			// Legacy fixed-delay behavior: the effective period is the
			// interval plus whatever the tick work cost.
			sleep = s.interval
		}

		if !s.wait(ctx, sleep) {
			return ctx.Err()
		}
	}
}

func (s *Sampler) readSample(timestampMS uint64) (telemetry.Sample, error) {
	leadI, err := s.bio.ReadVoltage(sensors.ChannelI)
	if err != nil {
		return telemetry.Sample{}, fmt.Errorf("lead I read: %w", err)
	}
	leadII, err := s.bio.ReadVoltage(sensors.ChannelII)
	if err != nil {
		return telemetry.Sample{}, fmt.Errorf("lead II read: %w", err)
	}

	ax, ay, az, err := s.accel.ReadAcceleration()
	if err != nil {
		return telemetry.Sample{}, fmt.Errorf("accel read: %w", err)
	}

	return telemetry.NewSample(timestampMS, leadI, leadII, ax, ay, az), nil
}

// wait sleeps d on the injected clock and reports whether the loop should
// keep going.
func (s *Sampler) wait(ctx context.Context, d time.Duration) bool {
	if d > 0 {
		s.clock.Sleep(d)
	}
	select {
	case <-ctx.Done():
		return false
	default:
		return true
	}
}

// RunHolter wires the configured transport (plus the optional MQTT mirror)
// into the sampling loop and runs it until the process is killed.
func RunHolter(cfg *config.Config, bio sensors.BiopotentialReader, accel sensors.AccelReader) error {
	if cfg.WiFiSSID != "" {
		log.Printf("sampler: expecting Wi-Fi association to %q (managed by the OS)", cfg.WiFiSSID)
	}

	sink, err := buildSink(cfg)
	if err != nil {
		return err
	}
	defer sink.Close()

	s := NewSampler(cfg, bio, accel, sink, NewClock())
	return s.Run(context.Background())
}

func buildSink(cfg *config.Config) (transport.LineSender, error) {
	var primary transport.LineSender
	var err error
	switch cfg.Transport {
	case config.TransportSerial:
		primary, err = transport.NewSerial(cfg.SerialPort, cfg.SerialBaudRate)
	default:
		primary, err = transport.NewUDP(cfg.UDPPeerHost, cfg.UDPPeerPort)
	}
	if err != nil {
		return nil, err
	}

	if cfg.MQTTBroker == "" {
		return primary, nil
	}

	mirror, err := transport.NewMQTTMirror(cfg.MQTTBroker, cfg.MQTTClientIDProducer, cfg.MQTTTopic)
	if err != nil {
		// The mirror is auxiliary; the primary link still works without it.
		log.Printf("sampler: MQTT mirror unavailable: %v", err)
		return primary, nil
	}
	return transport.Multi(primary, mirror), nil
}
