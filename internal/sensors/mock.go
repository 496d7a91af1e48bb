// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"log"
	"math"
	"time"
)

type mockBiopotential struct {
	start time.Time
	awake map[Channel]bool
}

// NewMockBiopotential creates a biopotential source that generates a smooth
// heartbeat-like waveform, for bench runs without the front-end attached.
func NewMockBiopotential() BiopotentialReader {
	return &mockBiopotential{
		start: time.Now(),
		awake: map[Channel]bool{},
	}
}

func (m *mockBiopotential) Wake(ch Channel) error {
	m.awake[ch] = true
	return nil
}

func (m *mockBiopotential) ReadVoltage(ch Channel) (float64, error) {
	// A shut-down front-end reads as a flatline.
	if !m.awake[ch] {
		return 0, nil
	}

	// ~72 bpm fundamental with a small second harmonic.
	elapsed := time.Since(m.start).Seconds()
	beat := math.Sin(2*math.Pi*1.2*elapsed) + 0.3*math.Sin(2*math.Pi*2.4*elapsed)

	switch ch {
	case ChannelI:
		return 0.80 + 0.05*beat, nil
	case ChannelII:
		return 0.79 + 0.04*beat, nil
	default:
		return 0, nil
	}
}

type mockAccel struct {
	start time.Time
}

// NewMockAccel creates an accelerometer source that reports gravity plus a
// gentle sway, as a body-worn device at rest would.
func NewMockAccel() AccelReader {
	return &mockAccel{start: time.Now()}
}

func (m *mockAccel) IsPresent() bool { return true }

func (m *mockAccel) Configure(rangeCode byte, dataRateHz int) error {
	log.Printf("mock accel: configured range=%d rate=%d Hz", rangeCode, dataRateHz)
	return nil
}

func (m *mockAccel) ReadAcceleration() (float64, float64, float64, error) {
	elapsed := time.Since(m.start).Seconds()
	x := 0.10 * math.Sin(0.5*elapsed)
	y := 9.81 + 0.20*math.Sin(0.3*elapsed)
	z := 0.05 * math.Cos(0.5*elapsed)
	return x, y, z, nil
}
