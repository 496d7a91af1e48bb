// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"encoding/binary"
	"fmt"
	"log"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/holter_telemetry/internal/config"
)

// ADXL345 is a triaxial accelerometer driven over I²C.
type ADXL345 struct {
	dev *i2c.Dev
}

// NewADXL345 opens the I²C bus and binds the ADXL345 at its fixed address.
// No register traffic happens here; presence is checked via IsPresent.
func NewADXL345(cfg *config.Config) (*ADXL345, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("accel: periph host init: %w", err)
	}

	bus, err := i2creg.Open(cfg.I2CBus)
	if err != nil {
		return nil, fmt.Errorf("accel: I2C bus open: %w", err)
	}

	return &ADXL345{dev: &i2c.Dev{Bus: bus, Addr: adxl345Addr}}, nil
}

// IsPresent reads the DEVID register and checks it against the fixed chip ID.
// A bus error counts as absent.
func (a *ADXL345) IsPresent() bool {
	var id [1]byte
	if err := a.dev.Tx([]byte{regDevID}, id[:]); err != nil {
		log.Printf("accel: DEVID read failed: %v", err)
		return false
	}
	return id[0] == adxl345DevID
}

// Configure sets range and output data rate, then switches the chip into
// measurement mode.
func (a *ADXL345) Configure(rangeCode byte, dataRateHz int) error {
	if rangeCode&^dataFormatRange != 0 {
		return fmt.Errorf("accel: range code must be 0-3, got %d", rangeCode)
	}
	rate, ok := adxl345RateCodes[dataRateHz]
	if !ok {
		return fmt.Errorf("accel: unsupported output data rate %d Hz", dataRateHz)
	}

	if err := a.writeReg(regDataFormat, dataFormatFullRes|rangeCode); err != nil {
		return fmt.Errorf("accel: set data format: %w", err)
	}
	if err := a.writeReg(regBWRate, rate); err != nil {
		return fmt.Errorf("accel: set data rate: %w", err)
	}
	if err := a.writeReg(regPowerCtl, powerCtlMeasure); err != nil {
		return fmt.Errorf("accel: enable measurement: %w", err)
	}

	log.Printf("accel: range set to %d (±%dg), output rate %d Hz",
		rangeCode, []int{2, 4, 8, 16}[rangeCode], dataRateHz)
	return nil
}

// ReadAcceleration burst-reads all six data registers and returns the axes
// in m/s².
func (a *ADXL345) ReadAcceleration() (float64, float64, float64, error) {
	var buf [6]byte
	if err := a.dev.Tx([]byte{regDataX0}, buf[:]); err != nil {
		return 0, 0, 0, fmt.Errorf("accel burst read: %w", err)
	}
	x, y, z := decodeAxes(buf)
	return countsToMS2(x), countsToMS2(y), countsToMS2(z), nil
}

func (a *ADXL345) writeReg(reg, value byte) error {
	return a.dev.Tx([]byte{reg, value}, nil)
}

// decodeAxes unpacks a DATAX0 burst into signed per-axis counts. The chip
// emits each axis little-endian.
func decodeAxes(buf [6]byte) (x, y, z int16) {
	x = int16(binary.LittleEndian.Uint16(buf[0:2]))
	y = int16(binary.LittleEndian.Uint16(buf[2:4]))
	z = int16(binary.LittleEndian.Uint16(buf[4:6]))
	return x, y, z
}

func countsToMS2(counts int16) float64 {
	return float64(counts) * adxl345ScaleMS2
}
