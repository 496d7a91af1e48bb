// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

// ADXL345 register map (the subset this driver touches).
const (
	adxl345Addr  = 0x53 // I²C address with SDO/ALT tied low
	adxl345DevID = 0xE5 // fixed DEVID value

	regDevID      = 0x00
	regBWRate     = 0x2C
	regPowerCtl   = 0x2D
	regDataFormat = 0x31
	regDataX0     = 0x32 // six data registers, X0..Z1, burst-readable
)

// POWER_CTL bits
const (
	powerCtlMeasure = 0x08
)

// DATA_FORMAT bits. With FULL_RES set the scale stays 4 mg/LSB across all
// ranges; the range bits only widen the usable span.
const (
	dataFormatFullRes = 0x08
	dataFormatRange   = 0x03 // mask for the range bits (0=±2g … 3=±16g)
)

// adxl345RateCodes maps output data rates in Hz to BW_RATE codes.
// 12 stands for the chip's 12.5 Hz setting.
var adxl345RateCodes = map[int]byte{
	12:   0x07,
	25:   0x08,
	50:   0x09,
	100:  0x0A,
	200:  0x0B,
	400:  0x0C,
	800:  0x0D,
	1600: 0x0E,
	3200: 0x0F,
}

// adxl345ScaleMS2 converts a full-resolution count to m/s²: 4 mg/LSB times
// standard gravity.
const adxl345ScaleMS2 = 0.004 * 9.80665
