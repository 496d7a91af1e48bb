package sensors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeAxes(t *testing.T) {
	tests := []struct {
		name    string
		buf     [6]byte
		x, y, z int16
	}{
		{name: "zero", buf: [6]byte{}, x: 0, y: 0, z: 0},
		{name: "one g on z", buf: [6]byte{0, 0, 0, 0, 0xFA, 0x00}, z: 250},
		{name: "negative x", buf: [6]byte{0x06, 0xFF, 0, 0, 0, 0}, x: -250},
		{name: "mixed", buf: [6]byte{0x01, 0x00, 0xFF, 0xFF, 0x00, 0x01}, x: 1, y: -1, z: 256},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, z := decodeAxes(tt.buf)
			assert.Equal(t, tt.x, x)
			assert.Equal(t, tt.y, y)
			assert.Equal(t, tt.z, z)
		})
	}
}

func TestCountsToMS2(t *testing.T) {
	// 250 counts at 4 mg/LSB is exactly one standard gravity.
	assert.InDelta(t, 9.80665, countsToMS2(250), 1e-9)
	assert.InDelta(t, -9.80665, countsToMS2(-250), 1e-9)
	assert.Zero(t, countsToMS2(0))
}

func TestRateCodesCoverConfigRates(t *testing.T) {
	for _, hz := range []int{12, 25, 50, 100, 200, 400, 800, 1600, 3200} {
		_, ok := adxl345RateCodes[hz]
		assert.True(t, ok, "missing BW_RATE code for %d Hz", hz)
	}
	assert.Equal(t, byte(0x0A), adxl345RateCodes[100])
}
