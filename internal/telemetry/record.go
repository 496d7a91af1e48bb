package telemetry

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Wire sentinels shared by the producer and every collector.
const (
	// ReadyLine is sent once after a successful startup, before sampling begins.
	ReadyLine = "SYSTEM_READY"
	// DiagAccelNotFound is re-emitted forever when the accelerometer probe fails.
	DiagAccelNotFound = "ERROR:ACCEL_NOT_FOUND"
)

// RecordFieldCount is the number of comma-separated fields in a sample record.
const RecordFieldCount = 8

// Sample is one tick worth of synchronized readings. It is built fresh every
// tick and never mutated or carried over to the next one.
type Sample struct {
	TimestampMS uint64 `json:"timestamp_ms"` // monotonic ms since device start

	LeadI   float64 `json:"lead_i"`   // V
	LeadII  float64 `json:"lead_ii"`  // V
	LeadIII float64 `json:"lead_iii"` // V, derived: II - I

	AccelX         float64 `json:"accel_x"` // m/s²
	AccelY         float64 `json:"accel_y"`
	AccelZ         float64 `json:"accel_z"`
	AccelMagnitude float64 `json:"accel_magnitude"` // m/s², derived
}

// NewSample builds a sample from the measured values. Both derived channels
// are recomputed here on every call, never cached by callers.
func NewSample(timestampMS uint64, leadI, leadII, ax, ay, az float64) Sample {
	return Sample{
		TimestampMS:    timestampMS,
		LeadI:          leadI,
		LeadII:         leadII,
		LeadIII:        leadII - leadI,
		AccelX:         ax,
		AccelY:         ay,
		AccelZ:         az,
		AccelMagnitude: math.Sqrt(ax*ax + ay*ay + az*az),
	}
}

// Record serializes the sample to its wire line: timestamp, three leads at 6
// fractional digits, four acceleration fields at 4. No trailing newline; the
// transport appends it.
func (s Sample) Record() string {
	return fmt.Sprintf("%d,%.6f,%.6f,%.6f,%.4f,%.4f,%.4f,%.4f",
		s.TimestampMS,
		s.LeadI, s.LeadII, s.LeadIII,
		s.AccelX, s.AccelY, s.AccelZ, s.AccelMagnitude)
}

// ParseRecord decodes one wire line back into a Sample. Derived fields are
// taken as transmitted; collectors trust the device's arithmetic.
func ParseRecord(line string) (Sample, error) {
	fields := strings.Split(strings.TrimSpace(line), ",")
	if len(fields) != RecordFieldCount {
		return Sample{}, fmt.Errorf("record has %d fields, want %d: %q", len(fields), RecordFieldCount, line)
	}

	ts, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		return Sample{}, fmt.Errorf("bad timestamp %q: %w", fields[0], err)
	}

	var vals [7]float64
	for i, f := range fields[1:] {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Sample{}, fmt.Errorf("bad field %d %q: %w", i+1, f, err)
		}
		vals[i] = v
	}

	return Sample{
		TimestampMS:    ts,
		LeadI:          vals[0],
		LeadII:         vals[1],
		LeadIII:        vals[2],
		AccelX:         vals[3],
		AccelY:         vals[4],
		AccelZ:         vals[5],
		AccelMagnitude: vals[6],
	}, nil
}
