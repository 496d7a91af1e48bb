package telemetry

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordKnownValues(t *testing.T) {
	s := NewSample(5000, 0.8, 0.79, 0.0, 9.81, 0.0)

	assert.Equal(t,
		"5000,0.800000,0.790000,-0.010000,0.0000,9.8100,0.0000,9.8100",
		s.Record(),
	)
}

func TestRecordShape(t *testing.T) {
	voltage := regexp.MustCompile(`^-?\d+\.\d{6}$`)
	accel := regexp.MustCompile(`^-?\d+\.\d{4}$`)

	tests := []struct {
		name          string
		leadI, leadII float64
		ax, ay, az    float64
	}{
		{name: "at rest", leadI: 0.812345, leadII: 0.793201, ax: 0.1234, ay: 9.789, az: 0.2345},
		{name: "negative axes", leadI: 1.5, leadII: 0.25, ax: -3.0, ay: -9.81, az: -0.5},
		{name: "zeroes", leadI: 0, leadII: 0, ax: 0, ay: 0, az: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := NewSample(123456, tt.leadI, tt.leadII, tt.ax, tt.ay, tt.az).Record()

			fields := strings.Split(line, ",")
			require.Len(t, fields, RecordFieldCount)

			assert.Regexp(t, `^\d+$`, fields[0], "timestamp is an unsigned integer")
			for _, f := range fields[1:4] {
				assert.True(t, voltage.MatchString(f), "voltage field %q must have 6 fractional digits", f)
			}
			for _, f := range fields[4:8] {
				assert.True(t, accel.MatchString(f), "accel field %q must have 4 fractional digits", f)
			}
		})
	}
}

func TestNewSampleDerivedChannels(t *testing.T) {
	tests := []struct {
		name          string
		leadI, leadII float64
		ax, ay, az    float64
		wantLeadIII   float64
		wantMagnitude float64
	}{
		{name: "scenario at rest", leadI: 0.8, leadII: 0.79, ay: 9.81, wantLeadIII: -0.01, wantMagnitude: 9.81},
		{name: "positive lead III", leadI: 0.5, leadII: 0.9, ax: 3, ay: 4, wantLeadIII: 0.4, wantMagnitude: 5},
		{name: "all-negative axes", leadI: 1, leadII: 1, ax: -1, ay: -2, az: -2, wantLeadIII: 0, wantMagnitude: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSample(0, tt.leadI, tt.leadII, tt.ax, tt.ay, tt.az)
			assert.InDelta(t, tt.wantLeadIII, s.LeadIII, 1e-12)
			assert.InDelta(t, tt.wantMagnitude, s.AccelMagnitude, 1e-12)
			assert.GreaterOrEqual(t, s.AccelMagnitude, 0.0)
		})
	}
}

func TestParseRecord(t *testing.T) {
	s := NewSample(123456, 0.812345, 0.793201, 0.1234, 9.789, 0.2345)

	got, err := ParseRecord(s.Record() + "\n")
	require.NoError(t, err)

	assert.Equal(t, uint64(123456), got.TimestampMS)
	assert.InDelta(t, s.LeadI, got.LeadI, 1e-6)
	assert.InDelta(t, s.LeadII, got.LeadII, 1e-6)
	assert.InDelta(t, s.LeadIII, got.LeadIII, 1e-6)
	assert.InDelta(t, s.AccelX, got.AccelX, 1e-4)
	assert.InDelta(t, s.AccelY, got.AccelY, 1e-4)
	assert.InDelta(t, s.AccelZ, got.AccelZ, 1e-4)
	assert.InDelta(t, s.AccelMagnitude, got.AccelMagnitude, 1e-4)
}

func TestParseRecordErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{name: "too few fields", line: "5000,0.1,0.2"},
		{name: "too many fields", line: "1,2,3,4,5,6,7,8,9"},
		{name: "bad timestamp", line: "-5,0.800000,0.790000,-0.010000,0.0000,9.8100,0.0000,9.8100"},
		{name: "bad float", line: "5000,abc,0.790000,-0.010000,0.0000,9.8100,0.0000,9.8100"},
		{name: "diagnostic sentinel", line: DiagAccelNotFound},
		{name: "empty", line: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRecord(tt.line)
			assert.Error(t, err)
		})
	}
}
