package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "holter_config.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
# network
UDP_PEER_HOST=192.168.4.101
UDP_PEER_PORT=55000
WIFI_SSID=Delta
WIFI_PASSWORD=secret

# sampling
SAMPLE_INTERVAL=10
SCHEDULING_POLICY=fixed_rate
READY_DELAY=500
DIAG_INTERVAL=2000

# sensors
ACCEL_RANGE=2
ACCEL_DATA_RATE=200
ADC_I2C_ADDR=0x49
ECG_LEAD1_SDN_PIN=17
ECG_LEAD2_SDN_PIN=27

# mirror
MQTT_BROKER=tcp://localhost:1883
MQTT_TOPIC=ward3/records
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "192.168.4.101", cfg.UDPPeerHost)
	assert.Equal(t, 55000, cfg.UDPPeerPort)
	assert.Equal(t, "Delta", cfg.WiFiSSID)
	assert.Equal(t, 10, cfg.SampleInterval)
	assert.Equal(t, PolicyFixedRate, cfg.SchedulingPolicy)
	assert.Equal(t, 500, cfg.ReadyDelay)
	assert.Equal(t, 2000, cfg.DiagInterval)
	assert.Equal(t, byte(2), cfg.AccelRange)
	assert.Equal(t, 200, cfg.AccelDataRate)
	assert.Equal(t, uint16(0x49), cfg.ADCI2CAddr)
	assert.Equal(t, "17", cfg.ECGLead1SDNPin)
	assert.Equal(t, "tcp://localhost:1883", cfg.MQTTBroker)
	assert.Equal(t, "ward3/records", cfg.MQTTTopic)
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
UDP_PEER_HOST=10.0.0.2
UDP_PEER_PORT=55000
SAMPLE_INTERVAL=10
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, TransportUDP, cfg.Transport)
	assert.Equal(t, PolicyFixedDelay, cfg.SchedulingPolicy)
	assert.Equal(t, 1000, cfg.ReadyDelay)
	assert.Equal(t, 1000, cfg.DiagInterval)
	assert.Equal(t, byte(1), cfg.AccelRange)
	assert.Equal(t, 100, cfg.AccelDataRate)
	assert.Equal(t, uint16(0x48), cfg.ADCI2CAddr)
	assert.Equal(t, 8080, cfg.WebServerPort)
	// The collector listens where the device sends unless told otherwise.
	assert.Equal(t, 55000, cfg.UDPListenPort)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "unknown key",
			content: "UDP_PEER_HOST=h\nUDP_PEER_PORT=1\nSAMPLE_INTERVAL=10\nBOGUS=1\n",
			wantErr: "unknown config key",
		},
		{
			name:    "missing peer host",
			content: "UDP_PEER_PORT=55000\nSAMPLE_INTERVAL=10\n",
			wantErr: "UDP_PEER_HOST is required",
		},
		{
			name:    "missing sample interval",
			content: "UDP_PEER_HOST=h\nUDP_PEER_PORT=55000\n",
			wantErr: "SAMPLE_INTERVAL is required",
		},
		{
			name:    "accel range out of bounds",
			content: "UDP_PEER_HOST=h\nUDP_PEER_PORT=55000\nSAMPLE_INTERVAL=10\nACCEL_RANGE=5\n",
			wantErr: "ACCEL_RANGE must be 0-3",
		},
		{
			name:    "unsupported accel rate",
			content: "UDP_PEER_HOST=h\nUDP_PEER_PORT=55000\nSAMPLE_INTERVAL=10\nACCEL_DATA_RATE=123\n",
			wantErr: "not a supported ADXL345 rate",
		},
		{
			name:    "bad scheduling policy",
			content: "UDP_PEER_HOST=h\nUDP_PEER_PORT=55000\nSAMPLE_INTERVAL=10\nSCHEDULING_POLICY=adaptive\n",
			wantErr: "SCHEDULING_POLICY must be",
		},
		{
			name:    "serial transport needs a port",
			content: "UDP_PEER_HOST=h\nUDP_PEER_PORT=55000\nSAMPLE_INTERVAL=10\nTRANSPORT=serial\n",
			wantErr: "SERIAL_PORT is required",
		},
		{
			name:    "garbled line",
			content: "UDP_PEER_HOST\n",
			wantErr: "invalid config line",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
