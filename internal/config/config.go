package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Scheduling policy values for SCHEDULING_POLICY.
const (
	PolicyFixedDelay = "fixed_delay"
	PolicyFixedRate  = "fixed_rate"
)

// Transport values for TRANSPORT.
const (
	TransportUDP    = "udp"
	TransportSerial = "serial"
)

// Config holds all application configuration values.
type Config struct {
	// Transport
	Transport      string
	UDPPeerHost    string
	UDPPeerPort    int
	UDPListenPort  int // collector side; defaults to UDP_PEER_PORT
	SerialPort     string
	SerialBaudRate int

	// Wi-Fi. Association is owned by the OS on this platform; the
	// credentials are surfaced here for parity with the device build.
	WiFiSSID     string
	WiFiPassword string

	// MQTT mirror
	MQTTBroker           string
	MQTTTopic            string
	MQTTClientIDProducer string
	MQTTClientIDDisplay  string

	// Sampling
	SampleInterval   int // milliseconds
	SchedulingPolicy string
	ReadyDelay       int // milliseconds after SYSTEM_READY before sampling
	DiagInterval     int // milliseconds between diagnostic re-emissions

	// Biopotential front-end (AD8232 pair behind an ADS1115)
	I2CBus         string
	ADCI2CAddr     uint16
	ECGLead1SDNPin string
	ECGLead2SDNPin string

	// Accelerometer
	// Range: 0=±2g, 1=±4g, 2=±8g, 3=±16g
	AccelRange byte
	// Output data rate in Hz (must be a rate the ADXL345 supports)
	AccelDataRate int

	// Collector
	WebServerPort         int
	DisplayUpdateInterval int // milliseconds
}

// Package-level unexported variables for singleton pattern:
//   - globalConfig: unexported so other packages cannot access it directly.
//   - configOnce: ensures InitGlobal() only runs once, even if called multiple times.
//   - configMu: RWMutex protects concurrent access.
//
// External code must use InitGlobal() to set and Get() to read, ensuring thread safety.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// supportedDataRates are the ADXL345 output data rates (Hz) the driver maps
// to BW_RATE codes. 12 stands for the chip's 12.5 Hz setting.
var supportedDataRates = map[int]bool{
	12: true, 25: true, 50: true, 100: true, 200: true,
	400: true, 800: true, 1600: true, 3200: true,
}

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := defaults()
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.UDPListenPort == 0 {
		cfg.UDPListenPort = cfg.UDPPeerPort
	}

	return cfg, nil
}

// defaults returns a Config pre-filled with every optional value.
func defaults() *Config {
	return &Config{
		Transport:             TransportUDP,
		SerialBaudRate:        115200,
		MQTTTopic:             "holter/records",
		MQTTClientIDProducer:  "holter-producer",
		MQTTClientIDDisplay:   "holter-display",
		SchedulingPolicy:      PolicyFixedDelay,
		ReadyDelay:            1000,
		DiagInterval:          1000,
		ADCI2CAddr:            0x48,
		AccelRange:            1, // ±4g is enough for body movement
		AccelDataRate:         100,
		WebServerPort:         8080,
		DisplayUpdateInterval: 500,
	}
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// Transport
	case "TRANSPORT":
		if value != TransportUDP && value != TransportSerial {
			return fmt.Errorf("TRANSPORT must be %q or %q, got %q", TransportUDP, TransportSerial, value)
		}
		c.Transport = value
	case "UDP_PEER_HOST":
		c.UDPPeerHost = value
	case "UDP_PEER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid UDP_PEER_PORT %q: %w", value, err)
		}
		if port < 1 || port > 65535 {
			return fmt.Errorf("UDP_PEER_PORT must be 1-65535, got %d", port)
		}
		c.UDPPeerPort = port
	case "UDP_LISTEN_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid UDP_LISTEN_PORT %q: %w", value, err)
		}
		if port < 1 || port > 65535 {
			return fmt.Errorf("UDP_LISTEN_PORT must be 1-65535, got %d", port)
		}
		c.UDPListenPort = port
	case "SERIAL_PORT":
		c.SerialPort = value
	case "SERIAL_BAUD_RATE":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid SERIAL_BAUD_RATE %q: %w", value, err)
		}
		c.SerialBaudRate = rate

	// Wi-Fi
	case "WIFI_SSID":
		c.WiFiSSID = value
	case "WIFI_PASSWORD":
		c.WiFiPassword = value

	// MQTT mirror
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_TOPIC":
		c.MQTTTopic = value
	case "MQTT_CLIENT_ID_PRODUCER":
		c.MQTTClientIDProducer = value
	case "MQTT_CLIENT_ID_DISPLAY":
		c.MQTTClientIDDisplay = value

	// Sampling
	case "SAMPLE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid SAMPLE_INTERVAL %q: %w", value, err)
		}
		if interval < 1 {
			return fmt.Errorf("SAMPLE_INTERVAL must be at least 1 ms, got %d", interval)
		}
		c.SampleInterval = interval
	case "SCHEDULING_POLICY":
		if value != PolicyFixedDelay && value != PolicyFixedRate {
			return fmt.Errorf("SCHEDULING_POLICY must be %q or %q, got %q", PolicyFixedDelay, PolicyFixedRate, value)
		}
		c.SchedulingPolicy = value
	case "READY_DELAY":
		delay, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid READY_DELAY %q: %w", value, err)
		}
		if delay < 0 {
			return fmt.Errorf("READY_DELAY must be non-negative, got %d", delay)
		}
		c.ReadyDelay = delay
	case "DIAG_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid DIAG_INTERVAL %q: %w", value, err)
		}
		if interval < 1 {
			return fmt.Errorf("DIAG_INTERVAL must be at least 1 ms, got %d", interval)
		}
		c.DiagInterval = interval

	// Biopotential front-end
	case "I2C_BUS":
		c.I2CBus = value
	case "ADC_I2C_ADDR":
		addr, err := strconv.ParseUint(value, 0, 16)
		if err != nil {
			return fmt.Errorf("invalid ADC_I2C_ADDR %q: %w", value, err)
		}
		c.ADCI2CAddr = uint16(addr)
	case "ECG_LEAD1_SDN_PIN":
		c.ECGLead1SDNPin = value
	case "ECG_LEAD2_SDN_PIN":
		c.ECGLead2SDNPin = value

	// Accelerometer
	case "ACCEL_RANGE":
		rangeVal, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid ACCEL_RANGE %q: %w", value, err)
		}
		if rangeVal < 0 || rangeVal > 3 {
			return fmt.Errorf("ACCEL_RANGE must be 0-3 (0=±2g, 1=±4g, 2=±8g, 3=±16g), got %d", rangeVal)
		}
		c.AccelRange = byte(rangeVal)
	case "ACCEL_DATA_RATE":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid ACCEL_DATA_RATE %q: %w", value, err)
		}
		if !supportedDataRates[rate] {
			return fmt.Errorf("ACCEL_DATA_RATE %d Hz is not a supported ADXL345 rate", rate)
		}
		c.AccelDataRate = rate

	// Collector
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		c.WebServerPort = port
	case "DISPLAY_UPDATE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid DISPLAY_UPDATE_INTERVAL %q: %w", value, err)
		}
		c.DisplayUpdateInterval = interval

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.UDPPeerHost == "" {
		return fmt.Errorf("UDP_PEER_HOST is required")
	}
	if c.UDPPeerPort == 0 {
		return fmt.Errorf("UDP_PEER_PORT is required")
	}
	if c.SampleInterval == 0 {
		return fmt.Errorf("SAMPLE_INTERVAL is required")
	}
	if c.Transport == TransportSerial && c.SerialPort == "" {
		return fmt.Errorf("SERIAL_PORT is required when TRANSPORT=serial")
	}
	return nil
}

// InitGlobal initializes the global configuration from file.
// Uses sync.Once to ensure this only runs once, even if called multiple times.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
