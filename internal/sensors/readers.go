package sensors

// Channel identifies one biopotential lead input on the front-end.
type Channel int

const (
	ChannelI Channel = iota
	ChannelII
)

func (c Channel) String() string {
	switch c {
	case ChannelI:
		return "lead I"
	case ChannelII:
		return "lead II"
	default:
		return "unknown lead"
	}
}

// BiopotentialReader is the sampling loop's contract with the ECG front-end.
type BiopotentialReader interface {
	// Wake powers the channel's front-end on. Waking an already-awake
	// channel is a no-op.
	Wake(ch Channel) error
	// ReadVoltage returns the instantaneous voltage on the channel in volts.
	ReadVoltage(ch Channel) (float64, error)
}

// AccelReader is the sampling loop's contract with the motion sensor.
type AccelReader interface {
	// IsPresent probes the device. Called once at startup; the result is
	// never re-checked during sampling.
	IsPresent() bool
	// Configure sets the measurement range (0=±2g … 3=±16g) and output data
	// rate in Hz. Must only be called after IsPresent has succeeded.
	Configure(rangeCode byte, dataRateHz int) error
	// ReadAcceleration returns x, y, z in m/s².
	ReadAcceleration() (x, y, z float64, err error)
}
