// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"fmt"
	"log"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ads1x15"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/holter_telemetry/internal/config"
)

// ad8232Source reads the two AD8232 front-ends through an ADS1115 ADC.
// Channel I sits on AIN0, channel II on AIN1. Each front-end's SDN pin is
// optional; boards that hard-wire SDN high configure no pin.
type ad8232Source struct {
	pins  map[Channel]ads1x15.PinADC
	sdn   map[Channel]gpio.PinOut
	awake map[Channel]bool
}

// NewAD8232Source opens the I²C bus, sets up the ADS1115 that digitizes both
// AD8232 outputs, and resolves the shutdown pins used to wake each channel.
func NewAD8232Source(cfg *config.Config) (BiopotentialReader, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("biopotential: periph host init: %w", err)
	}

	bus, err := i2creg.Open(cfg.I2CBus)
	if err != nil {
		return nil, fmt.Errorf("biopotential: I2C bus open: %w", err)
	}

	adc, err := ads1x15.NewADS1115(bus, &ads1x15.Opts{I2cAddress: cfg.ADCI2CAddr})
	if err != nil {
		return nil, fmt.Errorf("biopotential: ADS1115 init: %w", err)
	}

	// 860 SPS is the chip maximum; single-shot reads at the sampling cadence
	// stay well under it.
	pinI, err := adc.PinForChannel(ads1x15.Channel0, 3300*physic.MilliVolt, 860*physic.Hertz, ads1x15.SaveEnergy)
	if err != nil {
		return nil, fmt.Errorf("biopotential: lead I ADC channel: %w", err)
	}
	pinII, err := adc.PinForChannel(ads1x15.Channel1, 3300*physic.MilliVolt, 860*physic.Hertz, ads1x15.SaveEnergy)
	if err != nil {
		return nil, fmt.Errorf("biopotential: lead II ADC channel: %w", err)
	}

	src := &ad8232Source{
		pins:  map[Channel]ads1x15.PinADC{ChannelI: pinI, ChannelII: pinII},
		sdn:   map[Channel]gpio.PinOut{},
		awake: map[Channel]bool{},
	}

	for ch, pinName := range map[Channel]string{
		ChannelI:  cfg.ECGLead1SDNPin,
		ChannelII: cfg.ECGLead2SDNPin,
	} {
		if pinName == "" {
			continue
		}
		p := gpioreg.ByName(pinName)
		if p == nil {
			return nil, fmt.Errorf("biopotential: %s SDN pin %q not found", ch, pinName)
		}
		src.sdn[ch] = p
	}

	log.Printf("biopotential: ADS1115 ready at 0x%02X, leads on AIN0/AIN1", cfg.ADCI2CAddr)
	return src, nil
}

// Wake drives the channel's SDN pin high. Repeat calls are no-ops.
func (s *ad8232Source) Wake(ch Channel) error {
	if s.awake[ch] {
		return nil
	}
	if p, ok := s.sdn[ch]; ok {
		if err := p.Out(gpio.High); err != nil {
			return fmt.Errorf("biopotential: %s wake: %w", ch, err)
		}
	}
	s.awake[ch] = true
	log.Printf("biopotential: %s awake", ch)
	return nil
}

func (s *ad8232Source) ReadVoltage(ch Channel) (float64, error) {
	pin, ok := s.pins[ch]
	if !ok {
		return 0, fmt.Errorf("biopotential: no ADC channel for %s", ch)
	}
	sample, err := pin.Read()
	if err != nil {
		return 0, fmt.Errorf("biopotential: %s read: %w", ch, err)
	}
	return float64(sample.V) / float64(physic.Volt), nil
}
