package transport

import (
	"fmt"
	"io"
	"log"

	serial "github.com/jacobsa/go-serial/serial"
)

type serialSender struct {
	port io.WriteCloser
}

// NewSerial creates a record sink on a serial port, for bench setups where
// the device streams to a directly attached host instead of the network.
func NewSerial(portName string, baudRate int) (LineSender, error) {
	opts := serial.OpenOptions{
		PortName:        portName,
		BaudRate:        uint(baudRate),
		DataBits:        8,
		StopBits:        1,
		MinimumReadSize: 1,
		ParityMode:      serial.PARITY_NONE,
	}

	port, err := serial.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("serial open %s: %w", portName, err)
	}

	log.Printf("transport: serial port %s at %d baud", portName, baudRate)
	return &serialSender{port: port}, nil
}

func (s *serialSender) SendLine(line string) error {
	if _, err := s.port.Write([]byte(line + "\n")); err != nil {
		return fmt.Errorf("serial send: %w", err)
	}
	return nil
}

func (s *serialSender) Close() error {
	return s.port.Close()
}
