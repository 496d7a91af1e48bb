package transport

// LineSender transmits one newline-terminated text record to a fixed peer.
// Sends are fire-and-forget: implementations must not retry, buffer, or
// block beyond the write itself.
type LineSender interface {
	SendLine(line string) error
	Close() error
}

// Multi tees every line to each sink. All sinks are attempted on every send;
// the first error is returned after the remaining sinks have been tried.
func Multi(sinks ...LineSender) LineSender {
	return multiSender{sinks: sinks}
}

type multiSender struct {
	sinks []LineSender
}

func (m multiSender) SendLine(line string) error {
	var first error
	for _, s := range m.sinks {
		if err := s.SendLine(line); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m multiSender) Close() error {
	var first error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
