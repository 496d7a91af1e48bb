package transport

import (
	"fmt"
	"log"
	"net"
	"strconv"
)

type udpSender struct {
	conn *net.UDPConn
}

// NewUDP creates the primary telemetry sink: connectionless datagram sends
// to a fixed collector endpoint, one record per datagram.
func NewUDP(host string, port int) (LineSender, error) {
	raddr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return nil, fmt.Errorf("udp resolve %s:%d: %w", host, port, err)
	}

	conn, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		return nil, fmt.Errorf("udp dial %s: %w", raddr, err)
	}

	log.Printf("transport: UDP peer %s", raddr)
	return &udpSender{conn: conn}, nil
}

func (u *udpSender) SendLine(line string) error {
	if _, err := u.conn.Write([]byte(line + "\n")); err != nil {
		return fmt.Errorf("udp send: %w", err)
	}
	return nil
}

func (u *udpSender) Close() error {
	return u.conn.Close()
}
