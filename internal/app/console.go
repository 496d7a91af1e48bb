package app

import (
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/relabs-tech/holter_telemetry/internal/config"
	"github.com/relabs-tech/holter_telemetry/internal/telemetry"
)

// RunConsole binds the telemetry UDP port and prints every record and
// sentinel until interrupted.
func RunConsole(cfg *config.Config) error {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: cfg.UDPListenPort})
	if err != nil {
		return fmt.Errorf("console: UDP listen :%d: %w", cfg.UDPListenPort, err)
	}
	defer conn.Close()
	log.Printf("console: listening for records on UDP :%d", cfg.UDPListenPort)

	go func() {
		buf := make([]byte, 512)
		for {
			n, _, err := conn.ReadFromUDP(buf)
			if err != nil {
				log.Printf("console: read error: %v", err)
				return
			}
			printLine(strings.TrimSpace(string(buf[:n])))
		}
	}()

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	return nil
}

func printLine(line string) {
	switch line {
	case telemetry.ReadyLine:
		fmt.Println("[SYS ]  device ready")
	case telemetry.DiagAccelNotFound:
		fmt.Println("[DIAG]  accelerometer not found on device")
	default:
		s, err := telemetry.ParseRecord(line)
		if err != nil {
			log.Printf("console: bad record: %v", err)
			return
		}
		fmt.Printf(
			"[ECG ]  t=%8dms  I=%9.6fV  II=%9.6fV  III=%9.6fV\n",
			s.TimestampMS, s.LeadI, s.LeadII, s.LeadIII,
		)
		fmt.Printf(
			"[ACC ]  x=%8.4f  y=%8.4f  z=%8.4f  |a|=%8.4f m/s2\n",
			s.AccelX, s.AccelY, s.AccelZ, s.AccelMagnitude,
		)
	}
}
