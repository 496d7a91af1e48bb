package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/relabs-tech/holter_telemetry/internal/config"
	"github.com/relabs-tech/holter_telemetry/internal/metrics"
	"github.com/relabs-tech/holter_telemetry/internal/telemetry"
)

// RunWeb collects the device's UDP stream and serves it back out: latest
// sample as JSON, raw lines over websocket, Prometheus metrics, and a static
// UI from ./web.
func RunWeb(cfg *config.Config) error {
	var (
		mu         sync.RWMutex
		lastSample telemetry.Sample
		haveSample bool
	)

	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: cfg.UDPListenPort})
	if err != nil {
		return fmt.Errorf("web: UDP listen :%d: %w", cfg.UDPListenPort, err)
	}
	defer conn.Close()
	log.Printf("web: collecting records on UDP :%d", cfg.UDPListenPort)

	hub := newLineHub()

	go func() {
		buf := make([]byte, 512)
		for {
			n, _, err := conn.ReadFromUDP(buf)
			if err != nil {
				log.Printf("web: UDP read error: %v", err)
				return
			}
			line := strings.TrimSpace(string(buf[:n]))

			switch line {
			case telemetry.ReadyLine, telemetry.DiagAccelNotFound:
				metrics.SentinelLines.WithLabelValues(line).Inc()
			default:
				s, err := telemetry.ParseRecord(line)
				if err != nil {
					metrics.ParseErrors.Inc()
					log.Printf("web: bad record: %v", err)
					continue
				}
				metrics.RecordsReceived.Inc()
				mu.Lock()
				lastSample = s
				haveSample = true
				mu.Unlock()
			}

			hub.broadcast(line)
		}
	}()

	mux := http.NewServeMux()

	mux.HandleFunc("/api/latest", func(w http.ResponseWriter, r *http.Request) {
		mu.RLock()
		defer mu.RUnlock()

		if !haveSample {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(lastSample); err != nil {
			log.Printf("web: json encode error: %v", err)
		}
	})

	mux.HandleFunc("/ws", hub.handleWS)
	mux.Handle("/metrics", metrics.Handler())
	mux.Handle("/", http.FileServer(http.Dir("web")))

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	log.Printf("web server listening on %s", addr)
	return http.ListenAndServe(addr, mux)
}

// lineHub fans incoming lines out to connected websocket clients.
type lineHub struct {
	mu       sync.Mutex
	clients  map[*websocket.Conn]bool
	upgrader websocket.Upgrader
}

func newLineHub() *lineHub {
	return &lineHub{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			// The UI is served from the same host; cross-origin viewers on
			// the LAN are fine for this stream.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *lineHub) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("web: websocket upgrade error: %v", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()
	log.Printf("web: websocket client connected from %s", conn.RemoteAddr())
}

func (h *lineHub) broadcast(line string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(line)); err != nil {
			conn.Close()
			delete(h.clients, conn)
		}
	}
}
