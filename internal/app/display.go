package app

import (
	"fmt"
	"image"
	"log"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/holter_telemetry/internal/config"
	"github.com/relabs-tech/holter_telemetry/internal/telemetry"
)

// displayData holds the latest data for the bedside display.
type displayData struct {
	mu         sync.RWMutex
	sample     telemetry.Sample
	haveSample bool
	status     string
}

// RunDisplay drives the SSD1306 bedside display from the MQTT mirror of the
// record stream.
func RunDisplay(cfg *config.Config) error {
	if cfg.MQTTBroker == "" {
		return fmt.Errorf("display: MQTT_BROKER must be set")
	}

	if _, err := host.Init(); err != nil {
		return fmt.Errorf("display: periph host init: %w", err)
	}

	bus, err := i2creg.Open(cfg.I2CBus)
	if err != nil {
		return fmt.Errorf("display: I2C bus open: %w", err)
	}
	defer bus.Close()

	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		return fmt.Errorf("display: SSD1306 init: %w", err)
	}
	log.Println("display: SSD1306 initialized")

	if err := drawLines(dev, []string{"Holter", "waiting for", "records"}); err != nil {
		log.Printf("display: error showing splash: %v", err)
	}

	data := &displayData{status: "no link"}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDDisplay)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)
	log.Printf("display: connected to MQTT broker at %s", cfg.MQTTBroker)

	token := client.Subscribe(cfg.MQTTTopic, 0, func(_ mqtt.Client, msg mqtt.Message) {
		line := string(msg.Payload())
		data.mu.Lock()
		defer data.mu.Unlock()

		switch line {
		case telemetry.ReadyLine:
			data.status = "ready"
		case telemetry.DiagAccelNotFound:
			data.status = "ACCEL FAULT"
		default:
			s, err := telemetry.ParseRecord(line)
			if err != nil {
				log.Printf("display: bad record: %v", err)
				return
			}
			data.sample = s
			data.haveSample = true
			data.status = "streaming"
		}
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("display: subscribed to %s", cfg.MQTTTopic)

	ticker := time.NewTicker(time.Duration(cfg.DisplayUpdateInterval) * time.Millisecond)
	defer ticker.Stop()

	log.Println("display: starting update loop")

	for range ticker.C {
		data.mu.RLock()
		sample := data.sample
		haveSample := data.haveSample
		status := data.status
		data.mu.RUnlock()

		if err := updateStatusDisplay(dev, sample, haveSample, status); err != nil {
			log.Printf("display: error updating display: %v", err)
		}
	}
	return nil
}

func updateStatusDisplay(dev *ssd1306.Dev, s telemetry.Sample, haveSample bool, status string) error {
	if !haveSample {
		return drawLines(dev, []string{"Holter", status})
	}
	return drawLines(dev, []string{
		fmt.Sprintf("II %8.6f V", s.LeadII),
		fmt.Sprintf("|a| %7.4f", s.AccelMagnitude),
		fmt.Sprintf("t %8d ms", s.TimestampMS),
		status,
	})
}

// drawLines renders up to four text rows on the 128x64 panel.
func drawLines(dev *ssd1306.Dev, lines []string) error {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, 128, 64))

	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}

	y := 13
	for _, line := range lines {
		drawer.Dot = fixed.P(0, y)
		drawer.DrawBytes([]byte(line))
		y += 13
	}

	return dev.Draw(dev.Bounds(), img, image.Point{})
}
