package transport

import (
	"fmt"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

type mqttSender struct {
	client mqtt.Client
	topic  string
}

// NewMQTTMirror creates an auxiliary sink that republishes each record line
// to an MQTT topic, so on-site consumers (display, dashboards) can follow
// the stream without tapping the UDP link.
func NewMQTTMirror(broker, clientID, topic string) (LineSender, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", broker, token.Error())
	}

	log.Printf("transport: MQTT mirror to %s topic %s", broker, topic)
	return &mqttSender{client: client, topic: topic}, nil
}

func (m *mqttSender) SendLine(line string) error {
	token := m.client.Publish(m.topic, 0, false, line)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("mqtt publish: %w", token.Error())
	}
	return nil
}

func (m *mqttSender) Close() error {
	m.client.Disconnect(250)
	return nil
}
