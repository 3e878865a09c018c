package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/benmeehan/hydrant-survey/pkg/mqtt"
)

// dispatchEnvelope is the MQTT payload carrying a dispatch message.
type dispatchEnvelope struct {
	StationID string    `json:"station_id"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// MQTTSink publishes dispatch messages to a broker topic.
type MQTTSink struct {
	client    mqtt.MQTTClient
	topic     string
	qos       int
	stationID string
	now       func() time.Time
}

// NewMQTTSink creates a sink publishing to topic.
func NewMQTTSink(client mqtt.MQTTClient, topic string, qos int, stationID string) *MQTTSink {
	return &MQTTSink{
		client:    client,
		topic:     topic,
		qos:       qos,
		stationID: stationID,
		now:       time.Now,
	}
}

func (m *MQTTSink) Dispatch(ctx context.Context, message string) error {
	payload, err := json.Marshal(dispatchEnvelope{
		StationID: m.stationID,
		Timestamp: m.now().UTC(),
		Message:   message,
	})
	if err != nil {
		return fmt.Errorf("failed to serialize dispatch message: %w", err)
	}

	token := m.client.Publish(m.topic, byte(m.qos), false, payload)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	}

	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish dispatch message to %s: %w", m.topic, err)
	}
	return nil
}
