package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"gazecenter/internal/errors"
	"gazecenter/ports"
)

// Publisher sends each completed summary as JSON to one topic
type Publisher struct {
	client  paho.Client
	topic   string
	timeout time.Duration
}

// NewPublisher connects to broker (e.g. tcp://localhost:1883)
func NewPublisher(broker, clientID, topic string) (*Publisher, error) {
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(5 * time.Second)

	client := paho.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, errors.ExternalServiceError("mqtt", token.Error())
	}
	return &Publisher{client: client, topic: topic, timeout: 5 * time.Second}, nil
}

// Publish sends one summary with QoS 0
func (p *Publisher) Publish(ctx context.Context, record ports.SummaryRecord) error {
	payload, err := EncodeSummary(record)
	if err != nil {
		return err
	}

	token := p.client.Publish(p.topic, 0, false, payload)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(p.timeout):
		return errors.ExternalServiceError("mqtt", fmt.Errorf("publish to %s timed out", p.topic))
	}
	if token.Error() != nil {
		return errors.ExternalServiceError("mqtt", token.Error())
	}
	return nil
}

// Close disconnects from the broker
func (p *Publisher) Close() {
	p.client.Disconnect(250)
}

// EncodeSummary is the wire format of a published summary
func EncodeSummary(record ports.SummaryRecord) ([]byte, error) {
	payload, err := json.Marshal(record)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode summary")
	}
	return payload, nil
}
