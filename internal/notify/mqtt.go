// Package notify publishes cache-invalidation signals after a successful
// execution submission so dependent views (plan list, calendar, history)
// refresh. Delivery is fire-and-forget; the engine never waits on it.
package notify

import (
	"fmt"
	"os"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
)

// MQTTInvalidator publishes invalidation messages to
// maintenance/<company>/invalidate with QoS 0.
type MQTTInvalidator struct {
	client mqtt.Client
}

// NewMQTTInvalidator connects to the broker named by MQTT_BROKER_URL. When the
// variable is unset it returns a nil invalidator, which disables the signal.
func NewMQTTInvalidator() (*MQTTInvalidator, error) {
	brokerURL := os.Getenv("MQTT_BROKER_URL")
	if brokerURL == "" {
		return nil, nil
	}
	clientID := os.Getenv("MQTT_CLIENT_ID")
	if clientID == "" {
		clientID = "plant-maintenance-api"
	}

	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientID).
		SetConnectTimeout(5 * time.Second).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("mqtt connect timed out")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect error: %w", err)
	}
	return &MQTTInvalidator{client: client}, nil
}

// Invalidate signals that the company's maintenance views are out of date.
// Errors are logged and dropped.
func (i *MQTTInvalidator) Invalidate(companyID string) {
	if i == nil || i.client == nil {
		return
	}
	topic := fmt.Sprintf("maintenance/%s/invalidate", companyID)
	token := i.client.Publish(topic, 0, false, time.Now().UTC().Format(time.RFC3339))
	go func() {
		if token.Wait() && token.Error() != nil {
			log.WithError(token.Error()).WithField("topic", topic).Warn("invalidation publish failed")
		}
	}()
}

// Close disconnects from the broker.
func (i *MQTTInvalidator) Close() {
	if i == nil || i.client == nil {
		return
	}
	i.client.Disconnect(250)
}
