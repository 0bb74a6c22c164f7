package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nguyentantai21042004/notetaker/internal/logger"
	"github.com/nguyentantai21042004/notetaker/internal/pipeline"
)

const (
	publishQoS     = 1
	publishTimeout = 5 * time.Second
)

// Options configures the MQTT status publisher.
type Options struct {
	BrokerURL string
	ClientID  string
	Topic     string
	Username  string
	Password  string
}

type mqttPublisher struct {
	conn   mqtt.Client
	topic  string
	logger logger.Logger
}

// Connect dials the broker. The client reconnects on its own after a lost
// connection.
func Connect(ctx context.Context, opts Options, log logger.Logger) (Publisher, error) {
	p := &mqttPublisher{topic: opts.Topic, logger: log}

	clientOpts := mqtt.NewClientOptions().
		AddBroker(opts.BrokerURL).
		SetClientID(opts.ClientID).
		SetAutoReconnect(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(func(mqtt.Client) {
			log.Info(ctx, "MQTT connected to %s", opts.BrokerURL)
		}).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.Warn(ctx, "MQTT connection lost, will auto-reconnect: %v", err)
		})

	if opts.Username != "" {
		clientOpts.SetUsername(opts.Username)
	}
	if opts.Password != "" {
		clientOpts.SetPassword(opts.Password)
	}

	p.conn = mqtt.NewClient(clientOpts)
	token := p.conn.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to %s: %w", opts.BrokerURL, err)
	}
	return p, nil
}

// Publish sends the status view as a retained message so late subscribers
// see the current state.
func (p *mqttPublisher) Publish(ctx context.Context, status pipeline.Status) error {
	payload, err := json.Marshal(status.View())
	if err != nil {
		return fmt.Errorf("marshal status: %w", err)
	}

	token := p.conn.Publish(p.topic, publishQoS, true, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish to %s: timed out after %s", p.topic, publishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", p.topic, err)
	}

	p.logger.Debug(ctx, "Published %s status to %s", status.Phase, p.topic)
	return nil
}

func (p *mqttPublisher) Close() {
	p.conn.Disconnect(1000)
}
