package messaging

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/stan.go"
)

type Config struct {
	URL       string
	ClusterID string
	ClientID  string
}

// NATSClient publishes domain events. Publishing is best-effort everywhere
// it is used: a failed publish is logged and never fails the operation
// that produced the event.
type NATSClient struct {
	conn stan.Conn
}

func NewNATSClient(cfg Config) (*NATSClient, error) {
	conn, err := stan.Connect(cfg.ClusterID, cfg.ClientID, stan.NatsURL(cfg.URL))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS Streaming: %w", err)
	}

	slog.Info("Connected to NATS Streaming",
		"url", cfg.URL, "cluster_id", cfg.ClusterID, "client_id", cfg.ClientID)

	return &NATSClient{conn: conn}, nil
}

func (nc *NATSClient) Publish(subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	if err := nc.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("failed to publish to subject %s: %w", subject, err)
	}

	return nil
}

func (nc *NATSClient) Close() error {
	if nc.conn != nil {
		return nc.conn.Close()
	}
	return nil
}
