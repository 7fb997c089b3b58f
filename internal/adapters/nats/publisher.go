package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/aldasoro/geobridge/internal/core/domain"
)

// Subjects and stream carrying map platform events. Other services (tile
// renderers, print workers) subscribe to learn that the projection registry
// has been validated for the session.
const (
	streamName        = "MAP_EVENTS"
	subjectReconciled = "map.projection.reconciled"
)

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and ensures the map events stream exists.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	cfg := nats.StreamConfig{
		Name:      streamName,
		Subjects:  []string{"map.projection.>"},
		Retention: nats.InterestPolicy,
		MaxAge:    24 * time.Hour,
		Storage:   nats.FileStorage,
	}
	if _, err := js.AddStream(&cfg); err != nil {
		// Stream may already exist, try update
		if _, err := js.UpdateStream(&cfg); err != nil {
			return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

// PublishReconciliation announces the outcome of the startup axis-order
// reconciliation run.
func (p *Publisher) PublishReconciliation(ctx context.Context, report *domain.ReconciliationReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(subjectReconciled, data, nats.Context(ctx))
	return err
}

// IsConnected reports broker connectivity for readiness checks.
func (p *Publisher) IsConnected() bool {
	return p.conn.IsConnected()
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}
