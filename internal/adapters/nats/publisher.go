package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/dmarroquin/warehousewatch/internal/core/domain"
	"github.com/dmarroquin/warehousewatch/internal/pkg/metrics"
)

// Subjects relayed to WebSocket clients.
const (
	SubjectIngested = "warehouse.ingested."
	SubjectAlerts   = "warehouse.alerts."
)

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and enables JetStream.
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

	// Ensure streams exist
	streams := []nats.StreamConfig{
		{
			Name:      "WAREHOUSE_INGEST",
			Subjects:  []string{"warehouse.ingested.>"},
			Retention: nats.InterestPolicy,
			MaxAge:    24 * time.Hour,
			Storage:   nats.FileStorage,
		},
		{
			Name:      "WAREHOUSE_ALERTS",
			Subjects:  []string{"warehouse.alerts.>"},
			Retention: nats.InterestPolicy,
			MaxAge:    1 * time.Hour,
			Storage:   nats.FileStorage,
		},
	}

	for _, cfg := range streams {
		if _, err := js.AddStream(&cfg); err != nil {
			// Stream may already exist, try update
			if _, err := js.UpdateStream(&cfg); err != nil {
				return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
			}
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

// PublishWarehouseIngested announces a newly ingested or updated warehouse.
func (p *Publisher) PublishWarehouseIngested(ctx context.Context, w *domain.Warehouse) error {
	data, err := json.Marshal(w)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(SubjectIngested+w.ID, data)
	return err
}

// PublishProximityAlert announces a warehouse found inside the alert radius.
func (p *Publisher) PublishProximityAlert(ctx context.Context, alert *domain.ProximityAlert) error {
	data, err := json.Marshal(alert)
	if err != nil {
		return err
	}
	if _, err := p.js.Publish(SubjectAlerts+alert.WarehouseID, data); err != nil {
		return err
	}
	metrics.ProximityAlerts.Inc()
	return nil
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
	p.conn.Close()
}

// RawConn returns a plain NATS connection for the WebSocket relay.
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
