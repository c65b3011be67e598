// Package nats publishes pipeline completion events. Delivery is
// best-effort; the pipeline result never depends on it.
package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/stratlab/strategic-agent/internal/core/domain"
)

type Config struct {
	URL     string
	Subject string
}

type Publisher struct {
	conn    *nats.Conn
	subject string
}

func NewPublisher(cfg Config) (*Publisher, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("nats: url is required")
	}
	if cfg.Subject == "" {
		return nil, fmt.Errorf("nats: subject is required")
	}

	conn, err := nats.Connect(cfg.URL,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.Timeout(5*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats: connect: %w", err)
	}
	return &Publisher{conn: conn, subject: cfg.Subject}, nil
}

func (p *Publisher) PublishPipelineCompleted(ctx context.Context, event domain.PipelineCompletedEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("nats: encode event: %w", err)
	}
	if err := p.conn.Publish(p.subject, payload); err != nil {
		return fmt.Errorf("nats: publish %s: %w", p.subject, err)
	}
	return nil
}

func (p *Publisher) Close() {
	if p.conn != nil {
		p.conn.Drain()
	}
}
