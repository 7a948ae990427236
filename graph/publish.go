package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// GraphIngestSubject is the NATS subject for graph ingestion.
const GraphIngestSubject = "graph.ingest.entity"

// Conn is the subset of *nats.Conn used for publishing.
type Conn interface {
	Publish(subject string, data []byte) error
}

// Publisher sends assessed systems to the knowledge graph bus.
type Publisher struct {
	conn    Conn
	subject string
	source  string
	logger  *slog.Logger
}

// NewPublisher creates a publisher over conn. A nil conn yields a publisher
// whose Publish is a no-op, so callers need not branch on connectivity.
func NewPublisher(conn Conn, source string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	if source == "" {
		source = "semcomply"
	}
	return &Publisher{conn: conn, subject: GraphIngestSubject, source: source, logger: logger}
}

// WithSubject overrides the subject payloads are published on. An empty
// subject keeps the current one.
func (p *Publisher) WithSubject(subject string) *Publisher {
	if subject != "" {
		p.subject = subject
	}
	return p
}

// Enabled reports whether the publisher has a connection.
func (p *Publisher) Enabled() bool {
	return p != nil && p.conn != nil
}

// PublishSystem publishes every local fact about subject in g.
func (p *Publisher) PublishSystem(ctx context.Context, g *Graph, subject string) error {
	return p.Publish(ctx, subject, g.SubjectFacts(subject))
}

// Publish sends facts about subject as one EntityPayload.
func (p *Publisher) Publish(ctx context.Context, subject string, facts []Fact) error {
	if !p.Enabled() {
		return nil // Skip publishing if no NATS connection (graceful degradation)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	payload := NewEntityPayload(subject, p.source, facts, time.Now())
	if err := payload.Validate(); err != nil {
		return fmt.Errorf("validate entity %s: %w", subject, err)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal entity %s: %w", subject, err)
	}

	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("publish entity %s: %w", subject, err)
	}

	p.logger.Debug("Published entity",
		slog.String("subject", p.subject),
		slog.String("entity", subject),
		slog.Int("triples", len(facts)))
	return nil
}
