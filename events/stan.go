package events

import (
	"context"
	"encoding/json"

	stan "github.com/nats-io/stan.go"
	"github.com/rs/zerolog"
)

type stanPublisher interface {
	Publish(subject string, data []byte) error
}

// StanPublisher publishes events as JSON on NATS Streaming subjects named
// prefix + event.
type StanPublisher struct {
	conn   stanPublisher
	prefix string
	logger zerolog.Logger
}

func NewStanPublisher(conn stan.Conn, prefix string, logger zerolog.Logger) *StanPublisher {
	return newStanPublisher(conn, prefix, logger)
}

func newStanPublisher(conn stanPublisher, prefix string, logger zerolog.Logger) *StanPublisher {
	return &StanPublisher{conn: conn, prefix: prefix, logger: logger}
}

// Dispatch blocks until the streaming server acknowledges the message.
func (p *StanPublisher) Dispatch(ctx context.Context, event string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		p.logger.Warn().Err(err).Str("event", event).Msg("encoding cart event")
		return
	}
	if err := p.conn.Publish(p.prefix+event, body); err != nil {
		p.logger.Warn().Err(err).Str("event", event).Msg("publishing cart event to nats streaming")
	}
}
