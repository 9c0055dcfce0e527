package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-gridworld/internal/messaging"
)

const maxPort = 65535

// NatsConfig configures the embedded NATS server that carries world events to
// /events feeds. The bus only serves this process, so by default it binds
// loopback on a port chosen by the server.
type NatsConfig struct {
	// Disabled runs without an event bus. Actions still succeed and
	// /events answers 503.
	Disabled bool `json:"disabled"`
	// Host defaults to 127.0.0.1.
	Host string `json:"host"`
	// Port 0 lets the server pick a free port (server.RANDOM_PORT).
	Port int `json:"port"`
	// StartTimeout is a duration string, 10s when empty.
	StartTimeout string `json:"start_timeout"`
}

func (n *NatsConfig) validate() error {
	if n.Disabled {
		return nil
	}

	el := errors.NewErrorList()

	if n.StartTimeout != "" {
		d, err := time.ParseDuration(n.StartTimeout)
		if err != nil {
			el.Add(fmt.Errorf("parsing start_timeout: %w", err))
		} else if d <= 0 {
			el.Add(fmt.Errorf("start_timeout must be positive"))
		}
	}
	if n.Port < 0 || n.Port > maxPort {
		el.Add(fmt.Errorf("port must be between 0 and %d", maxPort))
	}

	return el.Err()
}

// buildEvents returns the bus worker and the publisher that game services and
// the event feed share. Both are nil when the bus is disabled.
func (n *NatsConfig) buildEvents() (*messaging.NatsServer, *messaging.EventPublisher, error) {
	if n.Disabled {
		return nil, nil, nil
	}

	var opts []messaging.NatsServerOpt
	if n.StartTimeout != "" {
		d, err := time.ParseDuration(n.StartTimeout)
		if err != nil {
			return nil, nil, fmt.Errorf("parsing start_timeout: %w", err)
		}
		opts = append(opts, messaging.WithStartTimeout(d))
	}
	if n.Host != "" {
		opts = append(opts, messaging.WithHost(n.Host))
	}
	if n.Port != 0 {
		opts = append(opts, messaging.WithPort(n.Port))
	}

	s, err := messaging.NewNatsServer(opts...)
	if err != nil {
		return nil, nil, err
	}

	return s, messaging.NewEventPublisher(s), nil
}
