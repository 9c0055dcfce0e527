package command

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-gridworld/internal/logging"
)

type Config struct {
	Log      logging.Config `json:"log"`
	Listener ListenerConfig `json:"listener"`
	Storage  StorageConfig  `json:"storage"`
	Nats     NatsConfig     `json:"nats"`
	Oracle   OracleConfig   `json:"oracle"`
	World    WorldConfig    `json:"world"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	if err := c.Log.Validate(); err != nil {
		el.Add(fmt.Errorf("log: %w", err))
	}
	if err := c.Listener.validate(); err != nil {
		el.Add(fmt.Errorf("listener: %w", err))
	}
	if err := c.Storage.validate(); err != nil {
		el.Add(fmt.Errorf("storage: %w", err))
	}
	if err := c.Nats.validate(); err != nil {
		el.Add(fmt.Errorf("nats: %w", err))
	}
	if err := c.Oracle.validate(); err != nil {
		el.Add(fmt.Errorf("oracle: %w", err))
	}
	if err := c.World.validate(); err != nil {
		el.Add(fmt.Errorf("world: %w", err))
	}

	return el.Err()
}
