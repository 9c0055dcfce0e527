package command

import (
	"fmt"
	"os"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-gridworld/internal/oracle"
)

const defaultAPIKeyEnv = "OPENAI_API_KEY"

type OracleConfig struct {
	Enabled   bool   `json:"enabled"`
	Endpoint  string `json:"endpoint"`
	Model     string `json:"model"`
	APIKeyEnv string `json:"api_key_env"`
	Timeout   string `json:"timeout"`

	DescribeTemplate string `json:"describe_template,omitempty"`
	RiddleTemplate   string `json:"riddle_template,omitempty"`
}

func (c *OracleConfig) validate() error {
	el := errors.NewErrorList()

	if c.Timeout != "" {
		d, err := time.ParseDuration(c.Timeout)
		if err != nil {
			el.Add(fmt.Errorf("parsing timeout: %w", err))
		} else if d <= 0 {
			el.Add(fmt.Errorf("timeout must be positive"))
		}
	}

	return el.Err()
}

// BuildOracle returns the configured oracle. A disabled oracle, or one whose
// API key is not set, is reported as unavailable rather than failing startup.
func (c *OracleConfig) BuildOracle() (oracle.Oracle, error) {
	if !c.Enabled {
		return oracle.Unavailable{}, nil
	}

	keyEnv := c.APIKeyEnv
	if keyEnv == "" {
		keyEnv = defaultAPIKeyEnv
	}

	opts := []oracle.ChatOracleOpt{
		oracle.WithTemplates(c.DescribeTemplate, c.RiddleTemplate),
	}
	if c.Endpoint != "" {
		opts = append(opts, oracle.WithEndpoint(c.Endpoint))
	}
	if c.Model != "" {
		opts = append(opts, oracle.WithModel(c.Model))
	}
	if c.Timeout != "" {
		d, err := time.ParseDuration(c.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parsing timeout: %w", err)
		}
		opts = append(opts, oracle.WithTimeout(d))
	}

	o, err := oracle.NewChatOracle(os.Getenv(keyEnv), opts...)
	if err != nil {
		return nil, fmt.Errorf("creating oracle: %w", err)
	}

	return o, nil
}
