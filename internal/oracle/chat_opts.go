package oracle

import (
	"net/http"
	"time"
)

type ChatOracleOpt func(*ChatOracle)

// WithEndpoint sets the chat completions URL.
func WithEndpoint(url string) ChatOracleOpt {
	return func(o *ChatOracle) {
		o.endpoint = url
	}
}

// WithModel sets the model name sent with every request.
func WithModel(model string) ChatOracleOpt {
	return func(o *ChatOracle) {
		o.model = model
	}
}

// WithTimeout bounds each call to the endpoint.
func WithTimeout(d time.Duration) ChatOracleOpt {
	return func(o *ChatOracle) {
		o.timeout = d
	}
}

// WithHTTPClient replaces the default http client.
func WithHTTPClient(c *http.Client) ChatOracleOpt {
	return func(o *ChatOracle) {
		o.client = c
	}
}

// WithTemplates overrides the description and riddle prompt templates. Empty
// strings keep the defaults.
func WithTemplates(describe, riddle string) ChatOracleOpt {
	return func(o *ChatOracle) {
		if describe != "" {
			o.describeTemplate = describe
		}
		if riddle != "" {
			o.riddleTemplate = riddle
		}
	}
}
