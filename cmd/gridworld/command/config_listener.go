package command

import (
	"fmt"
	"net/http"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-gridworld/internal/listener"
)

type ListenerConfig struct {
	Port uint16 `json:"port"`
}

func (cl *ListenerConfig) validate() error {
	el := errors.NewErrorList()

	if cl.Port == 0 {
		el.Add(fmt.Errorf("port must be set to a positive integer"))
	}

	return el.Err()
}

// BuildListener serves h on the configured port. onShutdown runs when the
// listener begins draining.
func (cl *ListenerConfig) BuildListener(h http.Handler, onShutdown ...func()) *listener.HTTPListener {
	opts := make([]listener.HTTPListenerOpt, 0, len(onShutdown))
	for _, f := range onShutdown {
		opts = append(opts, listener.WithShutdownHook(f))
	}
	return listener.NewHTTPListener(cl.Port, h, opts...)
}
