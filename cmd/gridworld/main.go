package main

import (
	"context"

	"github.com/pixil98/go-gridworld/cmd/gridworld/command"
	"github.com/pixil98/go-gridworld/internal/logging"
	"github.com/pixil98/go-service"
)

func main() {
	logger := logging.New(logging.Config{})

	app, err := service.NewApp(&command.Config{}, command.BuildWorkers)
	if err != nil {
		logger.WithError(err).Fatal("creating application")
	}

	err = app.Run(context.Background())
	if err != nil {
		logger.WithError(err).Fatal("running application")
	}

	logger.Info("exiting")
}
