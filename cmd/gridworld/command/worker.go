package command

import (
	"context"
	"fmt"

	"github.com/pixil98/go-gridworld/internal/api"
	"github.com/pixil98/go-gridworld/internal/game"
	"github.com/pixil98/go-gridworld/internal/logging"
	"github.com/pixil98/go-service"
	svc "github.com/pixil98/go-service"
	"github.com/sirupsen/logrus"
)

func BuildWorkers(config interface{}) (svc.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	logger := logging.New(cfg.Log)

	// Storage
	stores, err := cfg.Storage.BuildStores()
	if err != nil {
		return nil, fmt.Errorf("creating stores: %w", err)
	}

	// Event bus. Left as nil interfaces when disabled so services fall back
	// to discarding events and /events reports the feed as off.
	nats, bus, err := cfg.Nats.buildEvents()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}
	var events interface {
		game.Publisher
		api.EventSource
	}
	if bus != nil {
		events = bus
	} else {
		logger.Warn("event bus disabled, /events will be unavailable")
	}

	// Room generation
	o, err := cfg.Oracle.BuildOracle()
	if err != nil {
		return nil, fmt.Errorf("creating oracle: %w", err)
	}
	if !o.Available() {
		logger.Warn("oracle unavailable, rooms will use default text and carry no puzzles")
	}
	gen := cfg.World.BuildGenerator(o)

	// Game services
	rooms := game.NewRoomService(stores.Rooms, gen, events)
	players := game.NewPlayerService(stores.Players, rooms, events)
	engine := game.NewInteractionEngine(rooms, players, events)

	server := api.NewServer(rooms, players, engine, events, logger)

	workers := svc.WorkerList{
		"http": &loggedWorker{logger: logger.WithField("worker", "http"), w: cfg.Listener.BuildListener(server, server.CloseFeeds)},
	}
	if nats != nil {
		workers["nats"] = &loggedWorker{logger: logger.WithField("worker", "nats"), w: nats}
	}
	if stores.Closer != nil {
		workers["storage"] = &loggedWorker{logger: logger.WithField("worker", "storage"), w: stores.Closer}
	}

	return workers, nil
}

// loggedWorker hands the service logger to a worker through its context.
type loggedWorker struct {
	logger logrus.FieldLogger
	w      service.Worker
}

func (l *loggedWorker) Start(ctx context.Context) error {
	return l.w.Start(logging.WithLogger(ctx, l.logger))
}
