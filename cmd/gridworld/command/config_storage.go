package command

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-gridworld/internal/game"
	"github.com/pixil98/go-gridworld/internal/storage"
	"github.com/pixil98/go-service"
)

type StorageDriver string

const (
	StorageDriverBolt StorageDriver = "bolt"
	StorageDriverFile StorageDriver = "file"

	roomsCollection   = "rooms"
	playersCollection = "player_states"

	defaultBoltTimeout = time.Second
)

type StorageConfig struct {
	Driver StorageDriver `json:"driver"`
	// Path is the database file for bolt and the root directory for file.
	Path string `json:"path"`
}

func (c *StorageConfig) validate() error {
	el := errors.NewErrorList()

	switch c.Driver {
	case StorageDriverBolt, StorageDriverFile:
	default:
		el.Add(fmt.Errorf("driver must be %q or %q, got %q", StorageDriverBolt, StorageDriverFile, c.Driver))
	}

	if c.Path == "" {
		el.Add(fmt.Errorf("path is required"))
	}

	return el.Err()
}

// Stores holds the two record collections of the world.
type Stores struct {
	Rooms   storage.Storer[*game.Room]
	Players storage.Storer[*game.PlayerState]

	// Closer is set when the backend holds resources that must be released
	// on shutdown.
	Closer service.Worker
}

func (c *StorageConfig) BuildStores() (*Stores, error) {
	switch c.Driver {
	case StorageDriverBolt:
		return c.buildBoltStores()
	case StorageDriverFile:
		return c.buildFileStores()
	default:
		return nil, fmt.Errorf("unknown storage driver: %q", c.Driver)
	}
}

func (c *StorageConfig) buildBoltStores() (*Stores, error) {
	if err := os.MkdirAll(filepath.Dir(c.Path), 0755); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}

	db, err := storage.OpenBolt(c.Path, defaultBoltTimeout)
	if err != nil {
		return nil, err
	}

	rooms, err := storage.NewBoltStore[*game.Room](db, roomsCollection)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating room store: %w", err)
	}
	players, err := storage.NewBoltStore[*game.PlayerState](db, playersCollection)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating player store: %w", err)
	}

	return &Stores{
		Rooms:   rooms,
		Players: players,
		Closer:  storage.NewBoltCloser(db),
	}, nil
}

func (c *StorageConfig) buildFileStores() (*Stores, error) {
	roomsPath := filepath.Join(c.Path, roomsCollection)
	playersPath := filepath.Join(c.Path, playersCollection)

	for _, p := range []string{roomsPath, playersPath} {
		if err := os.MkdirAll(p, 0755); err != nil {
			return nil, fmt.Errorf("creating storage directory: %w", err)
		}
	}

	rooms, err := storage.NewFileStore[*game.Room](roomsPath)
	if err != nil {
		return nil, fmt.Errorf("creating room store: %w", err)
	}
	players, err := storage.NewFileStore[*game.PlayerState](playersPath)
	if err != nil {
		return nil, fmt.Errorf("creating player store: %w", err)
	}

	return &Stores{
		Rooms:   rooms,
		Players: players,
	}, nil
}
