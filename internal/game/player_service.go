package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pixil98/go-gridworld/internal/logging"
	"github.com/pixil98/go-gridworld/internal/storage"
)

// PlayerService manages player positions and inventories.
type PlayerService struct {
	players storage.Storer[*PlayerState]
	rooms   *RoomService
	pub     Publisher
}

func NewPlayerService(players storage.Storer[*PlayerState], rooms *RoomService, pub Publisher) *PlayerService {
	if pub == nil {
		pub = discardPublisher{}
	}
	return &PlayerService{
		players: players,
		rooms:   rooms,
		pub:     pub,
	}
}

// GetOrCreate returns the player's state, creating it with the default
// position and an empty inventory the first time userId is seen.
func (s *PlayerService) GetOrCreate(ctx context.Context, userId string) (*PlayerState, error) {
	if !ValidUserId(userId) {
		return nil, NewUserError("A valid userId is required.")
	}

	ps, err := s.players.Get(ctx, userId)
	if err == nil {
		return ps, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("fetching player %s: %w", userId, err)
	}

	ps = NewPlayerState(userId, time.Now().UTC())
	err = s.players.Create(ctx, userId, ps)
	switch {
	case err == nil:
		logging.GetLogger(ctx).WithField("user_id", userId).Info("player created")
		s.publish(ctx, Event{Type: EventPlayerCreated, UserId: userId, RoomX: ps.RoomX, RoomY: ps.RoomY})
		return ps, nil

	case errors.Is(err, storage.ErrExists):
		ps, err = s.players.Get(ctx, userId)
		if err != nil {
			return nil, fmt.Errorf("fetching player %s after create conflict: %w", userId, err)
		}
		return ps, nil

	default:
		return nil, fmt.Errorf("creating player %s: %w", userId, err)
	}
}

// Get returns the player's state or ErrPlayerNotFound.
func (s *PlayerService) Get(ctx context.Context, userId string) (*PlayerState, error) {
	ps, err := s.players.Get(ctx, userId)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, userId)
	}
	if err != nil {
		return nil, fmt.Errorf("fetching player %s: %w", userId, err)
	}
	return ps, nil
}

// UpdatePosition moves an existing player. The destination tile must be a
// walkable cell of the destination room, which is created if nobody has
// visited it yet.
func (s *PlayerService) UpdatePosition(ctx context.Context, userId string, roomX, roomY, tileX, tileY int) (*PlayerState, error) {
	if !ValidUserId(userId) {
		return nil, NewUserError("A valid userId is required.")
	}

	// Checked before touching rooms so unknown players cannot generate the world.
	if _, err := s.Get(ctx, userId); err != nil {
		return nil, err
	}

	room, err := s.rooms.CreateOrFetch(ctx, roomX, roomY)
	if err != nil {
		return nil, err
	}

	if !room.Tilemap.InBounds(tileX, tileY) {
		return nil, wrapUserError(fmt.Sprintf("Tile (%d, %d) is outside the room.", tileX, tileY), ErrBlocked)
	}
	if !room.Tilemap.Walkable(tileX, tileY) {
		return nil, wrapUserError(fmt.Sprintf("Tile (%d, %d) is a wall.", tileX, tileY), ErrBlocked)
	}

	ps, err := s.players.Update(ctx, userId, func(ps *PlayerState) error {
		ps.RoomX, ps.RoomY = roomX, roomY
		ps.TileX, ps.TileY = tileX, tileY
		ps.UpdatedAt = time.Now().UTC()
		return nil
	})
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, userId)
	}
	if err != nil {
		return nil, fmt.Errorf("updating player %s: %w", userId, err)
	}

	s.publish(ctx, Event{Type: EventPlayerMoved, UserId: userId, RoomX: roomX, RoomY: roomY})
	return ps, nil
}

// AddItem appends item to the player's inventory in a single atomic update.
func (s *PlayerService) AddItem(ctx context.Context, userId string, item Item) error {
	_, err := s.players.Update(ctx, userId, func(ps *PlayerState) error {
		ps.Inventory.Add(item)
		ps.UpdatedAt = time.Now().UTC()
		return nil
	})
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, userId)
	}
	if err != nil {
		return fmt.Errorf("adding %q to player %s: %w", item.Name, userId, err)
	}
	return nil
}

func (s *PlayerService) publish(ctx context.Context, ev Event) {
	if err := s.pub.Publish(ctx, ev); err != nil {
		logging.GetLogger(ctx).WithError(err).WithField("event", ev.Type).Warn("publishing event")
	}
}
