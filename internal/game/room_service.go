package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pixil98/go-gridworld/internal/logging"
	"github.com/pixil98/go-gridworld/internal/storage"
	"github.com/sirupsen/logrus"
)

// RoomGenerator produces the contents of a room visited for the first time.
type RoomGenerator interface {
	Generate(ctx context.Context, x, y int) RoomContents
}

// RoomService owns the create-or-fetch lifecycle of rooms.
type RoomService struct {
	rooms storage.Storer[*Room]
	gen   RoomGenerator
	pub   Publisher
}

func NewRoomService(rooms storage.Storer[*Room], gen RoomGenerator, pub Publisher) *RoomService {
	if pub == nil {
		pub = discardPublisher{}
	}
	return &RoomService{
		rooms: rooms,
		gen:   gen,
		pub:   pub,
	}
}

// CreateOrFetch returns the room at (x, y), generating and persisting it on
// first access. Concurrent first visits converge on whichever room reached the
// store first.
func (s *RoomService) CreateOrFetch(ctx context.Context, x, y int) (*Room, error) {
	key := RoomKey(x, y)

	room, err := s.rooms.Get(ctx, key)
	if err == nil {
		return room, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("fetching room %s: %w", key, err)
	}

	contents := s.gen.Generate(ctx, x, y)
	room = NewRoom(uuid.New().String(), x, y, contents, time.Now().UTC())

	err = s.rooms.Create(ctx, key, room)
	switch {
	case err == nil:
		logging.GetLogger(ctx).WithFields(logrus.Fields{
			"room":   key,
			"items":  len(room.Items),
			"puzzle": room.Puzzle != nil,
		}).Info("room created")

		s.publish(ctx, Event{Type: EventRoomCreated, RoomX: x, RoomY: y, Message: room.Name})
		return room, nil

	case errors.Is(err, storage.ErrExists):
		// Lost the race to another first visit; the stored room wins.
		room, err = s.rooms.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("fetching room %s after create conflict: %w", key, err)
		}
		return room, nil

	default:
		return nil, fmt.Errorf("creating room %s: %w", key, err)
	}
}

// Get returns the room at (x, y) without creating it.
func (s *RoomService) Get(ctx context.Context, x, y int) (*Room, error) {
	key := RoomKey(x, y)

	room, err := s.rooms.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching room %s: %w", key, err)
	}
	return room, nil
}

// update applies fn to the stored room at (x, y) atomically. Errors returned
// by fn are passed through unwrapped.
func (s *RoomService) update(ctx context.Context, x, y int, fn func(*Room) error) (*Room, error) {
	key := RoomKey(x, y)

	room, err := s.rooms.Update(ctx, key, fn)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	return room, nil
}

func (s *RoomService) publish(ctx context.Context, ev Event) {
	if err := s.pub.Publish(ctx, ev); err != nil {
		logging.GetLogger(ctx).WithError(err).WithField("event", ev.Type).Warn("publishing event")
	}
}
