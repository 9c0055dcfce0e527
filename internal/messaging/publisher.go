package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/pixil98/go-gridworld/internal/game"
)

const subjectPrefix = "gridworld"

// Envelope is the wire form of a published game event.
type Envelope struct {
	Id   string     `json:"id"`
	Time time.Time  `json:"time"`
	Data game.Event `json:"data"`
}

// Bus is the subset of NatsServer used to move events around.
type Bus interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, handler func(data []byte)) (func(), error)
}

// EventPublisher publishes game events to the player and room subjects they
// concern.
type EventPublisher struct {
	bus Bus
}

// NewEventPublisher wraps a bus for game event delivery.
func NewEventPublisher(bus Bus) *EventPublisher {
	return &EventPublisher{bus: bus}
}

// Publish satisfies game.Publisher.
func (p *EventPublisher) Publish(_ context.Context, ev game.Event) error {
	now := time.Now().UTC()
	data, err := json.Marshal(Envelope{
		Id:   ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		Time: now,
		Data: ev,
	})
	if err != nil {
		return fmt.Errorf("marshalling event: %w", err)
	}

	var errs error
	if ev.UserId != "" {
		errs = errors.Join(errs, p.bus.Publish(PlayerSubject(ev.UserId), data))
	}
	errs = errors.Join(errs, p.bus.Publish(RoomSubject(ev.RoomX, ev.RoomY), data))
	return errs
}

// SubscribePlayer delivers every event concerning userId to handler until the
// returned function is called.
func (p *EventPublisher) SubscribePlayer(userId string, handler func(Envelope)) (func(), error) {
	return p.bus.Subscribe(PlayerSubject(userId), func(data []byte) {
		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			return
		}
		handler(env)
	})
}

func PlayerSubject(userId string) string {
	return fmt.Sprintf("%s.player.%s", subjectPrefix, userId)
}

func RoomSubject(x, y int) string {
	return fmt.Sprintf("%s.room.%d.%d", subjectPrefix, x, y)
}
