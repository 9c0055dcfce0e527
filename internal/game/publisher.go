package game

import "context"

type EventType string

const (
	EventRoomCreated   EventType = "room_created"
	EventPlayerCreated EventType = "player_created"
	EventPlayerMoved   EventType = "player_moved"
	EventPuzzleSolved  EventType = "puzzle_solved"
	EventItemsPickedUp EventType = "items_picked_up"
)

// Event describes a change to the world. UserId is empty for events no
// single player caused.
type Event struct {
	Type    EventType `json:"type"`
	UserId  string    `json:"user_id,omitempty"`
	RoomX   int       `json:"room_x"`
	RoomY   int       `json:"room_y"`
	Message string    `json:"message,omitempty"`
	Items   []Item    `json:"items,omitempty"`
}

// Publisher delivers world events to interested listeners. Delivery is best
// effort; world state never depends on it.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

type discardPublisher struct{}

func (discardPublisher) Publish(context.Context, Event) error { return nil }
