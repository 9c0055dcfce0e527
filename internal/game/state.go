package game

import (
	"fmt"
	"regexp"
	"time"

	"github.com/pixil98/go-errors"
)

const (
	DefaultTileX = 1
	DefaultTileY = 1
)

var userIdPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// ValidUserId reports whether id is usable as a player key. Ids are chosen by
// the client and are not authenticated.
func ValidUserId(id string) bool {
	return userIdPattern.MatchString(id)
}

// PlayerState is a player's persisted position and inventory.
type PlayerState struct {
	UserId    string    `json:"user_id"`
	RoomX     int       `json:"room_x"`
	RoomY     int       `json:"room_y"`
	TileX     int       `json:"tile_x"`
	TileY     int       `json:"tile_y"`
	Inventory Inventory `json:"inventory"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewPlayerState returns the state every new player starts with.
func NewPlayerState(userId string, now time.Time) *PlayerState {
	return &PlayerState{
		UserId:    userId,
		TileX:     DefaultTileX,
		TileY:     DefaultTileY,
		Inventory: Inventory{},
		UpdatedAt: now,
	}
}

// Validate satisfies storage.ValidatingSpec.
func (p *PlayerState) Validate() error {
	if p == nil {
		return fmt.Errorf("player state is missing")
	}

	el := errors.NewErrorList()

	if !ValidUserId(p.UserId) {
		el.Add(fmt.Errorf("user_id %q is invalid", p.UserId))
	}
	if p.TileX < 0 || p.TileY < 0 {
		el.Add(fmt.Errorf("tile position (%d, %d) must not be negative", p.TileX, p.TileY))
	}

	return el.Err()
}
