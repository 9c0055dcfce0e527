package game

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
)

const (
	DefaultRoomWidth  = 10
	DefaultRoomHeight = 10
)

// Tile is a single cell of a room's tilemap.
type Tile int

const (
	TileFloor Tile = iota
	TileWall
)

func (t Tile) String() string {
	switch t {
	case TileFloor:
		return "floor"
	case TileWall:
		return "wall"
	default:
		return fmt.Sprintf("tile(%d)", int(t))
	}
}

// Tilemap is a rectangular grid of tiles indexed [y][x].
type Tilemap [][]Tile

// NewTilemap returns a width x height tilemap of floor tiles.
func NewTilemap(width, height int) Tilemap {
	tm := make(Tilemap, height)
	for y := range tm {
		tm[y] = make([]Tile, width)
	}
	return tm
}

func (tm Tilemap) Width() int {
	if len(tm) == 0 {
		return 0
	}
	return len(tm[0])
}

func (tm Tilemap) Height() int {
	return len(tm)
}

// InBounds reports whether (x, y) addresses a cell of the tilemap.
func (tm Tilemap) InBounds(x, y int) bool {
	return y >= 0 && y < tm.Height() && x >= 0 && x < tm.Width()
}

// At returns the tile at (x, y). Out of bounds cells read as walls.
func (tm Tilemap) At(x, y int) Tile {
	if !tm.InBounds(x, y) {
		return TileWall
	}
	return tm[y][x]
}

// Walkable reports whether a player may stand on (x, y).
func (tm Tilemap) Walkable(x, y int) bool {
	return tm.At(x, y) != TileWall
}

// OnBorder reports whether (x, y) lies on the outer ring.
func (tm Tilemap) OnBorder(x, y int) bool {
	return x == 0 || y == 0 || x == tm.Width()-1 || y == tm.Height()-1
}

// Validate checks the tilemap is rectangular and its outer ring is walled.
func (tm Tilemap) Validate() error {
	el := errors.NewErrorList()

	if tm.Height() < 3 || tm.Width() < 3 {
		el.Add(fmt.Errorf("tilemap must be at least 3x3, got %dx%d", tm.Width(), tm.Height()))
		return el.Err()
	}

	for y, row := range tm {
		if len(row) != tm.Width() {
			el.Add(fmt.Errorf("tilemap row %d has width %d, expected %d", y, len(row), tm.Width()))
			continue
		}
		for x, t := range row {
			if tm.OnBorder(x, y) && t != TileWall {
				el.Add(fmt.Errorf("border cell (%d, %d) must be a wall", x, y))
			}
		}
	}

	return el.Err()
}

// RoomKey is the storage key for the room at (x, y).
func RoomKey(x, y int) string {
	return fmt.Sprintf("%d_%d", x, y)
}

// RoomContents is everything generated for a room on its first visit.
type RoomContents struct {
	Name        string
	Description string
	Tilemap     Tilemap
	Items       []Item
	Puzzle      *Puzzle
}

// Room is one persisted cell of the world grid. The tilemap is fixed at
// creation; only Items and Puzzle.Solved change afterwards.
type Room struct {
	Id          string    `json:"id"`
	X           int       `json:"x"`
	Y           int       `json:"y"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Tilemap     Tilemap   `json:"tilemap"`
	Items       []Item    `json:"items"`
	Puzzle      *Puzzle   `json:"puzzle"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewRoom builds the room at (x, y) from freshly generated contents.
func NewRoom(id string, x, y int, c RoomContents, now time.Time) *Room {
	items := c.Items
	if items == nil {
		items = []Item{}
	}
	return &Room{
		Id:          id,
		X:           x,
		Y:           y,
		Name:        c.Name,
		Description: c.Description,
		Tilemap:     c.Tilemap,
		Items:       items,
		Puzzle:      c.Puzzle,
		CreatedAt:   now,
	}
}

// Validate satisfies storage.ValidatingSpec.
func (r *Room) Validate() error {
	if r == nil {
		return fmt.Errorf("room is missing")
	}

	el := errors.NewErrorList()

	el.Add(r.Tilemap.Validate())

	for i, item := range r.Items {
		if item.Name == "" {
			el.Add(fmt.Errorf("item %d: name is required", i))
		}
	}

	if r.Puzzle != nil {
		el.Add(r.Puzzle.Validate())
	}

	return el.Err()
}

// PuzzleState reports where the room's puzzle is in its lifecycle.
func (r *Room) PuzzleState() PuzzleState {
	if r.Puzzle == nil {
		return PuzzleNone
	}
	if r.Puzzle.Solved {
		return PuzzleSolved
	}
	return PuzzleUnsolved
}
