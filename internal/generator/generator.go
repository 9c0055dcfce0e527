package generator

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/muesli/reflow/wordwrap"
	"github.com/pixil98/go-gridworld/internal/game"
	"github.com/pixil98/go-gridworld/internal/logging"
	"github.com/pixil98/go-gridworld/internal/oracle"
)

const (
	DefaultWallChance   = 0.1
	DefaultItemChance   = 0.2
	DefaultPuzzleChance = 0.2

	descriptionWidth = 80
)

// Generator builds the contents of never-visited rooms. It does not touch
// storage; the only I/O it performs is asking the oracle for text.
type Generator struct {
	width        int
	height       int
	wallChance   float64
	itemChance   float64
	puzzleChance float64

	oracle oracle.Oracle
	random func() float64
}

func NewGenerator(o oracle.Oracle, opts ...GeneratorOpt) *Generator {
	g := &Generator{
		width:        game.DefaultRoomWidth,
		height:       game.DefaultRoomHeight,
		wallChance:   DefaultWallChance,
		itemChance:   DefaultItemChance,
		puzzleChance: DefaultPuzzleChance,
		oracle:       o,
		random:       rand.Float64,
	}

	for _, opt := range opts {
		opt(g)
	}

	if g.oracle == nil {
		g.oracle = oracle.Unavailable{}
	}

	return g
}

// Generate satisfies game.RoomGenerator.
func (g *Generator) Generate(ctx context.Context, x, y int) game.RoomContents {
	c := game.RoomContents{
		Name:        fmt.Sprintf("Room (%d, %d)", x, y),
		Description: fmt.Sprintf("A newly formed mysterious space at (%d, %d).", x, y),
		Tilemap:     g.tilemap(),
	}

	if g.random() < g.itemChance {
		c.Items = []game.Item{game.ArtifactItem}
	}

	req := oracle.Request{
		X:      x,
		Y:      y,
		Width:  g.width,
		Height: g.height,
		Items:  itemNames(c.Items),
	}

	// The draw happens whether or not the oracle is up so the remaining rolls
	// do not depend on its availability.
	wantPuzzle := g.random() < g.puzzleChance
	if !g.oracle.Available() {
		return c
	}

	if desc, ok := g.oracle.Describe(ctx, req); ok {
		c.Description = wordwrap.String(desc, descriptionWidth)
	}

	if wantPuzzle {
		riddle, ok := g.oracle.Riddle(ctx, req)
		if ok {
			c.Puzzle = game.NewPuzzle(riddle.Question, riddle.Answer)
		} else {
			logging.GetLogger(ctx).WithField("room", game.RoomKey(x, y)).Debug("oracle gave no riddle, room has no puzzle")
		}
	}

	return c
}

func (g *Generator) tilemap() game.Tilemap {
	tm := game.NewTilemap(g.width, g.height)
	for y := range tm {
		for x := range tm[y] {
			switch {
			case tm.OnBorder(x, y):
				tm[y][x] = game.TileWall
			case x == game.DefaultTileX && y == game.DefaultTileY:
				// New players start here.
				tm[y][x] = game.TileFloor
			case g.random() < g.wallChance:
				tm[y][x] = game.TileWall
			default:
				tm[y][x] = game.TileFloor
			}
		}
	}
	return tm
}

func itemNames(items []game.Item) []string {
	names := make([]string, 0, len(items))
	for _, it := range items {
		names = append(names, it.Name)
	}
	return names
}
