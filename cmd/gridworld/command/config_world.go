package command

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-gridworld/internal/generator"
	"github.com/pixil98/go-gridworld/internal/oracle"
)

type WorldConfig struct {
	Width        int      `json:"width"`
	Height       int      `json:"height"`
	WallChance   *float64 `json:"wall_chance"`
	ItemChance   *float64 `json:"item_chance"`
	PuzzleChance *float64 `json:"puzzle_chance"`
}

func (c *WorldConfig) validate() error {
	el := errors.NewErrorList()

	if c.Width != 0 && c.Width < 3 {
		el.Add(fmt.Errorf("width must be at least 3"))
	}
	if c.Height != 0 && c.Height < 3 {
		el.Add(fmt.Errorf("height must be at least 3"))
	}

	for name, p := range map[string]*float64{
		"wall_chance":   c.WallChance,
		"item_chance":   c.ItemChance,
		"puzzle_chance": c.PuzzleChance,
	} {
		if p != nil && (*p < 0 || *p > 1) {
			el.Add(fmt.Errorf("%s must be between 0 and 1", name))
		}
	}

	return el.Err()
}

func (c *WorldConfig) BuildGenerator(o oracle.Oracle) *generator.Generator {
	var opts []generator.GeneratorOpt
	if c.Width != 0 || c.Height != 0 {
		w, h := c.Width, c.Height
		if w == 0 {
			w = c.Height
		}
		if h == 0 {
			h = c.Width
		}
		opts = append(opts, generator.WithSize(w, h))
	}
	if c.WallChance != nil {
		opts = append(opts, generator.WithWallChance(*c.WallChance))
	}
	if c.ItemChance != nil {
		opts = append(opts, generator.WithItemChance(*c.ItemChance))
	}
	if c.PuzzleChance != nil {
		opts = append(opts, generator.WithPuzzleChance(*c.PuzzleChance))
	}

	return generator.NewGenerator(o, opts...)
}
