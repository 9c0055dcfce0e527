package generator

type GeneratorOpt func(*Generator)

// WithSize sets the tilemap dimensions of generated rooms.
func WithSize(width, height int) GeneratorOpt {
	return func(g *Generator) {
		g.width = width
		g.height = height
	}
}

// WithWallChance sets the probability an interior cell becomes a wall.
func WithWallChance(p float64) GeneratorOpt {
	return func(g *Generator) {
		g.wallChance = p
	}
}

// WithItemChance sets the probability a room spawns an item.
func WithItemChance(p float64) GeneratorOpt {
	return func(g *Generator) {
		g.itemChance = p
	}
}

// WithPuzzleChance sets the probability a room asks the oracle for a riddle.
func WithPuzzleChance(p float64) GeneratorOpt {
	return func(g *Generator) {
		g.puzzleChance = p
	}
}

// WithRandom replaces the uniform [0, 1) source used for every draw.
func WithRandom(f func() float64) GeneratorOpt {
	return func(g *Generator) {
		g.random = f
	}
}
