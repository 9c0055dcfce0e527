package oracle

import "context"

// Request describes the room text is being generated for.
type Request struct {
	X      int
	Y      int
	Width  int
	Height int
	Items  []string
}

// Riddle is a question with a single word answer.
type Riddle struct {
	Question string
	Answer   string
}

// Oracle generates optional flavor text and riddles. Every call may come back
// empty handed: a false second return value means "nothing", never an error
// the caller has to handle.
type Oracle interface {
	// Available reports whether the oracle is configured at all.
	Available() bool
	// Riddle asks for a riddle for the room.
	Riddle(ctx context.Context, req Request) (Riddle, bool)
	// Describe asks for a short description of the room.
	Describe(ctx context.Context, req Request) (string, bool)
}

// Unavailable is the oracle used when no text generation is configured.
type Unavailable struct{}

func (Unavailable) Available() bool { return false }

func (Unavailable) Riddle(context.Context, Request) (Riddle, bool) { return Riddle{}, false }

func (Unavailable) Describe(context.Context, Request) (string, bool) { return "", false }
