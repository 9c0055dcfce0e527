package game

import (
	"fmt"
	"strings"

	"github.com/pixil98/go-errors"
	"golang.org/x/text/cases"
)

// PuzzleState is the lifecycle of a room's puzzle. Solved is terminal.
type PuzzleState int

const (
	PuzzleNone PuzzleState = iota
	PuzzleUnsolved
	PuzzleSolved
)

func (s PuzzleState) String() string {
	switch s {
	case PuzzleNone:
		return "none"
	case PuzzleUnsolved:
		return "unsolved"
	case PuzzleSolved:
		return "solved"
	default:
		return fmt.Sprintf("puzzle_state(%d)", int(s))
	}
}

// Puzzle is a riddle with a single word answer stored in canonical form.
type Puzzle struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Solved   bool   `json:"solved"`
}

// NewPuzzle canonicalises the answer of a freshly generated riddle.
func NewPuzzle(question, answer string) *Puzzle {
	return &Puzzle{
		Question: strings.TrimSpace(question),
		Answer:   CanonicalAnswer(answer),
	}
}

// CanonicalAnswer folds case and trims surrounding whitespace.
func CanonicalAnswer(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// Matches reports whether answer equals the stored answer, ignoring case.
func (p *Puzzle) Matches(answer string) bool {
	return CanonicalAnswer(answer) == CanonicalAnswer(p.Answer)
}

func (p *Puzzle) Validate() error {
	el := errors.NewErrorList()

	if p.Question == "" {
		el.Add(fmt.Errorf("puzzle question is required"))
	}
	if p.Answer == "" {
		el.Add(fmt.Errorf("puzzle answer is required"))
	} else if strings.ContainsAny(p.Answer, " \t\n") {
		el.Add(fmt.Errorf("puzzle answer must be a single word"))
	}

	return el.Err()
}
