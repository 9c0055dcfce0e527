package game

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pixil98/go-gridworld/internal/logging"
	"github.com/sirupsen/logrus"
)

const (
	msgNoAnswer         = "No answer provided."
	msgNoUnsolvedPuzzle = "No unsolved puzzle here."
	msgIncorrectAnswer  = "Incorrect answer."
	msgPuzzleSolved     = "Puzzle solved! You gained a Puzzle Token."
	msgNoItems          = "No items here."
	msgPickedUpTemplate = "You picked up %d item(s)."
	msgLeftBehindSuffix = " %d item(s) could not be carried and were left in the room."
)

// settleTimeout bounds the grant and restore steps that follow a committed
// room change. They run detached from the caller so a dropped request cannot
// strand items or rewards between the room and the player.
const settleTimeout = 10 * time.Second

// Sentinels used to abort conditional room updates without writing.
var (
	errNoUnsolvedPuzzle = errors.New("no unsolved puzzle")
	errWrongAnswer      = errors.New("wrong answer")
	errNoItems          = errors.New("no items")
)

// ActionResult is the outcome of a player action. A false Success is a normal
// game response, not an error.
type ActionResult struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Granted  []Item `json:"granted,omitempty"`
	Returned []Item `json:"returned,omitempty"`
}

// InteractionEngine applies puzzle and pickup actions to rooms and players.
type InteractionEngine struct {
	rooms   *RoomService
	players *PlayerService
	pub     Publisher
}

func NewInteractionEngine(rooms *RoomService, players *PlayerService, pub Publisher) *InteractionEngine {
	if pub == nil {
		pub = discardPublisher{}
	}
	return &InteractionEngine{
		rooms:   rooms,
		players: players,
		pub:     pub,
	}
}

// SolvePuzzle checks answer against the riddle in room (roomX, roomY). The
// first correct answer marks the puzzle solved and earns a Puzzle Token; every
// other attempt leaves the room untouched.
func (e *InteractionEngine) SolvePuzzle(ctx context.Context, roomX, roomY int, userId, answer string) (ActionResult, error) {
	if strings.TrimSpace(answer) == "" {
		return ActionResult{}, NewUserError(msgNoAnswer)
	}

	if _, err := e.players.GetOrCreate(ctx, userId); err != nil {
		return ActionResult{}, err
	}

	_, err := e.rooms.update(ctx, roomX, roomY, func(r *Room) error {
		if r.PuzzleState() != PuzzleUnsolved {
			return errNoUnsolvedPuzzle
		}
		if !r.Puzzle.Matches(answer) {
			return errWrongAnswer
		}
		r.Puzzle.Solved = true
		return nil
	})
	switch {
	case errors.Is(err, ErrRoomNotFound), errors.Is(err, errNoUnsolvedPuzzle):
		return ActionResult{Message: msgNoUnsolvedPuzzle}, nil
	case errors.Is(err, errWrongAnswer):
		return ActionResult{Message: msgIncorrectAnswer}, nil
	case err != nil:
		return ActionResult{}, fmt.Errorf("solving puzzle in room %s: %w", RoomKey(roomX, roomY), err)
	}

	settleCtx, cancel := settleContext(ctx)
	defer cancel()

	err = e.players.AddItem(settleCtx, userId, PuzzleTokenItem)
	if err != nil {
		// Reopen the puzzle so the reward is not lost with it.
		_, rbErr := e.rooms.update(settleCtx, roomX, roomY, func(r *Room) error {
			if r.Puzzle != nil {
				r.Puzzle.Solved = false
			}
			return nil
		})
		if rbErr != nil {
			err = errors.Join(err, fmt.Errorf("reopening puzzle: %w", rbErr))
		}
		return ActionResult{}, fmt.Errorf("granting puzzle token: %w", err)
	}

	logging.GetLogger(ctx).WithFields(logrus.Fields{
		"room":    RoomKey(roomX, roomY),
		"user_id": userId,
	}).Info("puzzle solved")

	e.publish(ctx, Event{
		Type:    EventPuzzleSolved,
		UserId:  userId,
		RoomX:   roomX,
		RoomY:   roomY,
		Message: msgPuzzleSolved,
		Items:   []Item{PuzzleTokenItem},
	})

	return ActionResult{
		Success: true,
		Message: msgPuzzleSolved,
		Granted: []Item{PuzzleTokenItem},
	}, nil
}

// PickUpItems moves every item in room (roomX, roomY) into the player's
// inventory. Items are taken from the room in one atomic step and granted one
// at a time; any item that cannot be granted is put back in the room.
func (e *InteractionEngine) PickUpItems(ctx context.Context, roomX, roomY int, userId string) (ActionResult, error) {
	if _, err := e.players.GetOrCreate(ctx, userId); err != nil {
		return ActionResult{}, err
	}

	var taken []Item
	_, err := e.rooms.update(ctx, roomX, roomY, func(r *Room) error {
		if len(r.Items) == 0 {
			return errNoItems
		}
		taken = r.Items
		r.Items = []Item{}
		return nil
	})
	switch {
	case errors.Is(err, ErrRoomNotFound), errors.Is(err, errNoItems):
		return ActionResult{Message: msgNoItems}, nil
	case err != nil:
		return ActionResult{}, fmt.Errorf("taking items from room %s: %w", RoomKey(roomX, roomY), err)
	}

	logger := logging.GetLogger(ctx).WithFields(logrus.Fields{
		"room":    RoomKey(roomX, roomY),
		"user_id": userId,
	})

	settleCtx, cancel := settleContext(ctx)
	defer cancel()

	var granted, returned []Item
	var grantErr error
	for _, item := range taken {
		if err := e.players.AddItem(settleCtx, userId, item); err != nil {
			logger.WithError(err).WithField("item", item.Name).Warn("granting item")
			grantErr = errors.Join(grantErr, err)
			returned = append(returned, item)
			continue
		}
		granted = append(granted, item)
	}

	if len(returned) > 0 {
		_, err := e.rooms.update(settleCtx, roomX, roomY, func(r *Room) error {
			r.Items = append(r.Items, returned...)
			return nil
		})
		if err != nil {
			logger.WithError(err).WithField("items", len(returned)).Error("returning items to room")
			return ActionResult{}, fmt.Errorf("returning %d item(s) to room %s: %w", len(returned), RoomKey(roomX, roomY), errors.Join(grantErr, err))
		}
	}

	if len(granted) == 0 {
		return ActionResult{}, fmt.Errorf("granting items: %w", grantErr)
	}

	msg := fmt.Sprintf(msgPickedUpTemplate, len(granted))
	if len(returned) > 0 {
		msg += fmt.Sprintf(msgLeftBehindSuffix, len(returned))
	}

	logger.WithField("items", len(granted)).Info("items picked up")

	e.publish(ctx, Event{
		Type:    EventItemsPickedUp,
		UserId:  userId,
		RoomX:   roomX,
		RoomY:   roomY,
		Message: msg,
		Items:   granted,
	})

	return ActionResult{
		Success:  true,
		Message:  msg,
		Granted:  granted,
		Returned: returned,
	}, nil
}

// settleContext keeps ctx's values but not its cancellation.
func settleContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), settleTimeout)
}

func (e *InteractionEngine) publish(ctx context.Context, ev Event) {
	if err := e.pub.Publish(ctx, ev); err != nil {
		logging.GetLogger(ctx).WithError(err).WithField("event", ev.Type).Warn("publishing event")
	}
}
