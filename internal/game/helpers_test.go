package game

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/pixil98/go-gridworld/internal/storage"
)

// walledTilemap returns a tilemap with a walled border and a floor interior.
func walledTilemap(width, height int) Tilemap {
	tm := NewTilemap(width, height)
	for y := range tm {
		for x := range tm[y] {
			if tm.OnBorder(x, y) {
				tm[y][x] = TileWall
			}
		}
	}
	return tm
}

type stubGenerator struct {
	contents RoomContents
	calls    atomic.Int32
}

func (g *stubGenerator) Generate(_ context.Context, x, y int) RoomContents {
	g.calls.Add(1)
	c := g.contents
	if c.Tilemap == nil {
		c.Tilemap = walledTilemap(DefaultRoomWidth, DefaultRoomHeight)
	}
	// Hand out copies so rooms never share slices.
	c.Items = append([]Item(nil), g.contents.Items...)
	if g.contents.Puzzle != nil {
		p := *g.contents.Puzzle
		c.Puzzle = &p
	}
	return c
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) types() []EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []EventType
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

var errStoreDown = errors.New("store unavailable")

// flakyStore wraps a Storer and fails selected operations on demand.
type flakyStore[T storage.ValidatingSpec] struct {
	storage.Storer[T]

	failGet    atomic.Bool
	failCreate atomic.Bool
	// failUpdates fails every Update after the first okUpdates succeed.
	failUpdates atomic.Bool
	okUpdates   atomic.Int32
	// onUpdate runs before every Update, ahead of any injected failure.
	onUpdate func()
}

func (s *flakyStore[T]) Get(ctx context.Context, id string) (T, error) {
	if s.failGet.Load() {
		var zero T
		return zero, errStoreDown
	}
	return s.Storer.Get(ctx, id)
}

func (s *flakyStore[T]) Create(ctx context.Context, id string, v T) error {
	if s.failCreate.Load() {
		return errStoreDown
	}
	return s.Storer.Create(ctx, id, v)
}

func (s *flakyStore[T]) Update(ctx context.Context, id string, fn func(T) error) (T, error) {
	if s.onUpdate != nil {
		s.onUpdate()
	}
	if s.failUpdates.Load() && s.okUpdates.Add(-1) < 0 {
		var zero T
		return zero, errStoreDown
	}
	return s.Storer.Update(ctx, id, fn)
}

type testWorld struct {
	rooms   *flakyStore[*Room]
	players *flakyStore[*PlayerState]
	gen     *stubGenerator
	pub     *recordingPublisher

	roomSvc   *RoomService
	playerSvc *PlayerService
	engine    *InteractionEngine
}

func newTestWorld(t *testing.T, contents RoomContents) *testWorld {
	t.Helper()

	rs, err := storage.NewFileStore[*Room](t.TempDir())
	if err != nil {
		t.Fatalf("creating room store: %v", err)
	}
	ps, err := storage.NewFileStore[*PlayerState](t.TempDir())
	if err != nil {
		t.Fatalf("creating player store: %v", err)
	}

	w := &testWorld{
		rooms:   &flakyStore[*Room]{Storer: rs},
		players: &flakyStore[*PlayerState]{Storer: ps},
		gen:     &stubGenerator{contents: contents},
		pub:     &recordingPublisher{},
	}
	w.roomSvc = NewRoomService(w.rooms, w.gen, w.pub)
	w.playerSvc = NewPlayerService(w.players, w.roomSvc, w.pub)
	w.engine = NewInteractionEngine(w.roomSvc, w.playerSvc, w.pub)
	return w
}

func assertEvents(t *testing.T, got []EventType, exp ...EventType) {
	t.Helper()
	if !slices.Equal(got, exp) {
		t.Errorf("events: got %v, expected %v", got, exp)
	}
}
