package game

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestPlayerService_GetOrCreate(t *testing.T) {
	w := newTestWorld(t, RoomContents{Name: "Start"})
	ctx := context.Background()

	ps, err := w.playerSvc.GetOrCreate(ctx, "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "user", ps.UserId, "alice")
	testutil.AssertEqual(t, "room x", ps.RoomX, 0)
	testutil.AssertEqual(t, "room y", ps.RoomY, 0)
	testutil.AssertEqual(t, "tile x", ps.TileX, DefaultTileX)
	testutil.AssertEqual(t, "tile y", ps.TileY, DefaultTileY)
	testutil.AssertEqual(t, "inventory", len(ps.Inventory), 0)

	again, err := w.playerSvc.GetOrCreate(ctx, "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "same player", again.UserId, "alice")
	assertEvents(t, w.pub.types(), EventPlayerCreated)
}

func TestPlayerService_GetOrCreate_InvalidId(t *testing.T) {
	tests := map[string]string{
		"empty":      "",
		"spaces":     "bob smith",
		"path chars": "../bob",
	}

	for name, id := range tests {
		t.Run(name, func(t *testing.T) {
			w := newTestWorld(t, RoomContents{})

			_, err := w.playerSvc.GetOrCreate(context.Background(), id)
			var ue *UserError
			testutil.AssertEqual(t, "user error", errors.As(err, &ue), true)
		})
	}
}

func TestPlayerService_GetOrCreate_Concurrent(t *testing.T) {
	const callers = 10

	w := newTestWorld(t, RoomContents{})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := w.playerSvc.GetOrCreate(ctx, "racer"); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assertEvents(t, w.pub.types(), EventPlayerCreated)
}

func TestPlayerService_Get(t *testing.T) {
	w := newTestWorld(t, RoomContents{})

	_, err := w.playerSvc.Get(context.Background(), "ghost")
	testutil.AssertEqual(t, "not found", errors.Is(err, ErrPlayerNotFound), true)
}

func TestPlayerService_UpdatePosition(t *testing.T) {
	tm := walledTilemap(6, 6)
	tm[3][2] = TileWall

	tests := map[string]struct {
		userId       string
		create       bool
		tileX, tileY int
		expErr       error
		expUserErr   bool
	}{
		"moves": {
			userId: "alice", create: true, tileX: 4, tileY: 2,
		},
		"interior wall": {
			userId: "alice", create: true, tileX: 2, tileY: 3,
			expErr: ErrBlocked, expUserErr: true,
		},
		"border wall": {
			userId: "alice", create: true, tileX: 0, tileY: 3,
			expErr: ErrBlocked, expUserErr: true,
		},
		"outside room": {
			userId: "alice", create: true, tileX: 6, tileY: 1,
			expErr: ErrBlocked, expUserErr: true,
		},
		"unknown player": {
			userId: "nobody", tileX: 1, tileY: 1,
			expErr: ErrPlayerNotFound,
		},
		"invalid id": {
			userId: "no body", tileX: 1, tileY: 1,
			expUserErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			w := newTestWorld(t, RoomContents{Name: "Target", Tilemap: tm})
			ctx := context.Background()

			if tt.create {
				if _, err := w.playerSvc.GetOrCreate(ctx, tt.userId); err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			}

			ps, err := w.playerSvc.UpdatePosition(ctx, tt.userId, 5, -1, tt.tileX, tt.tileY)
			if tt.expErr == nil && !tt.expUserErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				testutil.AssertEqual(t, "room x", ps.RoomX, 5)
				testutil.AssertEqual(t, "room y", ps.RoomY, -1)
				testutil.AssertEqual(t, "tile x", ps.TileX, tt.tileX)
				testutil.AssertEqual(t, "tile y", ps.TileY, tt.tileY)

				stored, err := w.playerSvc.Get(ctx, tt.userId)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				testutil.AssertEqual(t, "stored tile x", stored.TileX, tt.tileX)

				_, err = w.roomSvc.Get(ctx, 5, -1)
				if err != nil {
					t.Fatalf("expected destination room to exist: %v", err)
				}
				return
			}

			if tt.expErr != nil {
				testutil.AssertEqual(t, "error kind", errors.Is(err, tt.expErr), true)
			}
			var ue *UserError
			testutil.AssertEqual(t, "user error", errors.As(err, &ue), tt.expUserErr)

			if tt.create {
				stored, _ := w.playerSvc.Get(ctx, tt.userId)
				testutil.AssertEqual(t, "position unchanged", stored.TileX, DefaultTileX)
			}
		})
	}
}

func TestPlayerService_UpdatePosition_UnknownPlayerGeneratesNothing(t *testing.T) {
	w := newTestWorld(t, RoomContents{})

	_, err := w.playerSvc.UpdatePosition(context.Background(), "nobody", 40, 40, 1, 1)
	testutil.AssertEqual(t, "not found", errors.Is(err, ErrPlayerNotFound), true)
	testutil.AssertEqual(t, "generated", w.gen.calls.Load(), int32(0))
}

func TestPlayerService_AddItem(t *testing.T) {
	w := newTestWorld(t, RoomContents{})
	ctx := context.Background()

	err := w.playerSvc.AddItem(ctx, "ghost", ArtifactItem)
	testutil.AssertEqual(t, "not found", errors.Is(err, ErrPlayerNotFound), true)

	if _, err := w.playerSvc.GetOrCreate(ctx, "alice"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	const adds = 25
	var wg sync.WaitGroup
	for i := 0; i < adds; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := w.playerSvc.AddItem(ctx, "alice", ArtifactItem); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	ps, err := w.playerSvc.Get(ctx, "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "artifacts", ps.Inventory.Count(ArtifactItem.Name), adds)
}
