package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pixil98/go-gridworld/internal/game"
	"github.com/pixil98/go-gridworld/internal/messaging"
	"github.com/pixil98/go-testutil"
)

// fakeSource hands the feed's handler back to the test so events can be
// injected directly.
type fakeSource struct {
	mu       sync.Mutex
	handlers map[string]func(messaging.Envelope)
	ready    chan struct{}
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		handlers: map[string]func(messaging.Envelope){},
		ready:    make(chan struct{}, 1),
	}
}

func (f *fakeSource) SubscribePlayer(userId string, handler func(messaging.Envelope)) (func(), error) {
	f.mu.Lock()
	f.handlers[userId] = handler
	f.mu.Unlock()
	f.ready <- struct{}{}

	return func() {
		f.mu.Lock()
		delete(f.handlers, userId)
		f.mu.Unlock()
	}, nil
}

func (f *fakeSource) emit(userId string, env messaging.Envelope) {
	f.mu.Lock()
	h := f.handlers[userId]
	f.mu.Unlock()
	if h != nil {
		h(env)
	}
}

func TestFeed_Rejects(t *testing.T) {
	tests := map[string]struct {
		events    EventSource
		method    string
		path      string
		expStatus int
	}{
		"wrong method": {
			events: newFakeSource(), method: http.MethodPost, path: "/events?userId=alice",
			expStatus: http.StatusMethodNotAllowed,
		},
		"missing user": {
			events: newFakeSource(), method: http.MethodGet, path: "/events",
			expStatus: http.StatusBadRequest,
		},
		"feed disabled": {
			events: nil, method: http.MethodGet, path: "/events?userId=alice",
			expStatus: http.StatusServiceUnavailable,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s := newTestServer(t, tt.events, false)
			rec := do(t, s, tt.method, tt.path, "")
			testutil.AssertEqual(t, "status", rec.Code, tt.expStatus)
		})
	}
}

func TestFeed_DeliversEvents(t *testing.T) {
	src := newFakeSource()
	srv := httptest.NewServer(newTestServer(t, src, false))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/events?userId=alice"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dialing feed: %v", err)
	}
	defer func() { _ = conn.Close() }()

	select {
	case <-src.ready:
	case <-time.After(5 * time.Second):
		t.Fatal("feed never subscribed")
	}

	src.emit("alice", messaging.Envelope{
		Id:   "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		Data: game.Event{Type: game.EventItemsPickedUp, UserId: "alice", Message: "You picked up 1 item(s)."},
	})

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var env messaging.Envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("reading event: %v", err)
	}
	testutil.AssertEqual(t, "id", env.Id, "01ARZ3NDEKTSV4RRFFQ69G5FAV")
	testutil.AssertEqual(t, "type", env.Data.Type, game.EventItemsPickedUp)
	testutil.AssertEqual(t, "message", env.Data.Message, "You picked up 1 item(s).")
}

func TestFeed_CloseFeeds(t *testing.T) {
	src := newFakeSource()
	s := newTestServer(t, src, false)
	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/events?userId=alice"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dialing feed: %v", err)
	}
	defer func() { _ = conn.Close() }()

	select {
	case <-src.ready:
	case <-time.After(5 * time.Second):
		t.Fatal("feed never subscribed")
	}

	s.CloseFeeds()
	s.CloseFeeds()

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, _, err = conn.ReadMessage()
	testutil.AssertEqual(t, "going away", websocket.IsCloseError(err, websocket.CloseGoingAway), true)

	rec := do(t, s, http.MethodGet, "/events?userId=bob", "")
	testutil.AssertEqual(t, "new feeds refused", rec.Code, http.StatusServiceUnavailable)
}
