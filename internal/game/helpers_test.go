package game

import (
	"context"
	"encoding/json"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/scythe504/typing-hub-backend/internal"
	"github.com/scythe504/typing-hub-backend/internal/utils"
	"github.com/stretchr/testify/require"
)

// --- Scheduler ---

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
}

type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

type fakeStopper struct {
	s *fakeScheduler
	t *fakeTimer
}

func (fs fakeStopper) Stop() bool {
	fs.s.mu.Lock()
	defer fs.s.mu.Unlock()
	was := !fs.t.stopped
	fs.t.stopped = true
	return was
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) internal.Stopper {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{d: d, f: f}
	s.timers = append(s.timers, t)
	return fakeStopper{s: s, t: t}
}

func (s *fakeScheduler) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

func (s *fakeScheduler) timer(t *testing.T, i int) *fakeTimer {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.Less(t, i, len(s.timers), "timer %d was never scheduled", i)
	return s.timers[i]
}

func (s *fakeScheduler) isStopped(ft *fakeTimer) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ft.stopped
}

// fire runs the callback even if the timer was stopped, like a timer that
// raced its own Stop.
func (ft *fakeTimer) fire() {
	ft.f()
}

// --- Recorder ---

type fakeRecorder struct {
	mu      sync.Mutex
	matches []internal.FinalResults
}

func (r *fakeRecorder) RecordMatch(ctx context.Context, results internal.FinalResults) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.matches = append(r.matches, results)
	return nil
}

func (r *fakeRecorder) recorded() []internal.FinalResults {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.matches)
}

// --- Hub ---

type testHub struct {
	*Hub
	scheduler *fakeScheduler
	recorder  *fakeRecorder
}

func newTestHub(t *testing.T) *testHub {
	t.Helper()
	vocab, err := utils.LoadVocabulary()
	require.NoError(t, err)

	th := &testHub{scheduler: &fakeScheduler{}, recorder: &fakeRecorder{}}
	th.Hub = NewHub(HubConfig{
		Generator: utils.NewBalloonGenerator(vocab, 1),
		Scheduler: th.scheduler,
		Recorder:  th.recorder,
	})

	ctx, cancel := context.WithCancel(context.Background())
	go th.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-th.done
	})
	return th
}

// sync returns once every event posted before it has been applied.
func (th *testHub) sync(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, th.query(ctx, func(*Hub) {}))
}

type roomState struct {
	Id            string
	Phase         internal.GamePhase
	Language      internal.Language
	Players       []internal.Player
	Balloons      []internal.Balloon
	NextBalloonId int
	Generation    uint64
	HasTimer      bool
}

// inspect copies a room's state off the hub goroutine. ok is false if the room is gone.
func (th *testHub) inspect(t *testing.T, roomID string) (roomState, bool) {
	t.Helper()
	var (
		state roomState
		ok    bool
	)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, th.query(ctx, func(h *Hub) {
		room, exists := h.rooms[roomID]
		if !exists {
			return
		}
		ok = true
		state = roomState{
			Id:            room.Id,
			Phase:         room.Phase,
			Language:      room.Language,
			Balloons:      slices.Clone(room.Balloons),
			NextBalloonId: room.NextBalloonId,
			Generation:    room.Generation,
			HasTimer:      room.Timer != nil,
		}
		for _, p := range room.Players {
			state.Players = append(state.Players, *p)
		}
	}))
	return state, ok
}

func (th *testHub) mustInspect(t *testing.T, roomID string) roomState {
	t.Helper()
	state, ok := th.inspect(t, roomID)
	require.True(t, ok, "room %s does not exist", roomID)
	return state
}

// --- Clients ---

type testClient struct {
	*Client
	t   *testing.T
	hub *testHub
}

func (th *testHub) connect(t *testing.T) *testClient {
	t.Helper()
	c := &Client{id: utils.GenerateID(0), send: make(chan []byte, 1024)}
	th.Register(c)
	return &testClient{Client: c, t: t, hub: th}
}

func (tc *testClient) submit(msgType string, data any) {
	tc.t.Helper()
	var raw json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		require.NoError(tc.t, err)
		raw = b
	}
	tc.hub.Submit(tc.Client, internal.Message[json.RawMessage]{Type: msgType, Data: raw})
}

// expect skips other messages until one of msgType arrives.
func (tc *testClient) expect(msgType string) json.RawMessage {
	tc.t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case payload, ok := <-tc.send:
			require.True(tc.t, ok, "connection closed while waiting for %s", msgType)
			var msg internal.Message[json.RawMessage]
			require.NoError(tc.t, json.Unmarshal(payload, &msg))
			if msg.Type == msgType {
				return msg.Data
			}
		case <-timeout:
			tc.t.Fatalf("timed out waiting for %s", msgType)
			return nil
		}
	}
}

func expectData[T any](tc *testClient, msgType string) T {
	tc.t.Helper()
	var data T
	require.NoError(tc.t, json.Unmarshal(tc.expect(msgType), &data))
	return data
}

// drain returns everything queued for the client right now. Call after sync.
func (tc *testClient) drain() []internal.Message[json.RawMessage] {
	tc.t.Helper()
	var msgs []internal.Message[json.RawMessage]
	for {
		select {
		case payload, ok := <-tc.send:
			if !ok {
				return msgs
			}
			var msg internal.Message[json.RawMessage]
			require.NoError(tc.t, json.Unmarshal(payload, &msg))
			msgs = append(msgs, msg)
		default:
			return msgs
		}
	}
}

func ofType(msgs []internal.Message[json.RawMessage], msgType string) []internal.Message[json.RawMessage] {
	var out []internal.Message[json.RawMessage]
	for _, m := range msgs {
		if m.Type == msgType {
			out = append(out, m)
		}
	}
	return out
}

func (tc *testClient) login(name string) {
	tc.t.Helper()
	tc.submit(internal.TypeLogin, internal.LoginData{Name: name})
	tc.expect(internal.TypeLoginSuccess)
}

func (tc *testClient) expectError(code error) {
	tc.t.Helper()
	data := expectData[internal.ErrorData](tc, internal.TypeError)
	require.Equal(tc.t, code.Error(), data.Code)
}

func (tc *testClient) createRoom() string {
	tc.t.Helper()
	tc.submit(internal.TypeCreateRoom, nil)
	data := expectData[internal.RoomJoinedData](tc, internal.TypeRoomCreated)
	require.True(tc.t, data.IsHost)
	return data.RoomId
}

func (tc *testClient) joinRoom(roomID string) {
	tc.t.Helper()
	tc.submit(internal.TypeJoinRoom, roomID)
	data := expectData[internal.RoomJoinedData](tc, internal.TypeRoomJoined)
	require.Equal(tc.t, roomID, data.RoomId)
	require.False(tc.t, data.IsHost)
}

// setupRoom logs in n clients, the first creates a room and the rest join it.
func (th *testHub) setupRoom(t *testing.T, n int) (string, []*testClient) {
	t.Helper()
	clients := make([]*testClient, n)
	for i := range clients {
		clients[i] = th.connect(t)
		clients[i].login("player" + string(rune('A'+i)))
	}
	roomID := clients[0].createRoom()
	for _, c := range clients[1:] {
		c.joinRoom(roomID)
	}
	th.sync(t)
	for _, c := range clients {
		c.drain()
	}
	return roomID, clients
}

// startPlaying readies everyone, starts the game and fires the grace timer.
func (th *testHub) startPlaying(t *testing.T, roomID string, clients []*testClient) {
	t.Helper()
	for _, c := range clients[1:] {
		c.submit(internal.TypeReady, nil)
	}
	before := th.scheduler.count()
	clients[0].submit(internal.TypeStartGame, nil)
	th.sync(t)
	require.Equal(t, internal.PhaseStarting, th.mustInspect(t, roomID).Phase)

	th.scheduler.timer(t, before).fire()
	th.sync(t)
	require.Equal(t, internal.PhasePlaying, th.mustInspect(t, roomID).Phase)
	for _, c := range clients {
		c.drain()
	}
}

func requireHostInvariant(t *testing.T, state roomState) {
	t.Helper()
	require.NotEmpty(t, state.Players)
	require.True(t, state.Players[0].IsHost, "players[0] must be host")
	require.True(t, state.Players[0].IsReady, "host must be ready")
	for _, p := range state.Players[1:] {
		require.False(t, p.IsHost, "only players[0] may be host")
	}
}

func requireUniqueBalloonIds(t *testing.T, state roomState) {
	t.Helper()
	seen := map[int]bool{}
	for _, b := range state.Balloons {
		require.False(t, seen[b.Id], "duplicate balloon id %d", b.Id)
		seen[b.Id] = true
	}
}
