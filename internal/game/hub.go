package game

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/scythe504/typing-hub-backend/internal"
	"github.com/scythe504/typing-hub-backend/internal/utils"
)

var ErrHubStopped = errors.New("hub stopped")

// ResultRecorder archives finished matches. It is called off the hub goroutine.
type ResultRecorder interface {
	RecordMatch(ctx context.Context, results internal.FinalResults) error
}

type HubConfig struct {
	Generator *utils.BalloonGenerator
	Scheduler Scheduler
	Recorder  ResultRecorder
	// RecordTimeout bounds a single RecordMatch call.
	RecordTimeout time.Duration
}

// User is the logged-in identity behind one connection.
type User struct {
	Id     string
	Name   string
	RoomId string
}

// Hub is the single writer for every user, room and roster. All mutation
// happens on the goroutine running Run, one event at a time, in arrival order.
type Hub struct {
	events chan event
	done   chan struct{}

	clients   map[string]*Client
	users     map[string]*User
	rooms     map[string]*internal.Room
	roomOrder []string

	// clients whose outbound queue overflowed while handling the current event
	dropped []*Client

	generator     *utils.BalloonGenerator
	scheduler     Scheduler
	recorder      ResultRecorder
	recordTimeout time.Duration
}

type event interface {
	apply(h *Hub)
}

func NewHub(cfg HubConfig) *Hub {
	if cfg.Scheduler == nil {
		cfg.Scheduler = clockScheduler{}
	}
	if cfg.RecordTimeout <= 0 {
		cfg.RecordTimeout = 5 * time.Second
	}
	return &Hub{
		events:        make(chan event, 1024),
		done:          make(chan struct{}),
		clients:       make(map[string]*Client),
		users:         make(map[string]*User),
		rooms:         make(map[string]*internal.Room),
		generator:     cfg.Generator,
		scheduler:     cfg.Scheduler,
		recorder:      cfg.Recorder,
		recordTimeout: cfg.RecordTimeout,
	}
}

// Run processes events until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	log.Info().Msg("[Hub] event loop started")
	defer close(h.done)

	for {
		select {
		case ev := <-h.events:
			ev.apply(h)
			h.flushDropped()
		case <-ctx.Done():
			h.shutdown()
			log.Info().Msg("[Hub] event loop stopped")
			return
		}
	}
}

// post hands an event to the loop. It gives up once the hub has stopped.
func (h *Hub) post(ev event) bool {
	select {
	case <-h.done:
		return false
	default:
	}
	select {
	case h.events <- ev:
		return true
	case <-h.done:
		return false
	}
}

// Register hands c to the hub. It reports false once the hub has stopped.
func (h *Hub) Register(c *Client) bool {
	return h.post(registerEvent{client: c})
}

func (h *Hub) Unregister(c *Client) {
	h.post(unregisterEvent{client: c})
}

// Submit queues one inbound message from c.
func (h *Hub) Submit(c *Client, msg internal.Message[json.RawMessage]) {
	h.post(commandEvent{client: c, msg: msg})
}

type queryEvent struct {
	fn   func(h *Hub)
	done chan struct{}
}

func (e queryEvent) apply(h *Hub) {
	e.fn(h)
	close(e.done)
}

// query runs fn on the hub goroutine and waits for it.
func (h *Hub) query(ctx context.Context, fn func(h *Hub)) error {
	ev := queryEvent{fn: fn, done: make(chan struct{})}
	select {
	case h.events <- ev:
	case <-h.done:
		return ErrHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-ev.done:
		return nil
	case <-h.done:
		return ErrHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Listing returns the current lobby listing.
func (h *Hub) Listing(ctx context.Context) ([]internal.RoomListing, error) {
	var listing []internal.RoomListing
	err := h.query(ctx, func(h *Hub) { listing = h.lobbyListing() })
	return listing, err
}

// JoinableRoom returns the id of a waiting, non-full room or "".
func (h *Hub) JoinableRoom(ctx context.Context) (string, error) {
	var roomID string
	err := h.query(ctx, func(h *Hub) { roomID = h.getJoinableRoom() })
	return roomID, err
}

type HubStats struct {
	Connections int `json:"connections"`
	Users       int `json:"users"`
	Rooms       int `json:"rooms"`
}

func (h *Hub) Stats(ctx context.Context) (HubStats, error) {
	var stats HubStats
	err := h.query(ctx, func(h *Hub) {
		stats = HubStats{Connections: len(h.clients), Users: len(h.users), Rooms: len(h.rooms)}
	})
	return stats, err
}

type registerEvent struct {
	client *Client
}

func (e registerEvent) apply(h *Hub) {
	h.clients[e.client.id] = e.client
	log.Debug().Str("conn_id", e.client.id).Int("connections", len(h.clients)).Msg("[Hub] connection registered")
}

type unregisterEvent struct {
	client *Client
}

func (e unregisterEvent) apply(h *Hub) {
	h.disconnect(e.client)
}

// disconnect is leave-room followed by destroying the user.
func (h *Hub) disconnect(c *Client) {
	if _, ok := h.clients[c.id]; !ok {
		return
	}
	if user, ok := h.users[c.id]; ok {
		h.leaveRoom(user)
		delete(h.users, c.id)
	}
	delete(h.clients, c.id)
	close(c.send)
	log.Debug().Str("conn_id", c.id).Int("connections", len(h.clients)).Msg("[Hub] connection closed")
}

func (h *Hub) flushDropped() {
	for len(h.dropped) > 0 {
		c := h.dropped[0]
		h.dropped = h.dropped[1:]
		log.Warn().Str("conn_id", c.id).Msg("[Hub] outbound queue full, dropping connection")
		h.disconnect(c)
	}
}

func (h *Hub) shutdown() {
	for _, room := range h.rooms {
		h.cancelPhaseTimer(room)
	}
	for id, c := range h.clients {
		close(c.send)
		delete(h.clients, id)
	}
	h.users = make(map[string]*User)
	h.rooms = make(map[string]*internal.Room)
	h.roomOrder = nil
}

// requireRoom resolves the caller's room or fails with ErrSessionExpired.
func (h *Hub) requireRoom(user *User) (*internal.Room, error) {
	if user == nil || user.RoomId == "" {
		return nil, ErrSessionExpired
	}
	room, ok := h.rooms[user.RoomId]
	if !ok || room.GetPlayer(user.Id) == nil {
		return nil, ErrSessionExpired
	}
	return room, nil
}

func (h *Hub) recordResults(results internal.FinalResults) {
	if h.recorder == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), h.recordTimeout)
		defer cancel()
		if err := h.recorder.RecordMatch(ctx, results); err != nil {
			log.Error().Err(err).Str("room_id", results.RoomId).Msg("[recordResults] failed to archive match")
			return
		}
		log.Debug().Str("room_id", results.RoomId).Msg("[recordResults] match archived")
	}()
}
