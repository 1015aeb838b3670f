package game

import (
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/scythe504/typing-hub-backend/internal"
	"github.com/scythe504/typing-hub-backend/internal/utils"
)

// =============================================================================
// SESSION REGISTRY & LOBBY
// =============================================================================

// handleLogin creates or replaces the caller's user entry.
func (h *Hub) handleLogin(c *Client, name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = utils.PlaceholderName()
	}

	if existing, ok := h.users[c.id]; ok {
		h.leaveRoom(existing)
	}
	h.users[c.id] = &User{Id: c.id, Name: name}

	log.Info().Str("conn_id", c.id).Str("name", name).Msg("[handleLogin] user logged in")

	sendTo(h, c.id, internal.TypeLoginSuccess, internal.LoginSuccessData{Id: c.id, Name: name})
	h.broadcastLobby()
}

func (h *Hub) handleCreateRoom(user *User) {
	if user.RoomId != "" {
		h.leaveRoom(user)
	}

	roomID := utils.GenerateRoomID()
	for h.rooms[roomID] != nil {
		roomID = utils.GenerateRoomID()
	}

	room := internal.NewRoom(roomID, &internal.Player{Id: user.Id, Username: user.Name})
	h.rooms[roomID] = room
	h.roomOrder = append(h.roomOrder, roomID)
	user.RoomId = roomID

	log.Info().Str("room_id", roomID).Str("host", user.Name).Int("rooms", len(h.rooms)).Msg("[handleCreateRoom] room created")

	sendTo(h, user.Id, internal.TypeRoomCreated, internal.RoomJoinedData{RoomId: roomID, IsHost: true})
	h.broadcastRoomUpdate(room)
	h.broadcastLobby()
}

// validateJoin checks the room before the caller leaves anything.
func validateJoin(room *internal.Room) error {
	switch {
	case room == nil:
		return ErrRoomNotFound
	case room.IsFull():
		return ErrRoomFull
	case room.Phase != internal.PhaseWaiting:
		return ErrGameInProgress
	}
	return nil
}

func (h *Hub) handleJoinRoom(user *User, roomID string) {
	room := h.rooms[roomID]

	if room != nil && user.RoomId == roomID && room.GetPlayer(user.Id) != nil {
		sendTo(h, user.Id, internal.TypeRoomJoined, internal.RoomJoinedData{RoomId: roomID, IsHost: room.IsHost(user.Id)})
		sendTo(h, user.Id, internal.TypeRoomUpdate, room.Snapshot())
		return
	}

	if err := validateJoin(room); err != nil {
		log.Debug().Str("room_id", roomID).Str("conn_id", user.Id).Err(err).Msg("[handleJoinRoom] join rejected")
		h.sendError(user.Id, err)
		return
	}

	if user.RoomId != "" {
		h.leaveRoom(user)
	}

	room.AddPlayer(&internal.Player{Id: user.Id, Username: user.Name})
	user.RoomId = roomID

	log.Info().
		Str("room_id", roomID).
		Str("conn_id", user.Id).
		Int("players", room.GetPlayerCount()).
		Msg("[handleJoinRoom] player joined")

	sendTo(h, user.Id, internal.TypeRoomJoined, internal.RoomJoinedData{RoomId: roomID, IsHost: false})
	h.broadcastRoomUpdate(room)
	h.broadcastLobby()
}

// handleQuickJoin only picks a room. The client follows up with join-room.
func (h *Hub) handleQuickJoin(c *Client) {
	roomID := h.getJoinableRoom()
	if roomID == "" {
		h.sendError(c.id, ErrRoomNotFound)
		return
	}
	sendTo(h, c.id, internal.TypeQuickJoinResult, internal.QuickJoinResultData{RoomId: roomID})
}

// getJoinableRoom returns the oldest waiting room with a free seat.
func (h *Hub) getJoinableRoom() string {
	for _, id := range h.roomOrder {
		if room := h.rooms[id]; room != nil && room.IsJoinable() {
			return id
		}
	}
	return ""
}

// lobbyListing is computed on demand, in room creation order.
func (h *Hub) lobbyListing() []internal.RoomListing {
	listing := make([]internal.RoomListing, 0, len(h.roomOrder))
	for _, id := range h.roomOrder {
		if room := h.rooms[id]; room != nil {
			listing = append(listing, room.Listing())
		}
	}
	return listing
}

func (h *Hub) deleteRoom(room *internal.Room) {
	h.cancelPhaseTimer(room)
	delete(h.rooms, room.Id)
	h.roomOrder = slices.DeleteFunc(h.roomOrder, func(id string) bool { return id == room.Id })
	log.Info().Str("room_id", room.Id).Int("rooms", len(h.rooms)).Msg("[deleteRoom] room is empty, removed")
}
