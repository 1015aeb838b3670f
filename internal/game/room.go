package game

import (
	"github.com/rs/zerolog/log"
	"github.com/scythe504/typing-hub-backend/internal"
)

// =============================================================================
// ROOM MEMBERSHIP
// =============================================================================

// leaveRoom removes the user from its room, migrating host authority and
// deleting the room when it empties. Safe in any phase.
func (h *Hub) leaveRoom(user *User) {
	if user.RoomId == "" {
		return
	}
	room, ok := h.rooms[user.RoomId]
	user.RoomId = ""
	if !ok {
		return
	}
	h.removeMember(room, user.Id)
}

// removeMember is the single roster-removal path used by leave, kick and
// disconnect. It always ends with a lobby refresh.
func (h *Hub) removeMember(room *internal.Room, playerID string) {
	removed, promoted := room.RemovePlayer(playerID)
	if removed == nil {
		return
	}

	log.Info().
		Str("room_id", room.Id).
		Str("player_id", removed.Id).
		Int("players_remaining", room.GetPlayerCount()).
		Msg("[removeMember] player left room")

	if room.IsEmpty() {
		h.deleteRoom(room)
	} else {
		if promoted != nil {
			log.Info().Str("room_id", room.Id).Str("player_id", promoted.Id).Msg("[removeMember] host migrated")
		}
		h.broadcastRoomUpdate(room)
	}
	h.broadcastLobby()
}

func (h *Hub) handleLeaveRoom(user *User) {
	if user.RoomId == "" {
		return
	}
	roomID := user.RoomId
	h.leaveRoom(user)
	sendTo(h, user.Id, internal.TypeLeftRoom, internal.LeftRoomData{RoomId: roomID})
}

// handleKick removes targetID from the host's room and tells the target.
// Kicking someone who already left is a no-op.
func (h *Hub) handleKick(user *User, targetID string) {
	room, err := h.requireRoom(user)
	if err != nil {
		h.sendError(user.Id, err)
		return
	}
	if !room.IsHost(user.Id) {
		h.sendError(user.Id, ErrUnauthorized)
		return
	}
	if targetID == user.Id || room.GetPlayer(targetID) == nil {
		log.Debug().Str("room_id", room.Id).Str("target", targetID).Msg("[handleKick] target not kickable, ignoring")
		return
	}

	if target, ok := h.users[targetID]; ok && target.RoomId == room.Id {
		target.RoomId = ""
	}
	sendTo(h, targetID, internal.TypeKicked, struct{}{})
	log.Info().Str("room_id", room.Id).Str("target", targetID).Msg("[handleKick] player kicked")

	h.removeMember(room, targetID)
}
