package game

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
	"github.com/scythe504/typing-hub-backend/internal"
)

// =============================================================================
// BROADCASTING & MESSAGING
// =============================================================================

func encode[T any](msgType string, data T) ([]byte, error) {
	return json.Marshal(internal.Message[T]{Type: msgType, Data: data})
}

// enqueue never blocks the hub. A full queue marks the client for removal.
func (h *Hub) enqueue(c *Client, payload []byte) {
	if c == nil || c.dropped {
		return
	}
	select {
	case c.send <- payload:
	default:
		c.dropped = true
		h.dropped = append(h.dropped, c)
	}
}

func sendTo[T any](h *Hub, connID string, msgType string, data T) {
	c, ok := h.clients[connID]
	if !ok {
		return
	}
	payload, err := encode(msgType, data)
	if err != nil {
		log.Error().Err(err).Str("type", msgType).Msg("[sendTo] failed to encode message")
		return
	}
	h.enqueue(c, payload)
}

func broadcastToRoom[T any](h *Hub, room *internal.Room, msgType string, data T) {
	payload, err := encode(msgType, data)
	if err != nil {
		log.Error().Err(err).Str("room_id", room.Id).Str("type", msgType).Msg("[broadcastToRoom] failed to encode message")
		return
	}
	sent := 0
	for _, p := range room.Players {
		if c, ok := h.clients[p.Id]; ok {
			h.enqueue(c, payload)
			sent++
		}
	}
	log.Debug().
		Str("room_id", room.Id).
		Str("type", msgType).
		Int("recipients", sent).
		Msg("[broadcastToRoom] sent")
}

func (h *Hub) sendError(connID string, err error) {
	log.Debug().Str("conn_id", connID).Err(err).Msg("[sendError] rejecting command")
	sendTo(h, connID, internal.TypeError, internal.ErrorData{
		Code:    err.Error(),
		Message: errorMessage(err),
	})
}

func (h *Hub) broadcastRoomUpdate(room *internal.Room) {
	broadcastToRoom(h, room, internal.TypeRoomUpdate, room.Snapshot())
}

// broadcastLobby pushes the listing to every connection.
func (h *Hub) broadcastLobby() {
	payload, err := encode(internal.TypeRoomList, h.lobbyListing())
	if err != nil {
		log.Error().Err(err).Msg("[broadcastLobby] failed to encode room list")
		return
	}
	for _, c := range h.clients {
		h.enqueue(c, payload)
	}
}
