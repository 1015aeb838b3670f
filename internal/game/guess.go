package game

import (
	"github.com/rs/zerolog/log"
	"github.com/scythe504/typing-hub-backend/internal"
)

// =============================================================================
// POP / MISS VALIDATION
// =============================================================================

// handlePopBalloon scores a typed match. Anything that does not line up
// with the current field (wrong phase, unknown id, wrong word) is dropped
// silently: a concurrent claim may already have replaced the balloon.
func (h *Hub) handlePopBalloon(user *User, data internal.PopBalloonData) {
	room, player, idx, ok := h.claimTarget(user, data.BalloonId)
	if !ok {
		return
	}
	balloon := room.Balloons[idx]
	if balloon.Word != data.Word {
		return
	}

	player.Score += balloon.Points
	newBalloon := h.replaceBalloon(room, idx)

	log.Debug().
		Str("room_id", room.Id).
		Str("player_id", player.Id).
		Int("balloon_id", balloon.Id).
		Int("points", balloon.Points).
		Int("score", player.Score).
		Msg("[handlePopBalloon] balloon popped")

	broadcastToRoom(h, room, internal.TypeBalloonPopped, internal.BalloonPoppedData{
		BalloonId:  balloon.Id,
		NewBalloon: newBalloon,
		Scores:     room.Scores(),
		PoppedBy:   user.Name,
	})
}

// handleBalloonMissed replaces a balloon that left the field without scoring.
func (h *Hub) handleBalloonMissed(user *User, data internal.BalloonMissedData) {
	room, _, idx, ok := h.claimTarget(user, data.BalloonId)
	if !ok {
		return
	}
	newBalloon := h.replaceBalloon(room, idx)

	broadcastToRoom(h, room, internal.TypeBalloonPopped, internal.BalloonPoppedData{
		BalloonId:  data.BalloonId,
		NewBalloon: newBalloon,
		Scores:     room.Scores(),
		Reason:     "missed",
	})
}

func (h *Hub) claimTarget(user *User, balloonID int) (*internal.Room, *internal.Player, int, bool) {
	room, err := h.requireRoom(user)
	if err != nil || room.Phase != internal.PhasePlaying {
		return nil, nil, -1, false
	}
	idx := room.BalloonIndex(balloonID)
	if idx < 0 {
		return nil, nil, -1, false
	}
	return room, room.GetPlayer(user.Id), idx, true
}

// replaceBalloon swaps the balloon at idx for a fresh one below the field.
// Ids come from the room counter and are never reused.
func (h *Hub) replaceBalloon(room *internal.Room, idx int) internal.Balloon {
	newBalloon := h.generator.NewBalloon(room.NextBalloonId, false, room.BalloonWords(), room.Language)
	room.NextBalloonId++
	room.Balloons[idx] = newBalloon
	return newBalloon
}
