package game

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/scythe504/typing-hub-backend/internal"
)

// =============================================================================
// GAME FLOW - PHASE MANAGEMENT
// =============================================================================

// handleReady toggles a non-host player's ready flag while waiting.
func (h *Hub) handleReady(user *User) {
	room, err := h.requireRoom(user)
	if err != nil {
		h.sendError(user.Id, err)
		return
	}
	player := room.GetPlayer(user.Id)
	if player.IsHost || room.Phase != internal.PhaseWaiting {
		return
	}

	player.IsReady = !player.IsReady
	log.Debug().Str("room_id", room.Id).Str("player_id", player.Id).Bool("ready", player.IsReady).Msg("[handleReady] ready toggled")

	h.broadcastRoomUpdate(room)
}

func (h *Hub) handleChangeLanguage(user *User, lang internal.Language) {
	room, err := h.requireRoom(user)
	if err != nil {
		h.sendError(user.Id, err)
		return
	}
	if !room.IsHost(user.Id) {
		h.sendError(user.Id, ErrUnauthorized)
		return
	}
	if !lang.Valid() {
		log.Debug().Str("room_id", room.Id).Str("language", string(lang)).Msg("[handleChangeLanguage] unsupported language, ignoring")
		return
	}

	room.Language = lang
	h.broadcastRoomUpdate(room)
	h.broadcastLobby()
}

// handleStartGame moves waiting -> starting and schedules playing.
func (h *Hub) handleStartGame(user *User) {
	room, err := h.requireRoom(user)
	if err != nil {
		h.sendError(user.Id, err)
		return
	}
	switch {
	case !room.IsHost(user.Id):
		err = ErrUnauthorized
	case room.Phase != internal.PhaseWaiting:
		err = ErrGameInProgress
	case !room.AreAllPlayersReady():
		err = ErrNotAllReady
	}
	if err != nil {
		h.sendError(user.Id, err)
		return
	}

	h.setPhase(room, internal.PhaseStarting)
	for _, p := range room.Players {
		p.Score = 0
	}
	// balloon ids are never reused within a room, across games included
	room.Balloons = h.generator.InitialBalloons(room.NextBalloonId, internal.InitialBalloonCount, room.Language)
	room.NextBalloonId += len(room.Balloons)

	broadcastToRoom(h, room, internal.TypeGameStart, internal.GameStartData{
		Balloons: room.Balloons,
		Duration: internal.MatchDuration.Milliseconds(),
	})
	h.broadcastRoomUpdate(room)
	h.broadcastLobby()

	h.schedulePhaseTimer(room, internal.StartingPhaseDuration, internal.PhaseStarting)
}

func (h *Hub) beginPlaying(room *internal.Room) {
	h.setPhase(room, internal.PhasePlaying)
	h.broadcastRoomUpdate(room)
	h.broadcastLobby()

	h.schedulePhaseTimer(room, internal.MatchDuration+internal.MatchEndBuffer, internal.PhasePlaying)
}

func (h *Hub) endGame(room *internal.Room) {
	h.setPhase(room, internal.PhaseEnded)
	room.Balloons = nil

	results := CalculateFinalResults(room, time.Now())
	broadcastToRoom(h, room, internal.TypeGameEnd, internal.GameEndData{
		Scores:      room.Scores(),
		Players:     room.PlayerSnapshots(),
		Leaderboard: results.Leaderboard,
	})
	h.broadcastRoomUpdate(room)
	h.broadcastLobby()

	h.recordResults(results)
}

// handlePlayAgain resets the room when the host asks. Other members are
// only sent back to the waiting screen.
func (h *Hub) handlePlayAgain(user *User) {
	room, err := h.requireRoom(user)
	if err != nil {
		h.sendError(user.Id, err)
		return
	}

	if !room.IsHost(user.Id) {
		sendTo(h, user.Id, internal.TypeBackToWaiting, struct{}{})
		sendTo(h, user.Id, internal.TypeRoomUpdate, room.Snapshot())
		return
	}

	if room.Phase != internal.PhaseWaiting {
		h.setPhase(room, internal.PhaseWaiting)
	}
	room.Balloons = nil
	room.ResetPlayers()

	sendTo(h, user.Id, internal.TypeBackToWaiting, struct{}{})
	h.broadcastRoomUpdate(room)
	h.broadcastLobby()
}
