package game

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/scythe504/typing-hub-backend/internal"
)

// =============================================================================
// TIMER MANAGEMENT
// =============================================================================

// Scheduler runs f after d on its own goroutine.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) internal.Stopper
}

type clockScheduler struct{}

func (clockScheduler) AfterFunc(d time.Duration, f func()) internal.Stopper {
	return time.AfterFunc(d, f)
}

// phaseTimerEvent is posted back into the hub when a deferred transition
// fires. It only acts if the room still exists, is still on the same
// generation and is still in the expected phase.
type phaseTimerEvent struct {
	roomID     string
	generation uint64
	expected   internal.GamePhase
}

func (e phaseTimerEvent) apply(h *Hub) {
	room, ok := h.rooms[e.roomID]
	if !ok {
		log.Debug().Str("room_id", e.roomID).Msg("[PhaseTimer] room gone, ignoring stale timer")
		return
	}
	if room.Generation != e.generation || room.Phase != e.expected {
		log.Debug().
			Str("room_id", e.roomID).
			Str("phase", string(room.Phase)).
			Str("expected", string(e.expected)).
			Msg("[PhaseTimer] stale timer, ignoring")
		return
	}
	room.Timer = nil

	switch e.expected {
	case internal.PhaseStarting:
		h.beginPlaying(room)
	case internal.PhasePlaying:
		h.endGame(room)
	}
}

// setPhase moves the room to phase and invalidates any pending transition.
func (h *Hub) setPhase(room *internal.Room, phase internal.GamePhase) {
	h.cancelPhaseTimer(room)
	log.Info().
		Str("room_id", room.Id).
		Str("from", string(room.Phase)).
		Str("to", string(phase)).
		Msg("[setPhase] phase change")
	room.Phase = phase
	room.Generation++
}

// schedulePhaseTimer arranges for the room to leave the expected phase
// after d, unless something else changes its phase first.
func (h *Hub) schedulePhaseTimer(room *internal.Room, d time.Duration, expected internal.GamePhase) {
	h.cancelPhaseTimer(room)
	ev := phaseTimerEvent{roomID: room.Id, generation: room.Generation, expected: expected}
	room.Timer = h.scheduler.AfterFunc(d, func() { h.post(ev) })
	log.Debug().
		Str("room_id", room.Id).
		Dur("after", d).
		Str("phase", string(expected)).
		Msg("[schedulePhaseTimer] transition scheduled")
}

// cancelPhaseTimer stops the pending transition, if any.
func (h *Hub) cancelPhaseTimer(room *internal.Room) {
	if room.Timer == nil {
		return
	}
	room.Timer.Stop()
	room.Timer = nil
}
