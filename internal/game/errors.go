package game

import "errors"

// Error text doubles as the wire code sent to the client.
var (
	ErrRoomNotFound   = errors.New("room-not-found")
	ErrRoomFull       = errors.New("room-full")
	ErrGameInProgress = errors.New("game-already-in-progress")
	ErrNotAllReady    = errors.New("not-all-ready")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrSessionExpired = errors.New("session-expired")
)

var errorMessages = map[error]string{
	ErrRoomNotFound:   "The room does not exist.",
	ErrRoomFull:       "The room is full.",
	ErrGameInProgress: "The game has already started.",
	ErrNotAllReady:    "Every player must be ready.",
	ErrUnauthorized:   "Only the host can do that.",
	ErrSessionExpired: "Your session has expired. Please refresh.",
}

func errorMessage(err error) string {
	if msg, ok := errorMessages[err]; ok {
		return msg
	}
	return err.Error()
}
