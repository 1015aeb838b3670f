package internal

type Message[T any] struct {
	Type string `json:"type"`
	Data T      `json:"data"`
}

// Inbound message types.
const (
	TypeLogin          = "login"
	TypeCreateRoom     = "create-room"
	TypeJoinRoom       = "join-room"
	TypeQuickJoin      = "quick-join"
	TypeReady          = "ready"
	TypeKickPlayer     = "kick-player"
	TypeChangeLanguage = "change-language"
	TypeStartGame      = "start-game"
	TypePopBalloon     = "pop-balloon"
	TypeBalloonMissed  = "balloon-missed"
	TypeLeaveRoom      = "leave-room"
	TypePlayAgain      = "play-again"
)

// Outbound message types.
const (
	TypeLoginSuccess    = "login-success"
	TypeRoomList        = "room-list"
	TypeRoomCreated     = "room-created"
	TypeRoomJoined      = "room-joined"
	TypeQuickJoinResult = "quick-join-result"
	TypeRoomUpdate      = "room-update"
	TypeKicked          = "kicked"
	TypeLeftRoom        = "left-room"
	TypeGameStart       = "game-start"
	TypeBalloonPopped   = "balloon-popped"
	TypeGameEnd         = "game-end"
	TypeBackToWaiting   = "back-to-waiting"
	TypeError           = "error"
)

type LoginData struct {
	Name string `json:"name"`
}

type PopBalloonData struct {
	BalloonId int    `json:"balloonId"`
	Word      string `json:"word"`
}

type BalloonMissedData struct {
	BalloonId int `json:"balloonId"`
}

type LoginSuccessData struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

type RoomJoinedData struct {
	RoomId string `json:"roomId"`
	IsHost bool   `json:"isHost"`
}

type QuickJoinResultData struct {
	RoomId string `json:"roomId"`
}

type GameStartData struct {
	Balloons []Balloon `json:"balloons"`
	Duration int64     `json:"duration"`
}

type BalloonPoppedData struct {
	BalloonId  int            `json:"balloonId"`
	NewBalloon Balloon        `json:"newBalloon"`
	Scores     map[string]int `json:"scores"`
	PoppedBy   string         `json:"poppedBy,omitempty"`
	Reason     string         `json:"reason,omitempty"`
}

type GameEndData struct {
	Scores      map[string]int   `json:"scores"`
	Players     []PlayerSnapshot `json:"players"`
	Leaderboard []GameResultData `json:"leaderboard"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type LeftRoomData struct {
	RoomId string `json:"roomId"`
}
