package internal

import (
	"time"
)

const (
	StartingPhaseDuration = 3500 * time.Millisecond
	MatchDuration         = 60 * time.Second
	MatchEndBuffer        = 1 * time.Second
	MaxPlayersPerRoom     = 8
	InitialBalloonCount   = 20
)

type GamePhase string

const (
	PhaseWaiting  GamePhase = "waiting"
	PhaseStarting GamePhase = "starting"
	PhasePlaying  GamePhase = "playing"
	PhaseEnded    GamePhase = "ended"
)

type Language string

const (
	LanguageKorean  Language = "ko"
	LanguageEnglish Language = "en"
)

// Valid reports whether l is one of the languages rooms can be switched to.
func (l Language) Valid() bool {
	return l == LanguageKorean || l == LanguageEnglish
}

type Balloon struct {
	Id     int     `json:"id"`
	Word   string  `json:"word"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Color  string  `json:"color"`
	Speed  float64 `json:"speed"`
	Points int     `json:"points"`
}

type Response struct {
	StatusCode    int   `json:"status_code"`
	RespStartTime int64 `json:"resp_time_start_ms"`
	RespEndTime   int64 `json:"resp_time_end_ms"`
	NetRespTime   int64 `json:"net_resp_time_ms"`
	Data          any   `json:"data"`
}

// RoomSnapshot is the full room view sent with every room-update.
type RoomSnapshot struct {
	RoomId   string           `json:"roomId"`
	Players  []PlayerSnapshot `json:"players"`
	Phase    GamePhase        `json:"gameState"`
	Language Language         `json:"language"`
}

// RoomListing is one row of the public lobby listing.
type RoomListing struct {
	Id          string   `json:"id"`
	HostName    string   `json:"hostName"`
	PlayerCount int      `json:"playerCount"`
	MaxPlayers  int      `json:"maxPlayers"`
	IsPlaying   bool     `json:"isPlaying"`
	Language    Language `json:"language"`
}

type GameResultData struct {
	PlayerID string `json:"player_id"`
	Username string `json:"username"`
	Score    int    `json:"score"`
	Position int    `json:"position"`
}

type FinalResults struct {
	RoomId       string           `json:"room_id"`
	Language     Language         `json:"language"`
	Leaderboard  []GameResultData `json:"leaderboard"`
	MVP          *GameResultData  `json:"mvp,omitempty"`
	TotalPlayers int              `json:"total_players"`
	FinishedAt   time.Time        `json:"finished_at"`
}
