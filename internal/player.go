package internal

// Player is the room-scoped view of a connected user.
type Player struct {
	Id       string
	Username string
	IsHost   bool
	IsReady  bool
	Score    int
}

type PlayerSnapshot struct {
	ID       string `json:"id"`
	Username string `json:"name"`
	IsHost   bool   `json:"isHost"`
	IsReady  bool   `json:"ready"`
	Score    int    `json:"score"`
}

func (p *Player) ResetForNewGame() {
	p.Score = 0
	p.IsReady = p.IsHost
}

// PromoteToHost gives p host authority. The host is always ready.
func (p *Player) PromoteToHost() {
	p.IsHost = true
	p.IsReady = true
}

func CreatePlayerSnapshot(p *Player) PlayerSnapshot {
	return PlayerSnapshot{
		ID:       p.Id,
		Username: p.Username,
		IsHost:   p.IsHost,
		IsReady:  p.IsReady,
		Score:    p.Score,
	}
}
