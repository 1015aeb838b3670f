package internal

import "slices"

// Stopper is satisfied by *time.Timer.
type Stopper interface {
	Stop() bool
}

// Room owns its roster and balloons. Players[0] is always the host.
type Room struct {
	Id       string
	Players  []*Player
	Phase    GamePhase
	Language Language

	Balloons      []Balloon
	NextBalloonId int

	// Generation changes on every phase transition. Deferred transitions
	// capture it and become no-ops when it no longer matches.
	Generation uint64
	Timer      Stopper
}

func NewRoom(id string, host *Player) *Room {
	host.PromoteToHost()
	host.Score = 0
	return &Room{
		Id:       id,
		Players:  []*Player{host},
		Phase:    PhaseWaiting,
		Language: LanguageKorean,
	}
}

// Methods (Room Struct)
func (r *Room) Host() *Player {
	if len(r.Players) == 0 {
		return nil
	}
	return r.Players[0]
}

func (r *Room) IsHost(playerID string) bool {
	host := r.Host()
	return host != nil && host.Id == playerID
}

func (r *Room) GetPlayer(playerID string) *Player {
	if i := r.PlayerIndex(playerID); i >= 0 {
		return r.Players[i]
	}
	return nil
}

func (r *Room) PlayerIndex(playerID string) int {
	return slices.IndexFunc(r.Players, func(p *Player) bool { return p.Id == playerID })
}

func (r *Room) GetPlayerCount() int {
	return len(r.Players)
}

func (r *Room) IsFull() bool {
	return len(r.Players) >= MaxPlayersPerRoom
}

func (r *Room) IsEmpty() bool {
	return len(r.Players) == 0
}

// AddPlayer appends p as a non-host member.
func (r *Room) AddPlayer(p *Player) {
	p.IsHost = false
	p.IsReady = false
	p.Score = 0
	r.Players = append(r.Players, p)
}

// RemovePlayer drops the player from the roster and promotes the next
// player to host when the host left. promoted is nil if no promotion happened.
func (r *Room) RemovePlayer(playerID string) (removed, promoted *Player) {
	i := r.PlayerIndex(playerID)
	if i < 0 {
		return nil, nil
	}
	removed = r.Players[i]
	r.Players = slices.Delete(r.Players, i, i+1)

	if i == 0 && len(r.Players) > 0 {
		promoted = r.Players[0]
		promoted.PromoteToHost()
	}
	return removed, promoted
}

// AreAllPlayersReady is vacuously true for a room with only the host.
func (r *Room) AreAllPlayersReady() bool {
	for _, p := range r.Players {
		if !p.IsHost && !p.IsReady {
			return false
		}
	}
	return true
}

func (r *Room) ResetPlayers() {
	for _, p := range r.Players {
		p.ResetForNewGame()
	}
}

func (r *Room) BalloonIndex(balloonID int) int {
	return slices.IndexFunc(r.Balloons, func(b Balloon) bool { return b.Id == balloonID })
}

// BalloonWords returns the set of words currently on the field.
func (r *Room) BalloonWords() map[string]struct{} {
	words := make(map[string]struct{}, len(r.Balloons))
	for _, b := range r.Balloons {
		words[b.Word] = struct{}{}
	}
	return words
}

func (r *Room) Scores() map[string]int {
	scores := make(map[string]int, len(r.Players))
	for _, p := range r.Players {
		scores[p.Id] = p.Score
	}
	return scores
}

func (r *Room) PlayerSnapshots() []PlayerSnapshot {
	players := make([]PlayerSnapshot, 0, len(r.Players))
	for _, p := range r.Players {
		players = append(players, CreatePlayerSnapshot(p))
	}
	return players
}

func (r *Room) Snapshot() RoomSnapshot {
	return RoomSnapshot{
		RoomId:   r.Id,
		Players:  r.PlayerSnapshots(),
		Phase:    r.Phase,
		Language: r.Language,
	}
}

func (r *Room) Listing() RoomListing {
	hostName := "Unknown"
	if host := r.Host(); host != nil {
		hostName = host.Username
	}
	return RoomListing{
		Id:          r.Id,
		HostName:    hostName,
		PlayerCount: len(r.Players),
		MaxPlayers:  MaxPlayersPerRoom,
		IsPlaying:   r.Phase == PhasePlaying,
		Language:    r.Language,
	}
}

// IsJoinable reports whether quick-join may pick this room.
func (r *Room) IsJoinable() bool {
	return r.Phase == PhaseWaiting && !r.IsFull()
}
