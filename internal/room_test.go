package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRoom(names ...string) *Room {
	room := NewRoom("room_test", &Player{Id: names[0], Username: names[0]})
	for _, n := range names[1:] {
		room.AddPlayer(&Player{Id: n, Username: n, IsHost: true, IsReady: true, Score: 99})
	}
	return room
}

func TestNewRoom(t *testing.T) {
	room := newTestRoom("alice")
	assert.Equal(t, PhaseWaiting, room.Phase)
	assert.Equal(t, LanguageKorean, room.Language)
	assert.True(t, room.IsHost("alice"))
	assert.True(t, room.Host().IsReady)
}

func TestAddPlayerResetsFlags(t *testing.T) {
	room := newTestRoom("alice", "bob")
	bob := room.GetPlayer("bob")
	require.NotNil(t, bob)
	assert.False(t, bob.IsHost)
	assert.False(t, bob.IsReady)
	assert.Zero(t, bob.Score)
}

func TestRemovePlayer(t *testing.T) {
	t.Run("host leaves", func(t *testing.T) {
		room := newTestRoom("alice", "bob", "carol")
		removed, promoted := room.RemovePlayer("alice")
		require.NotNil(t, removed)
		require.NotNil(t, promoted)
		assert.Equal(t, "bob", promoted.Id)
		assert.True(t, promoted.IsHost)
		assert.True(t, promoted.IsReady)
		assert.Equal(t, promoted, room.Players[0])
		assert.False(t, room.Players[1].IsHost)
	})

	t.Run("member leaves", func(t *testing.T) {
		room := newTestRoom("alice", "bob", "carol")
		removed, promoted := room.RemovePlayer("bob")
		require.NotNil(t, removed)
		assert.Nil(t, promoted)
		assert.Equal(t, []string{"alice", "carol"}, []string{room.Players[0].Id, room.Players[1].Id})
	})

	t.Run("absent player", func(t *testing.T) {
		room := newTestRoom("alice")
		removed, promoted := room.RemovePlayer("nobody")
		assert.Nil(t, removed)
		assert.Nil(t, promoted)
		assert.Equal(t, 1, room.GetPlayerCount())
	})

	t.Run("last player", func(t *testing.T) {
		room := newTestRoom("alice")
		removed, promoted := room.RemovePlayer("alice")
		assert.NotNil(t, removed)
		assert.Nil(t, promoted)
		assert.True(t, room.IsEmpty())
		assert.Nil(t, room.Host())
		assert.Equal(t, "Unknown", room.Listing().HostName)
	})
}

func TestAreAllPlayersReady(t *testing.T) {
	room := newTestRoom("alice")
	assert.True(t, room.AreAllPlayersReady())

	room.AddPlayer(&Player{Id: "bob"})
	assert.False(t, room.AreAllPlayersReady())

	room.GetPlayer("bob").IsReady = true
	assert.True(t, room.AreAllPlayersReady())
}

func TestResetPlayers(t *testing.T) {
	room := newTestRoom("alice", "bob")
	room.Players[0].Score = 40
	room.Players[1].Score = 70
	room.Players[1].IsReady = true

	room.ResetPlayers()
	assert.Equal(t, map[string]int{"alice": 0, "bob": 0}, room.Scores())
	assert.True(t, room.Players[0].IsReady)
	assert.False(t, room.Players[1].IsReady)
}

func TestJoinable(t *testing.T) {
	names := []string{"p0", "p1", "p2", "p3", "p4", "p5", "p6", "p7"}
	room := newTestRoom(names[:MaxPlayersPerRoom-1]...)
	assert.True(t, room.IsJoinable())

	room.AddPlayer(&Player{Id: "last"})
	assert.True(t, room.IsFull())
	assert.False(t, room.IsJoinable())

	room.RemovePlayer("last")
	room.Phase = PhasePlaying
	assert.False(t, room.IsJoinable())
	assert.True(t, room.Listing().IsPlaying)
}

func TestBalloonLookup(t *testing.T) {
	room := newTestRoom("alice")
	room.Balloons = []Balloon{{Id: 4, Word: "cat"}, {Id: 9, Word: "dog"}}

	assert.Equal(t, 1, room.BalloonIndex(9))
	assert.Equal(t, -1, room.BalloonIndex(5))
	assert.Equal(t, map[string]struct{}{"cat": {}, "dog": {}}, room.BalloonWords())
}

func TestLanguageValid(t *testing.T) {
	assert.True(t, LanguageKorean.Valid())
	assert.True(t, LanguageEnglish.Valid())
	assert.False(t, Language("fr").Valid())
	assert.False(t, Language("").Valid())
}
