package game

import (
	"slices"
	"time"

	"github.com/scythe504/typing-hub-backend/internal"
)

// CalculateFinalResults compiles the leaderboard of a finished game.
// Ties keep roster order.
func CalculateFinalResults(room *internal.Room, finishedAt time.Time) internal.FinalResults {
	results := internal.FinalResults{
		RoomId:       room.Id,
		Language:     room.Language,
		TotalPlayers: len(room.Players),
		FinishedAt:   finishedAt,
	}

	playerData := make([]internal.GameResultData, 0, len(room.Players))
	for _, player := range room.Players {
		playerData = append(playerData, internal.GameResultData{
			PlayerID: player.Id,
			Username: player.Username,
			Score:    player.Score,
		})
	}

	slices.SortStableFunc(playerData, func(a, b internal.GameResultData) int {
		return b.Score - a.Score
	})
	for idx := range playerData {
		playerData[idx].Position = idx + 1
	}
	results.Leaderboard = playerData

	if len(playerData) > 0 {
		mvp := playerData[0]
		results.MVP = &mvp
	}
	return results
}
