package utils

import (
	"fmt"
	"math/rand"
	"unicode/utf8"

	"github.com/scythe504/typing-hub-backend/internal"
)

const (
	MaxWordAttempts    = 10
	PointsPerCharacter = 10
)

// Each entry is one ticket in the draw, so short tiers come up more often.
var lengthWeights = []int{2, 2, 2, 3, 3, 3, 3, 4, 4, 5, 5, 6}

// BalloonGenerator is not safe for concurrent use. The hub owns one.
type BalloonGenerator struct {
	rng   *rand.Rand
	vocab Vocabulary
}

func NewBalloonGenerator(vocab Vocabulary, seed int64) *BalloonGenerator {
	return &BalloonGenerator{
		rng:   rand.New(rand.NewSource(seed)),
		vocab: vocab,
	}
}

func (g *BalloonGenerator) tier(lang internal.Language, length int) []string {
	tiers, ok := g.vocab[lang]
	if !ok {
		tiers = g.vocab[internal.LanguageKorean]
	}
	if words := tiers[length]; len(words) > 0 {
		return words
	}
	return tiers[lengthWeights[0]]
}

// RandomWord draws a weighted tier, then a uniform word from it.
func (g *BalloonGenerator) RandomWord(lang internal.Language) string {
	length := lengthWeights[g.rng.Intn(len(lengthWeights))]
	words := g.tier(lang, length)
	if len(words) == 0 {
		return ""
	}
	return words[g.rng.Intn(len(words))]
}

// drawWord tries at most MaxWordAttempts draws for a word not in existing
// and settles for the last draw if every one was a duplicate.
func (g *BalloonGenerator) drawWord(lang internal.Language, existing map[string]struct{}) (string, int) {
	var word string
	attempts := 0
	for attempts < MaxWordAttempts {
		word = g.RandomWord(lang)
		attempts++
		if _, dup := existing[word]; !dup {
			break
		}
	}
	return word, attempts
}

func WordPoints(word string) int {
	return utf8.RuneCountInString(word) * PointsPerCharacter
}

// NewBalloon spawns anywhere in the field when initial, otherwise just
// below the bottom edge (y in [100, 110)).
func (g *BalloonGenerator) NewBalloon(id int, initial bool, existing map[string]struct{}, lang internal.Language) internal.Balloon {
	word, _ := g.drawWord(lang, existing)

	y := 100 + g.rng.Float64()*10
	if initial {
		y = 10 + g.rng.Float64()*80
	}

	return internal.Balloon{
		Id:     id,
		Word:   word,
		X:      5 + g.rng.Float64()*85,
		Y:      y,
		Color:  fmt.Sprintf("hsl(%d, 70%%, 60%%)", g.rng.Intn(360)),
		Speed:  3 + g.rng.Float64()*2,
		Points: WordPoints(word),
	}
}

// InitialBalloons returns count balloons with ids firstID..firstID+count-1.
func (g *BalloonGenerator) InitialBalloons(firstID, count int, lang internal.Language) []internal.Balloon {
	balloons := make([]internal.Balloon, 0, count)
	existing := make(map[string]struct{}, count)
	for i := 0; i < count; i++ {
		b := g.NewBalloon(firstID+i, true, existing, lang)
		existing[b.Word] = struct{}{}
		balloons = append(balloons, b)
	}
	return balloons
}
