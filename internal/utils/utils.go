package utils

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"
)

// GenerateID returns n hex characters of a random uuid (n <= 32).
func GenerateID(n int) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	if n <= 0 || n > len(id) {
		return id
	}
	return id[:n]
}

// GenerateRoomID returns ids of the form room_<12 hex chars>.
func GenerateRoomID() string {
	return "room_" + GenerateID(12)
}

// PlaceholderName is used when a user logs in without a display name.
func PlaceholderName() string {
	return fmt.Sprintf("User%d", rand.Intn(1000))
}
