// Package idgen generates the session identities used as user_id on chat,
// invest and portfolio calls and as the subscription channel name.
package idgen

import (
	"fmt"
	"strconv"
	"time"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// UserPrefix is prepended to generated user IDs.
const UserPrefix = "user-"

// Alphabet defines the character set used for the random portion of the ID.
// Lowercase only, so IDs survive case-folding proxies in the channel path.
const Alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Length is the number of random characters generated (excluding the prefix).
const Length = 12

// New returns prefix followed by Length random characters from Alphabet.
func New(prefix string) (string, error) {
	id, err := nanoid.Generate(Alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return prefix + id, nil
}

// UserID returns a fresh session identity. If the random source fails it
// falls back to the current Unix time in milliseconds.
func UserID() string {
	id, err := New(UserPrefix)
	if err != nil {
		return UserPrefix + strconv.FormatInt(time.Now().UnixMilli(), 10)
	}
	return id
}
