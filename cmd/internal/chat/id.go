package chat

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// NewSessionID returns a ULID used to tag one open chat session in logs.
// ULIDs sort lexicographically by open time, which keeps interleaved session
// logs readable.
func NewSessionID(now time.Time) (string, error) {
	if now.IsZero() {
		now = time.Now().UTC()
	}

	id, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
