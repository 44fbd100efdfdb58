package identity

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
)

// IDLength is the fixed width of account ids.
const IDLength = 8

var idRE = regexp.MustCompile(`^[0-9]{8}$`)

// NewAccountID returns a fresh 8-digit decimal id. Uniqueness is enforced by
// the store's primary key, not here; collisions surface as insert conflicts
// and are retried by Register.
func NewAccountID() (string, error) {
	buf := make([]byte, 0, IDLength)
	ten := big.NewInt(10)
	for i := 0; i < IDLength; i++ {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", fmt.Errorf("generate account id: %w", err)
		}
		buf = append(buf, byte('0'+n.Int64()))
	}
	return string(buf), nil
}

// ValidID reports whether s has the fixed 8-digit account id format.
func ValidID(s string) bool {
	return idRE.MatchString(s)
}
