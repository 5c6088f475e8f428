package visitstore

import (
	"encoding/hex"
	"strings"

	"github.com/zeebo/blake3"
)

// NaturalKey identifies a visit by who, when and at what time. Visitor names
// compare case-insensitively with whitespace collapsed.
func NaturalKey(visitor, date, clock string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(visitor), " ")) + "|" + date + "|" + clock
	sum := blake3.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
