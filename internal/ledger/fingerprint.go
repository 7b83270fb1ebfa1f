package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/redcliff-io/findings-ledger/internal/model"
)

const fingerprintHexLen = 16

// Fingerprint derives a stable identity key for one tool's report of one
// issue at one location. Tool is part of the input, so two tools
// reporting the same location never collide; cross-tool identity is the
// clusterer's job, not the fingerprint's.
func Fingerprint(tool model.Tool, ruleID, filePath string, startLine int) string {
	raw := strings.Join([]string{
		string(tool),
		ruleID,
		filePath,
		strconv.Itoa(startLine),
	}, "|")
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])[:fingerprintHexLen]
}
