package service

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// contentHash fingerprints a message by (title, body) only. Two messages with
// the same title and body are duplicates regardless of timestamp, author or
// meta; the exporter and the importer must agree on this exact computation.
func contentHash(title, content string) string {
	sum := md5.Sum([]byte(strings.TrimSpace(title) + content))
	return hex.EncodeToString(sum[:])
}
