package nonce

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Action nonces protect the export/import mutations against cross-site
// submission. A nonce is an HMAC over (action, user, time tick); it stays
// valid for the current and the previous tick, so the effective lifetime is
// between tickSeconds and 2*tickSeconds.
const tickSeconds = 12 * 60 * 60

const tokenLen = 12

func Create(secret []byte, action, userID string, now time.Time) string {
	return sign(secret, action, userID, now.Unix()/tickSeconds)
}

func Verify(secret []byte, action, userID, token string, now time.Time) bool {
	if token == "" {
		return false
	}
	tick := now.Unix() / tickSeconds
	for _, t := range []int64{tick, tick - 1} {
		if hmac.Equal([]byte(sign(secret, action, userID, t)), []byte(token)) {
			return true
		}
	}
	return false
}

func sign(secret []byte, action, userID string, tick int64) string {
	mac := hmac.New(sha256.New, secret)
	fmt.Fprintf(mac, "%s|%s|%d", action, userID, tick)
	return hex.EncodeToString(mac.Sum(nil))[:tokenLen]
}
