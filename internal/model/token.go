package model

import "time"

// Token is an opaque short-lived credential stored in the tokens collection.
// Issuance is handled out of band; this service only reads and verifies.
type Token struct {
	ID      string `json:"id"`
	Phone   string `json:"phone"`
	Expires int64  `json:"expires"` // unix milliseconds
}

// Expired reports whether the token's expiry is in the past
func (t *Token) Expired(now time.Time) bool {
	return t.Expires <= now.UnixMilli()
}
