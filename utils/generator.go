package utils

import (
	"fmt"
	"math/rand"
)

// GenerateReferenceCode produces the human-facing booking reference shown to
// requesters, e.g. REQ-4821. Codes are drawn from a small range and are not
// globally unique; the store-assigned document id is the authoritative key.
func GenerateReferenceCode() string {
	return fmt.Sprintf("REQ-%d", 1000+rand.Intn(9000))
}
