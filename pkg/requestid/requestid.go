package requestid

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// Header carries the request id on every outgoing API call.
const Header = "X-Request-ID"

// New generates a request id for one outgoing API call.
func New() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err == nil {
		return hex.EncodeToString(buf)
	}

	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}
