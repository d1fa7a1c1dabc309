package memzero

import "crypto/subtle"

// Zero wipes b. The constant-time copy keeps the compiler from
// eliding the write as dead.
func Zero(b []byte) {
	if len(b) == 0 {
		return
	}
	zero := make([]byte, len(b))
	subtle.ConstantTimeCopy(1, b, zero)
}
