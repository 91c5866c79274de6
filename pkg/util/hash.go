package util

import (
	"crypto/md5"
	"encoding/hex"
)

// HashBytes returns the MD5 hex digest of raw bytes. Used to fingerprint a
// loaded dataset and to log request queries without their values.
func HashBytes(b []byte) string {
	sum := md5.Sum(b)
	return hex.EncodeToString(sum[:])
}
