package cache

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// Fingerprint derives a cheap identity key for a file from its absolute path
// and current size. It is deliberately not a content hash: a same-size edit
// at the same path is indistinguishable from "already processed". That
// trade-off buys stat-speed fingerprinting over large scan batches.
//
// Fingerprint never fails. If the size cannot be read it falls open to a
// path-only key, and if even the absolute path cannot be resolved it hashes
// the path as given.
func Fingerprint(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if st, err := os.Stat(abs); err == nil {
		return md5Hex(fmt.Sprintf("%s_%d", abs, st.Size()))
	}
	return md5Hex(abs)
}

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
