package gcn

import "github.com/KhanhD1nh/compare-gcn/constants"

// Compare normalizes both identifiers and reports whether they agree.
// Normalization is idempotent, so already-canonical inputs are safe.
// Callers must gate out the UNKNOWN/ERROR sentinels before calling.
func Compare(filenameID, recognizedID string) constants.Verdict {
	if Normalize(filenameID) == Normalize(recognizedID) {
		return constants.VerdictMatch
	}
	return constants.VerdictMismatch
}
