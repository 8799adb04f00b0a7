package constants

// Status is the canonical terminal state of a processed file.
type Status string

// Stable values (store these exact strings in the cache DB).
const (
	StatusSuccess Status = "success" // recognition completed and both identifiers compared
	StatusSkip    Status = "skip"    // filename invalid or no page 2; no recognition attempted
	StatusError   Status = "error"   // recognition or identifier extraction failed
	StatusCached  Status = "cached"  // served from the result cache; never persisted itself
)

// Verdict is the outcome of comparing the filename identifier against the
// recognized identifier.
type Verdict string

const (
	VerdictMatch    Verdict = "MATCH"
	VerdictMismatch Verdict = "MISMATCH"
	VerdictNA       Verdict = "N/A" // either identifier absent or errored
)

// verdictDisplay maps verdicts to the user-facing labels the tool has always
// printed (its audience is Vietnamese land-registry staff).
var verdictDisplay = map[Verdict]string{
	VerdictMatch:    "Đúng",
	VerdictMismatch: "Cần hiệu đính",
	VerdictNA:       "N/A",
}

// DisplayVerdict returns the user-facing label for a verdict.
func DisplayVerdict(v Verdict) string {
	if s, ok := verdictDisplay[v]; ok {
		return s
	}
	return string(v)
}
