package constants

import (
	"path/filepath"
	"strings"
)

// CertificateSuffix is the required tail of every certificate filename.
const CertificateSuffix = "-GCN.pdf"

// Sentinel identifier values. These are gating values, not real identifiers:
// comparison is never attempted when either side carries one of them.
const (
	IdentifierUnknown = "UNKNOWN" // filename parsing found no identifier
	IdentifierError   = "ERROR"   // recognition call failed
)

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsCertificatePDF reports whether a base filename looks like a scanned
// certificate: a .pdf whose name contains the "GCN" marker, matching how the
// files are produced upstream.
func IsCertificatePDF(name string) bool {
	return NormalizeExt(filepath.Ext(name)) == "pdf" && strings.Contains(name, "GCN")
}
