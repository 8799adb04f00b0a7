package gcn

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/KhanhD1nh/compare-gcn/constants"
)

var (
	filenameRe   = regexp.MustCompile(`^([A-Z]{1,2})\s*([0-9]+)-GCN\.pdf$`)
	leadLetterRe = regexp.MustCompile(`^[a-zA-Z]{1,2}`)
	anyDigitRe   = regexp.MustCompile(`[0-9]`)

	extractRe  = regexp.MustCompile(`(?i)([A-Z]{1,2}\s*[0-9]+)-GCN`)
	fallbackRe = regexp.MustCompile(`(?i)_([A-Z]{1,2}\s*[0-9]+)-`)
)

// ValidateFilename checks a base filename against the required shape:
// 1-2 uppercase letters, optional whitespace, digits, then "-GCN.pdf".
//
// On failure the returned reason pinpoints the first broken rule, in priority
// order, so callers can show it to a user as is. The reasons are the tool's
// established Vietnamese user-facing strings.
func ValidateFilename(name string) (bool, string) {
	if filenameRe.MatchString(name) {
		return true, ""
	}

	if !strings.HasSuffix(name, ".pdf") {
		return false, "Không phải file PDF"
	}
	if !strings.HasSuffix(name, constants.CertificateSuffix) {
		return false, "Không kết thúc bằng -GCN.pdf"
	}
	prefix := leadLetterRe.FindString(name)
	if prefix == "" {
		return false, "Không có chữ cái đầu tiên"
	}
	if prefix != strings.ToUpper(prefix) {
		return false, fmt.Sprintf("Chữ cái phải viết HOA (hiện tại: '%s')", prefix)
	}
	if !anyDigitRe.MatchString(name) {
		return false, "Thiếu phần số"
	}
	return false, "Sai format tên file"
}

// ExtractFromFilename pulls the certificate number out of a filename and
// normalizes it. The primary pattern is the identifier immediately before
// "-GCN"; a secondary pattern anchored after an underscore covers exporter
// filenames like "scan-2025-11-15_AA 01555158-GCN.pdf". Both searches are
// case-insensitive, deliberately looser than ValidateFilename.
//
// Returns constants.IdentifierUnknown when nothing matches; downstream
// comparison treats that as "identifier absent", never as a candidate value.
func ExtractFromFilename(name string) string {
	if m := extractRe.FindStringSubmatch(name); m != nil {
		return Normalize(m[1])
	}
	if m := fallbackRe.FindStringSubmatch(name); m != nil {
		return Normalize(m[1])
	}
	return constants.IdentifierUnknown
}
