package constants

import "strings"

// AllowedOfferExtensions holds the offer document types we can turn into text.
// Scanned PDFs without a text layer are rejected downstream, not here.
var AllowedOfferExtensions = map[string]struct{}{
	"txt": {},
	"pdf": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsAllowedOfferExt reports whether the (possibly dotted) extension is supported.
func IsAllowedOfferExt(ext string) bool {
	_, ok := AllowedOfferExtensions[NormalizeExt(ext)]
	return ok
}
