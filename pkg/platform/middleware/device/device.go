// Package device summarises a User-Agent into the short form recorded on
// review entries.
package device

import (
	"strings"

	"github.com/mssola/useragent"
)

// Describe returns e.g. "Chrome 120 on Windows 10 (desktop)". Empty input
// gives an empty summary.
func Describe(userAgent string) string {
	if strings.TrimSpace(userAgent) == "" {
		return ""
	}
	ua := useragent.New(userAgent)
	if ua.Bot() {
		name, _ := ua.Browser()
		return "bot " + name
	}

	parts := make([]string, 0, 4)
	if name, version := ua.Browser(); name != "" {
		if major, _, _ := strings.Cut(version, "."); major != "" {
			name += " " + major
		}
		parts = append(parts, name)
	}
	if os := ua.OS(); os != "" {
		parts = append(parts, "on", os)
	}
	kind := "desktop"
	if ua.Mobile() {
		kind = "mobile"
	}
	parts = append(parts, "("+kind+")")
	return strings.Join(parts, " ")
}
