package utils

import (
	"strings"
	"unicode/utf8"
)

const maxFilenameLength = 200

// reservedFilenameRunes cannot appear in a file name on Windows, and "/"
// cannot appear anywhere.
const reservedFilenameRunes = `<>:"/\|?*`

// SanitizeFilename makes name safe to offer as a download file name.
// Reserved characters are dropped, runs of whitespace become one space and
// the result is cut to maxFilenameLength bytes on a rune boundary.
func SanitizeFilename(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(reservedFilenameRunes, r) {
			return -1
		}
		return r
	}, name)
	name = strings.Join(strings.Fields(name), " ")

	if len(name) > maxFilenameLength {
		cut := maxFilenameLength
		for cut > 0 && !utf8.RuneStart(name[cut]) {
			cut--
		}
		name = strings.TrimSpace(name[:cut])
	}
	if name == "" {
		return "Untitled"
	}
	return name
}

// ReportFilename is the markdown file name of a saved AI report.
func ReportFilename(period string) string {
	return SanitizeFilename("AI suggestions - "+period) + ".md"
}
