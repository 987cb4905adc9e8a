package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		`q1<>:"/\|?*summary`:          "q1summary",
		"march\nreport\twith\rbreaks": "march report with breaks",
		"march   2025    report":      "march 2025 report",
		"  report  ":                  "report",
		"":                            "Untitled",
		"<>:?*":                       "Untitled",
		"Café & Groceries":            "Café & Groceries",
	}
	for in, want := range cases {
		assert.Equal(t, want, SanitizeFilename(in), "input %q", in)
	}
}

func TestSanitizeFilename_Truncates(t *testing.T) {
	assert.Equal(t, strings.Repeat("a", maxFilenameLength), SanitizeFilename(strings.Repeat("a", 250)))

	// A two-byte rune straddling the limit is dropped whole.
	long := strings.Repeat("a", maxFilenameLength-1) + "é" + "tail"
	got := SanitizeFilename(long)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("a", maxFilenameLength-1), got)
}

func TestReportFilename(t *testing.T) {
	assert.Equal(t, "AI suggestions - March 2025.md", ReportFilename("March 2025"))
	assert.Equal(t, "AI suggestions - 202503.md", ReportFilename("2025/03"))
}
