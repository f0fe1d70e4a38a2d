// Package speech prepares reply text for a text-to-speech engine.
package speech

import (
	"fmt"
	"regexp"
	"strings"
)

// Order matters: fences before inline code, bold before italic.
var cleanRules = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile("```[\\s\\S]*?```"), ""},
	{regexp.MustCompile("`([^`]+)`"), "$1"},
	{regexp.MustCompile(`\*\*([^*]+)\*\*`), "$1"},
	{regexp.MustCompile(`__([^_]+)__`), "$1"},
	{regexp.MustCompile(`\*([^*\n]+)\*`), "$1"},
	{regexp.MustCompile(`(?m)^#{1,6}[ \t]*`), ""},
	{regexp.MustCompile(`(?m)^[ \t]*[*+-][ \t]+`), ""},
	{regexp.MustCompile(`(?m)^[ \t]*\d+\.[ \t]+`), ""},
	{regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`), "$1"},
	{regexp.MustCompile(`\n{3,}`), "\n\n"},
}

// Clean strips markdown so the text reads naturally when spoken.
func Clean(text string) string {
	for _, r := range cleanRules {
		text = r.re.ReplaceAllString(text, r.repl)
	}
	return strings.TrimSpace(text)
}

// RateString renders a playback rate multiplier as a signed percentage
// offset, e.g. 1.25 -> "+25%", 0.75 -> "-25%".
func RateString(rate float64) string {
	pct := int((rate - 1) * 100)
	if rate >= 1 {
		return fmt.Sprintf("+%d%%", pct)
	}
	return fmt.Sprintf("%d%%", pct)
}
