package extraction

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

var lineBreakReplacer = strings.NewReplacer(
	"\r\n", "\n",
	"\r", "\n",
	"\u2028", "\n",
	"\u2029", "\n",
	"\f", "\n",
	"\v", "\n",
)

// NormalizeText removes control characters and layout artifacts from text,
// collapses runs of horizontal whitespace to one space, keeps each non-empty
// paragraph on its own line, and truncates to maxChars runes when maxChars > 0.
func NormalizeText(text string, maxChars int) string {
	if text == "" {
		return ""
	}

	text = strings.ToValidUTF8(text, string(utf8.RuneError))
	text = lineBreakReplacer.Replace(text)

	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if cleaned := collapseLine(line); cleaned != "" {
			kept = append(kept, cleaned)
		}
	}

	return truncateRunes(strings.Join(kept, "\n"), maxChars)
}

// collapseLine drops control and format characters and collapses whitespace.
func collapseLine(line string) string {
	var sb strings.Builder
	sb.Grow(len(line))
	pendingSpace := false
	for _, r := range line {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = true
		case unicode.IsControl(r), unicode.Is(unicode.Cf, r):
			// zero-width and bidi marks, BOM, embedded NULs
		default:
			if pendingSpace && sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			pendingSpace = false
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func truncateRunes(s string, maxChars int) string {
	if maxChars <= 0 || utf8.RuneCountInString(s) <= maxChars {
		return s
	}
	count := 0
	for i := range s {
		if count == maxChars {
			return strings.TrimSpace(s[:i])
		}
		count++
	}
	return s
}
