// Package ingestion prepares job descriptions for analysis: HTML stripping,
// whitespace cleanup, and loading from files or URLs.
package ingestion

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	innerSpaceRe  = regexp.MustCompile(`\s+`)
	blankLinesRe  = regexp.MustCompile(`\n\n\n+`)
	bulletPrefixes = []string{"- ", "* ", "• ", "· "}
)

// CleanText cleans and normalizes job description text while preserving its
// line structure (headings and bullet lists stay on their own lines).
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		cleaned = append(cleaned, cleanLine(line))
	}

	result := strings.Join(cleaned, "\n")
	result = blankLinesRe.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

func cleanLine(line string) string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return ""
	}

	if isBulletLine(trimmed) {
		marker, rest := trimmed[:strings.IndexByte(trimmed, ' ')+1], trimmed[strings.IndexByte(trimmed, ' ')+1:]
		return marker + innerSpaceRe.ReplaceAllString(strings.TrimSpace(rest), " ")
	}
	return innerSpaceRe.ReplaceAllString(trimmed, " ")
}

func isBulletLine(line string) bool {
	for _, p := range bulletPrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

// PrepareJobText turns a pasted or uploaded job description into clean text.
// Markup is stripped first when the text looks like HTML.
func PrepareJobText(description string) string {
	if LooksLikeHTML(description) {
		if text, err := HTMLToText(description); err == nil {
			description = text
		}
	}
	return CleanText(description)
}

// IngestFromFile reads a job description file (plain text, Markdown or HTML),
// cleans it, and returns the cleaned text with metadata.
func IngestFromFile(path string) (string, *Metadata, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, fmt.Errorf("file not found: %w", err)
		}
		return "", nil, fmt.Errorf("failed to read file: %w", err)
	}

	text := string(content)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		stripped, err := HTMLToText(text)
		if err != nil {
			return "", nil, err
		}
		text = CleanText(stripped)
	default:
		text = PrepareJobText(text)
	}

	return text, NewMetadata(text, path), nil
}
