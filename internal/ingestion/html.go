package ingestion

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var htmlTagRe = regexp.MustCompile(`(?i)<(html|body|div|p|ul|ol|li|br|h[1-6]|span|strong|em)\b[^>]*>`)

// noiseSelector matches page chrome that never belongs to a job description.
const noiseSelector = "script, style, noscript, iframe, nav, header, footer, form, " +
	".ad, .ads, .advertisement, .sidebar, .cookie, .cookie-banner, .popup, .social, .menu"

// blockSelector matches elements whose text forms its own line.
const blockSelector = "h1, h2, h3, h4, h5, h6, p, li, dt, dd, td, th, pre, blockquote"

// jobContentSelectors locate the posting body on common job boards, most specific first.
var jobContentSelectors = []string{
	".job-description",
	"#job-description",
	".job-content",
	"#job-content",
	".posting-content",
	".job-details",
	"[data-testid='job-description']",
	"main",
	"article",
	"#content",
	".content",
}

// LooksLikeHTML reports whether text contains common block or inline HTML tags.
func LooksLikeHTML(text string) bool {
	return htmlTagRe.MatchString(text)
}

// HTMLToText extracts the readable text of an HTML job posting. Page chrome is
// removed, the most specific posting container is used when present, and each
// block element becomes its own line. List items are rendered as "- " bullets.
func HTMLToText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find(noiseSelector).Remove()

	root := doc.Find("body")
	for _, sel := range jobContentSelectors {
		if s := doc.Find(sel); s.Length() > 0 {
			root = s.First()
			break
		}
	}

	var lines []string
	root.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		// nested blocks are emitted by their own iteration
		if s.Find(blockSelector).Length() > 0 {
			return
		}
		text := innerSpaceRe.ReplaceAllString(strings.TrimSpace(s.Text()), " ")
		if text == "" {
			return
		}
		if goquery.NodeName(s) == "li" {
			text = "- " + text
		}
		lines = append(lines, text)
	})

	if len(lines) == 0 {
		return CleanText(root.Text()), nil
	}
	return strings.Join(lines, "\n"), nil
}
