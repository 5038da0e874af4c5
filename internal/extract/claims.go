package extract

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ppiankov/factcheck/internal/model"
	"golang.org/x/net/html"
)

// ErrNoClaim is returned when text does not contain a recognized capital claim.
// Callers treat it as "nothing to verify", not as a failure.
var ErrNoClaim = errors.New("no claim detected")

var (
	// anchoredPattern must match at the start of the text
	anchoredPattern = regexp.MustCompile(`(?i)^The capital of ([\p{L}\s]+) is ([\p{L}\s,\.]+)`)

	// detectPattern matches anywhere and accepts a second phrasing
	detectPattern = regexp.MustCompile(`(?i)(?:the capital of|capital city of) ([\p{L}\s]+) is ([\p{L}\s,\.]+)`)

	// abbreviationSuffix matches a trailing single-letter abbreviation such as "D.C."
	abbreviationSuffix = regexp.MustCompile(`(^|[^\p{L}])\p{L}\.$`)
)

// ParseClaim extracts a (country, claimed capital) pair from text that starts
// with "The capital of {country} is {capital}". Trailing text that falls
// outside the capital's character set is ignored, as is a sentence-ending period.
func ParseClaim(text string) (model.Claim, error) {
	m := anchoredPattern.FindStringSubmatch(text)
	if m == nil {
		return model.Claim{}, ErrNoClaim
	}

	return model.Claim{
		Text:           text,
		Country:        strings.TrimSpace(m[1]),
		ClaimedCapital: trimSentenceEnd(m[2]),
	}, nil
}

// DetectClaims finds every capital claim anywhere in text and rewrites each
// one in the canonical "The capital of {country} is {city}" form.
func DetectClaims(text string) []string {
	var claims []string
	for _, m := range detectPattern.FindAllStringSubmatch(text, -1) {
		country := strings.TrimSpace(m[1])
		city := trimSentenceEnd(m[2])
		if country == "" || city == "" {
			continue
		}
		claims = append(claims, FormatClaim(country, city))
	}
	return claims
}

// trimSentenceEnd drops punctuation that closes the surrounding sentence
// while keeping the period of a trailing abbreviation.
func trimSentenceEnd(city string) string {
	city = strings.TrimRight(strings.TrimSpace(city), ", ")
	for strings.HasSuffix(city, ".") && !abbreviationSuffix.MatchString(city) {
		city = strings.TrimRight(strings.TrimSuffix(city, "."), ", ")
	}
	return city
}

// FormatClaim renders a claim in the form ParseClaim accepts
func FormatClaim(country, capital string) string {
	return fmt.Sprintf("The capital of %s is %s", country, capital)
}

// ClaimsFromHTML detects capital claims in the visible text of an HTML document
func ClaimsFromHTML(htmlContent string) ([]string, error) {
	text, err := VisibleText(htmlContent)
	if err != nil {
		return nil, err
	}

	var claims []string
	for _, sentence := range splitSentences(text) {
		claims = append(claims, DetectClaims(sentence)...)
	}

	return dedupeClaims(claims), nil
}

// VisibleText parses HTML and returns its text nodes, skipping scripts and styles
func VisibleText(htmlContent string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	return extractVisibleText(doc), nil
}

// extractVisibleText extracts text nodes from HTML, skipping scripts/styles
func extractVisibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return buf.String()
}

// splitSentences splits text on terminators followed by whitespace.
// A period inside "D.C." is not followed by a space and does not split.
func splitSentences(text string) []string {
	text = strings.ReplaceAll(text, "\n", " ")

	var sentences []string
	var current strings.Builder

	for i, r := range text {
		current.WriteRune(r)

		if r == '.' || r == '!' || r == '?' {
			if i+1 < len(text) && (text[i+1] == ' ' || text[i+1] == '\t') {
				if s := strings.TrimSpace(current.String()); s != "" {
					sentences = append(sentences, s)
				}
				current.Reset()
			}
		}
	}

	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}

// dedupeClaims removes duplicate claims, ignoring case
func dedupeClaims(claims []string) []string {
	seen := make(map[string]bool)
	var unique []string

	for _, claim := range claims {
		key := strings.ToLower(strings.TrimSpace(claim))
		if !seen[key] {
			seen[key] = true
			unique = append(unique, claim)
		}
	}

	return unique
}
