// Package text carries the small string helpers plugins share: title
// truncation, balanced line splitting, author-list parsing and HTML
// conversion for comment fields.
package text

import (
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// DefaultTitleLength is the truncation threshold for display titles.
const DefaultTitleLength = 75

// TruncateTitle shortens a title for display, appending an ellipsis when it
// was cut. maxLength <= 0 uses DefaultTitleLength.
func TruncateTitle(title string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultTitleLength
	}
	runes := []rune(title)
	if len(runes) <= maxLength {
		return title
	}
	return strings.TrimRight(string(runes[:maxLength]), " ") + "…"
}

// SplitLongText breaks text into lines of roughly equal width at word
// boundaries, trying two to ten lines and keeping the first split whose
// longest line fits maxLength. Text that cannot fit stays on one line per
// word in the worst case.
func SplitLongText(text string, maxLength int) []string {
	if maxLength <= 0 {
		maxLength = DefaultTitleLength
	}
	if len([]rune(text)) <= maxLength {
		return []string{text}
	}
	words := strings.Fields(text)

	for lines := 2; lines <= 10; lines++ {
		target := (charCount(words) + lines - 1) / lines
		if target > maxLength {
			continue
		}
		split := packWords(words, target)
		if longestLine(split) <= maxLength {
			return split
		}
	}
	return packWords(words, maxLength)
}

// JoinLongText is the inverse of SplitLongText.
func JoinLongText(lines []string) string {
	return strings.Join(lines, " ")
}

func charCount(words []string) int {
	n := 0
	for _, w := range words {
		n += len([]rune(w)) + 1
	}
	return n
}

func packWords(words []string, width int) []string {
	var lines []string
	var cur strings.Builder
	for _, w := range words {
		if cur.Len() > 0 && len([]rune(cur.String()))+1+len([]rune(w)) > width {
			lines = append(lines, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(w)
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}

func longestLine(lines []string) int {
	max := 0
	for _, l := range lines {
		if n := len([]rune(l)); n > max {
			max = n
		}
	}
	return max
}

// Duplicates returns the values that appear more than once, preserving
// first-seen order.
func Duplicates(values []string) []string {
	counts := map[string]int{}
	for _, v := range values {
		counts[v]++
	}
	var dups []string
	seen := map[string]struct{}{}
	for _, v := range values {
		if counts[v] > 1 {
			if _, done := seen[v]; !done {
				seen[v] = struct{}{}
				dups = append(dups, v)
			}
		}
	}
	return dups
}

// NormalizePath converts OS-style backslash separators to forward slashes.
func NormalizePath(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

// authorJoiner matches the textual connectives between author names.
var authorJoiner = regexp.MustCompile(`(?i),?\s+(and|with)\s+`)

// StringToAuthors splits a display author string into individual names,
// honoring commas, ampersands and "and"/"with" connectives.
func StringToAuthors(s string) []string {
	s = authorJoiner.ReplaceAllString(s, " & ")
	var authors []string
	for _, chunk := range strings.Split(s, "&") {
		for _, name := range strings.Split(chunk, ",") {
			name = strings.TrimSpace(name)
			if name != "" {
				authors = append(authors, name)
			}
		}
	}
	return authors
}

// AuthorsToString renders an author list the way the host displays it.
func AuthorsToString(authors []string) string {
	return strings.Join(authors, " & ")
}

// HTMLToMarkdown converts comment-field HTML to markdown.
func HTMLToMarkdown(html string) (string, error) {
	return htmltomarkdown.ConvertString(html)
}
