package textutil

import (
	"crypto/md5"
	"fmt"
	"regexp"
	"strings"
)

var (
	htmlTagPattern    = regexp.MustCompile(`<[^>]+>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
	wordPattern       = regexp.MustCompile(`\b\w+\b`)
)

// HashString returns the hex-encoded md5 digest of the input.
func HashString(input string) string {
	hash := md5.Sum([]byte(input))
	return fmt.Sprintf("%x", hash)
}

// Normalize strips HTML tags, collapses whitespace and lowercases the text.
// All lexical metrics operate on normalized text.
func Normalize(text string) string {
	text = htmlTagPattern.ReplaceAllString(text, "")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.ToLower(strings.TrimSpace(text))
}

// Words tokenizes on word boundaries. Input is expected to be normalized.
func Words(text string) []string {
	return wordPattern.FindAllString(text, -1)
}

// WordSet returns the distinct words of the text.
func WordSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range Words(text) {
		set[w] = struct{}{}
	}
	return set
}
