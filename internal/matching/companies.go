package matching

import (
	"regexp"
	"strings"
)

const maxCompanies = 10

var companySuffix = regexp.MustCompile(`\b([A-Z][A-Za-z0-9&.\-]*(?:\s+[A-Z][A-Za-z0-9&.\-]*)*\s+(?:Inc|Corp|Corporation|LLC|Ltd|Limited|Company|Co|Group|Technologies|Solutions|Systems|Software|AI|ML|Tech|Ventures|Capital|Partners|Associates|Consulting|Services))\.?\b`)

var adjacentCapitalized = regexp.MustCompile(`\b([A-Z][a-z]+\s+[A-Z][a-z]+)\b`)

// Generic phrases the capitalized-pair fallback keeps matching in prose.
var genericTerms = map[string]struct{}{
	"the": {}, "this": {}, "that": {}, "these": {}, "those": {},
	"new": {}, "united": {}, "states": {}, "north": {}, "south": {},
	"east": {}, "west": {}, "first": {}, "last": {}, "next": {},
}

// ExtractCompanies pulls likely company names out of text, preferring
// legal-suffix matches and falling back to adjacent capitalized word
// pairs when none are found.
func ExtractCompanies(text string) []string {
	seen := make(map[string]struct{})
	var companies []string

	add := func(name string) {
		name = strings.TrimSpace(strings.TrimSuffix(name, "."))
		if len(name) <= 5 || strings.Count(name, " ") < 1 {
			return
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		companies = append(companies, name)
	}

	for _, m := range companySuffix.FindAllStringSubmatch(text, -1) {
		add(m[1])
		if len(companies) >= maxCompanies {
			return companies
		}
	}

	if len(companies) > 0 {
		return companies
	}

	for _, m := range adjacentCapitalized.FindAllStringSubmatch(text, -1) {
		if isGenericPair(m[1]) {
			continue
		}
		add(m[1])
		if len(companies) >= 5 {
			break
		}
	}
	return companies
}

func isGenericPair(pair string) bool {
	for _, w := range strings.Fields(strings.ToLower(pair)) {
		if _, ok := genericTerms[w]; ok {
			return true
		}
	}
	return false
}
