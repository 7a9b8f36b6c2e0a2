package service

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/jask/trainlog/internal/database/repository"
)

// fuzzyWordThreshold is the similarity a query needs against one word of a
// field to count as a typo-tolerant match.
const fuzzyWordThreshold = 0.75

// FuzzyMatch reports whether query matches any field, either as a
// case-insensitive substring or within Levenshtein tolerance of a word.
// An empty query matches everything.
func FuzzyMatch(query string, fields ...string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, f := range fields {
		lf := strings.ToLower(f)
		if strings.Contains(lf, q) {
			return true
		}
		for _, word := range strings.FieldsFunc(lf, isSeparator) {
			if Similarity(word, q) >= fuzzyWordThreshold {
				return true
			}
		}
	}
	return false
}

func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsPunct(r)
}

// Similarity returns 1 - distance/longest over runes, in [0,1].
func Similarity(a, b string) float64 {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}

// SimilarNames returns existing signer names resembling name.
func SimilarNames(name string, existing []repository.Attendance, threshold float64) []string {
	n := strings.ToUpper(strings.TrimSpace(name))
	var out []string
	for _, a := range existing {
		if Similarity(n, strings.ToUpper(strings.TrimSpace(a.Name))) >= threshold {
			out = append(out, a.Name)
		}
	}
	return out
}
