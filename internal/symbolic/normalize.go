package symbolic

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	numberRe     = regexp.MustCompile(`\b\d+(?:\.\d+)?\b`)
	compoundRe   = regexp.MustCompile(`^(\d+)\s*([a-z])$`)
	articles     = []string{"the ", "a ", "an "}
)

// Normalize lowercases, trims, collapses whitespace and drops a leading article.
func Normalize(phrase string) string {
	p := strings.ToLower(strings.TrimSpace(phrase))
	p = whitespaceRe.ReplaceAllString(p, " ")
	for _, a := range articles {
		if strings.HasPrefix(p, a) && len(p) > len(a) {
			return strings.TrimSpace(p[len(a):])
		}
	}
	return p
}

// looseForm folds underscores into spaces for comparisons that ignore the
// difference between "total cost" and "total_cost".
func looseForm(s string) string {
	s = strings.ToLower(strings.ReplaceAll(s, "_", " "))
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// largestNumber returns the numerically largest number embedded in s.
func largestNumber(s string) (string, bool) {
	best, bestVal, found := "", 0.0, false
	for _, m := range numberRe.FindAllString(s, -1) {
		v, err := strconv.ParseFloat(m, 64)
		if err != nil {
			continue
		}
		if !found || v > bestVal {
			best, bestVal, found = m, v, true
		}
	}
	return best, found
}

// splitCompound matches "<digits><letter>" such as "2x".
func splitCompound(phrase string) (digits, letter string, ok bool) {
	m := compoundRe.FindStringSubmatch(phrase)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}
