package service

import (
	"math"
	"sort"
	"strings"
)

// Ratio is the plain edit-distance similarity of two normalized strings,
// scaled to [0,100].
func Ratio(a, b string) float64 {
	if a == "" && b == "" {
		return 100
	}
	if a == "" || b == "" {
		return 0
	}
	d := damerauLevenshtein(a, b)
	m := len([]rune(a))
	if mb := len([]rune(b)); mb > m {
		m = mb
	}
	return (1 - float64(d)/float64(m)) * 100
}

// TokenSortRatio compares the strings with their tokens sorted, so word
// order does not matter.
func TokenSortRatio(a, b string) float64 {
	return Ratio(sortTokens(a), sortTokens(b))
}

// TokenSetRatio compares intersection and difference token sets: strings
// sharing a large common core score high even when one side carries extra
// tokens.
func TokenSetRatio(a, b string) float64 {
	ta := tokenSet(a)
	tb := tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return Ratio(a, b)
	}

	var common, diffA, diffB []string
	for t := range ta {
		if _, ok := tb[t]; ok {
			common = append(common, t)
		} else {
			diffA = append(diffA, t)
		}
	}
	for t := range tb {
		if _, ok := ta[t]; !ok {
			diffB = append(diffB, t)
		}
	}
	sort.Strings(common)
	sort.Strings(diffA)
	sort.Strings(diffB)

	base := strings.Join(common, " ")
	left := strings.TrimSpace(base + " " + strings.Join(diffA, " "))
	right := strings.TrimSpace(base + " " + strings.Join(diffB, " "))

	return math.Max(Ratio(base, left), math.Max(Ratio(base, right), Ratio(left, right)))
}

// Score reduces the three metrics optimistically: two strings are similar if
// they match strongly under any tokenization view. Symmetric, Score(x,x)=100.
// Signal only: the engine's thresholds make the actual decision.
func Score(a, b string) float64 {
	s := Ratio(a, b)
	if ts := TokenSortRatio(a, b); ts > s {
		s = ts
	}
	if tset := TokenSetRatio(a, b); tset > s {
		s = tset
	}
	return s
}

func sortTokens(s string) string {
	f := strings.Fields(s)
	sort.Strings(f)
	return strings.Join(f, " ")
}

func tokenSet(s string) map[string]struct{} {
	m := make(map[string]struct{})
	for _, t := range strings.Fields(s) {
		m[t] = struct{}{}
	}
	return m
}
