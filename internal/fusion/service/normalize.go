package service

import (
	"regexp"
	"strings"

	"golang.org/x/text/width"
)

// Tokens that mean "vendor reported nothing". Canonicalized to the empty
// string, which every downstream stage treats as no data.
var negativeTokens = map[string]struct{}{
	"-": {}, "—": {}, "/": {}, "无": {}, "暂无": {}, "没有": {},
	"n/a": {}, "na": {}, "none": {}, "null": {}, "nil": {},
}

// full-width and typographic punctuation → canonical half-width forms
var punctUnifier = strings.NewReplacer(
	"，", ",", "。", ".", "；", ";", "：", ":",
	"（", "(", "）", ")", "【", "[", "】", "]",
	"“", `"`, "”", `"`, "‘", "'", "’", "'",
	"、", ",",
)

var (
	// anything that is not letter, digit or whitespace, except the characters
	// the numeric parser still needs (. , % ± ≥ ≤ ~ - × / ℃ ° + parens)
	punct = regexp.MustCompile(`[^\p{L}\p{N}\s.,%±≥≤~\-×/℃°()+]+`)

	// comparison key: letters and digits only (CJK included)
	keyStrip = regexp.MustCompile(`[^\p{L}\p{N}]+`)
)

// Normalize is the canonical text pipeline: total, deterministic, never fails.
// Empty or negative input yields "".
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	// 1) full-width → half-width (ｍｍ → mm, １２ → 12)
	out := width.Fold.String(s)

	// 2) unify typographic punctuation
	out = punctUnifier.Replace(out)

	// 3) case
	out = strings.ToLower(out)

	// 4) unify comparison operators before punctuation stripping eats < and >
	out = comparisonUnifier.Replace(out)

	// 5) collapse whitespace, incl. NBSP and ideographic space
	out = collapseSpaces(out)

	// 6) drop residual punctuation noise
	out = collapseSpaces(punct.ReplaceAllString(out, " "))

	if _, neg := negativeTokens[out]; neg {
		return ""
	}
	return out
}

// CompareKey reduces a normalized string to letters and digits only.
// "12 mm", "12mm" and "12 MM" share one key.
func CompareKey(s string) string {
	return keyStrip.ReplaceAllString(Normalize(s), "")
}

// collapseSpaces folds NBSP/thin/narrow/ideographic spaces to plain spaces
// and squeezes runs.
func collapseSpaces(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', ' ', ' ', '　':
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}
