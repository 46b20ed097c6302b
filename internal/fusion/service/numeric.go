package service

import (
	"regexp"
	"strconv"
	"strings"

	"fusion-service/internal/fusion/model"
)

const numPat = `\d+(?:,\d{3})*(?:\.\d+)?`

// unit suffix: latin/symbol run or a short Han run directly after the number
const unitPat = `(?:[a-zμ%℃°/]+|[\x{4e00}-\x{9fff}]{1,3})?`

var (
	reNumber = regexp.MustCompile(`(` + numPat + `)\s*(` + unitPat + `)`)
	reBare   = regexp.MustCompile(`^([≥≤><=]*)\s*(` + numPat + `)\s*(` + unitPat + `)$`)
	reRange  = regexp.MustCompile(`^([≥≤><=]*)\s*(` + numPat + `)\s*[-~至到]\s*(` + numPat + `)\s*(` + unitPat + `)$`)

	// margin forms: "5±0.1mm", "±5%", "误差不超过±10%", "≤±10%"
	reMargin     = regexp.MustCompile(`^(` + numPat + `)?\s*±\s*(` + numPat + `)\s*(` + unitPat + `)$`)
	reMarginWord = regexp.MustCompile(`误差[^±\d]*±?\s*(` + numPat + `)\s*(` + unitPat + `)`)
	reMarginLE   = regexp.MustCompile(`^[≤<]\s*±\s*(` + numPat + `)\s*(` + unitPat + `)$`)

	// dimension specs (1920×1080, 280mm×240mm) are whole identities, never
	// numeric-fused
	reDimension = regexp.MustCompile(`\d\s*(?:[a-z英寸"']{0,3})\s*[×x*]\s*\d`)

	reDigit = regexp.MustCompile(`\d`)
)

// model/series keywords: values naming a product generation are identities,
// not quantities
var modelKeywords = []string{
	"i3", "i5", "i7", "i9", "intel", "amd", "ryzen", "xeon", "pentium",
	"rtx", "gtx", "tesla", "radeon", "arc", "酷睿", "锐龙", "第", "代",
}

var comparisonUnifier = strings.NewReplacer(
	">=", "≥", "<=", "≤", ">", "≥", "<", "≤",
)

// NormalizeComparisons unifies comparison operators in operator-facing output
// (>、>= → ≥; <、<= → ≤). Full-width forms are folded by Normalize upstream.
func NormalizeComparisons(s string) string {
	return comparisonUnifier.Replace(s)
}

// HasDigits reports whether the string contains any numeric content.
func HasDigits(s string) bool { return reDigit.MatchString(s) }

// IsDimensionSpec detects size/resolution specs like "280mm×240mm" or
// "1920x1080" that must stay whole.
func IsDimensionSpec(norm string) bool {
	return reDimension.MatchString(norm) && !strings.Contains(norm, "-")
}

// HasModelKeyword detects product-model vocabulary (i5, rtx, 第12代 …).
func HasModelKeyword(norm string) bool {
	for _, kw := range modelKeywords {
		if strings.Contains(norm, kw) {
			return true
		}
	}
	return false
}

// ParseNumeric extracts number/unit/margin structure from a normalized
// string. ok=false means the value stays Text: malformed numbers never fail
// a row, they just degrade.
func ParseNumeric(norm string) (model.StructuredValue, bool) {
	sv := model.StructuredValue{Norm: norm}
	if norm == "" || !HasDigits(norm) {
		return sv, false
	}
	if IsDimensionSpec(norm) || HasModelKeyword(norm) {
		return sv, false
	}

	// margin forms first: "5±0.1" must not be read as a bare 5
	if m := reMargin.FindStringSubmatch(norm); m != nil {
		central := 0.0
		if m[1] != "" {
			v, err := parseFloat(m[1])
			if err != nil {
				return sv, false
			}
			central = v
		}
		margin, err := parseFloat(m[2])
		if err != nil {
			return sv, false
		}
		return buildNumeric(sv, central, margin, m[3])
	}
	if m := reMarginLE.FindStringSubmatch(norm); m != nil {
		margin, err := parseFloat(m[1])
		if err != nil {
			return sv, false
		}
		sv.Prefix = "≤"
		return buildNumeric(sv, 0, margin, m[2])
	}
	if m := reMarginWord.FindStringSubmatch(norm); m != nil {
		margin, err := parseFloat(m[1])
		if err != nil {
			return sv, false
		}
		sv.Prefix = "≤"
		return buildNumeric(sv, 0, margin, m[2])
	}

	if m := reRange.FindStringSubmatch(norm); m != nil {
		low, err1 := parseFloat(m[2])
		high, err2 := parseFloat(m[3])
		if err1 != nil || err2 != nil {
			return sv, false
		}
		if low > high {
			low, high = high, low
		}
		unit, family := canonicalUnit(m[4])
		if unit != "" && family != "" {
			low, _, _, _ = ToCanonical(low, m[4])
			high, _, _, _ = ToCanonical(high, m[4])
		}
		sv.Kind = model.KindRange
		sv.Prefix = NormalizeComparisons(m[1])
		sv.Low, sv.High = low, high
		sv.Unit, sv.Family = unit, family
		return sv, true
	}

	if m := reBare.FindStringSubmatch(norm); m != nil {
		v, err := parseFloat(m[2])
		if err != nil {
			return sv, false
		}
		sv.Prefix = NormalizeComparisons(m[1])
		return buildNumeric(sv, v, 0, m[3])
	}

	// several numeric tokens with no recognized delimiter → Text
	return sv, false
}

// buildNumeric finishes a Numeric value: unit classification and rescale to
// the family canonical unit.
func buildNumeric(sv model.StructuredValue, value, margin float64, unitTok string) (model.StructuredValue, bool) {
	unit, family := canonicalUnit(unitTok)
	if unit != "" && family != "" && !strings.HasPrefix(family, "x-") {
		value, _, _, _ = ToCanonical(value, unitTok)
		if margin > 0 {
			margin, _, _, _ = ToCanonical(margin, unitTok)
		}
	}
	sv.Kind = model.KindNumeric
	sv.Value = value
	sv.Margin = margin
	sv.Unit, sv.Family = unit, family
	return sv, true
}

// canonicalUnit resolves a captured unit token. Unknown non-empty tokens get
// an opaque per-token family so that different unrecognized units never
// merge (unit-mismatch policy); empty token means unitless.
func canonicalUnit(tok string) (unit, family string) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return "", ""
	}
	if _, _, _, ok := ToCanonical(1, tok); ok {
		fam, _, _ := lookupUnit(tok)
		return fam.canonical, fam.name
	}
	low := strings.ToLower(tok)
	return low, "x-" + low
}

// parseFloat handles thousands separators and stray spaces.
func parseFloat(s string) (float64, error) {
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	return strconv.ParseFloat(s, 64)
}

// FormatValue renders a structured numeric value for workbook output.
func FormatValue(sv model.StructuredValue) string {
	switch sv.Kind {
	case model.KindNumeric:
		out := sv.Prefix + formatFloat(sv.Value)
		if sv.Margin > 0 {
			if sv.Value == 0 && sv.Prefix == "" {
				out = "±" + formatFloat(sv.Margin)
			} else if sv.Value == 0 {
				out = sv.Prefix + "±" + formatFloat(sv.Margin)
			} else {
				out += "±" + formatFloat(sv.Margin)
			}
		}
		return out + sv.Unit
	case model.KindRange:
		return sv.Prefix + formatFloat(sv.Low) + "-" + formatFloat(sv.High) + sv.Unit
	default:
		return sv.Norm
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
