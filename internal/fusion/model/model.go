package model

import "strings"

// ValueKind tags the structured form a vendor cell reduces to.
type ValueKind int

const (
	KindEmpty ValueKind = iota
	KindText
	KindNumeric
	KindRange
)

func (k ValueKind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindText:
		return "text"
	case KindNumeric:
		return "numeric"
	case KindRange:
		return "range"
	}
	return "unknown"
}

// VendorCell is one raw vendor value. Immutable after read.
type VendorCell struct {
	Vendor int    `json:"vendor"` // column index, 0-based, order significant
	Raw    string `json:"raw"`
}

// ParameterRow is one specification line: the parameter name plus one cell
// per vendor column, in column order.
type ParameterRow struct {
	Name  string       `json:"name"`
	Cells []VendorCell `json:"cells"`
}

// StructuredValue is the preprocessed form of a VendorCell.
// Kind selects which fields are meaningful.
type StructuredValue struct {
	Kind   ValueKind
	Vendor int
	Raw    string  // original surface form
	Norm   string  // canonical text (kept for all kinds)
	Key    string  // punctuation-stripped comparison key
	Tokens string  // synonym-resolved token string (KindText)
	Value  float64 // central value (KindNumeric)
	Low    float64 // range bounds (KindRange)
	High   float64
	Unit   string  // canonical unit, "" when unitless
	Family string  // unit family, "" when unitless
	Margin float64 // ± error margin (KindNumeric), 0 when absent
	Prefix string  // comparison prefix (≥, ≤ …), "" when absent
}

// HasMargin reports whether the value carries an explicit ± error margin.
func (v StructuredValue) HasMargin() bool { return v.Kind == KindNumeric && v.Margin > 0 }

// Strategy is the fusion mode that produced a row's result.
type Strategy string

const (
	StrategyExact          Strategy = "exact"
	StrategyHighSimilarity Strategy = "high_similarity"
	StrategyMediumSim      Strategy = "medium_similarity"
	StrategySemantic       Strategy = "semantic"
	StrategyNumericRange   Strategy = "numeric_range"
	StrategyErrorStructure Strategy = "error_structure"
	StrategyDivergent      Strategy = "divergent"
)

// Label returns the operator-facing Chinese tag written to the workbook.
func (s Strategy) Label() string {
	switch s {
	case StrategyExact:
		return "精确匹配"
	case StrategyHighSimilarity:
		return "高相似度融合"
	case StrategyMediumSim:
		return "中等相似度融合"
	case StrategySemantic:
		return "语义匹配"
	case StrategyNumericRange:
		return "数字范围融合"
	case StrategyErrorStructure:
		return "误差融合"
	case StrategyDivergent:
		return "需人工审核"
	}
	return string(s)
}

// Proximity classifies how one vendor's value relates to the fused result.
type Proximity string

const (
	ProximityClose     Proximity = "close"
	ProximityNoData    Proximity = "no-data"
	ProximityDivergent Proximity = "divergent"
)

// FusionResult is produced once per ParameterRow.
type FusionResult struct {
	Name      string      `json:"name"`
	Fused     string      `json:"fused"`
	Strategy  Strategy    `json:"strategy"`
	Review    bool        `json:"review"`
	Proximity []Proximity `json:"proximity"`     // one entry per vendor column
	Err       string      `json:"err,omitempty"` // row-level fault, row still carries a result
}

// Rule is a per-parameter override, matched by exact name then substring.
type Rule struct {
	Type           string   `yaml:"type" json:"type"` // auto | text | numeric | dimension
	Unit           string   `yaml:"unit" json:"unit,omitempty"`
	HighSimilarity float64  `yaml:"high_similarity" json:"high_similarity,omitempty"`
	Tolerance      float64  `yaml:"tolerance" json:"tolerance,omitempty"`
	Modes          []string `yaml:"modes" json:"modes,omitempty"` // eligible strategies, empty = all
}

// Policy holds the threshold constants of the decision pipeline.
// Loaded once, read-only during a run.
type Policy struct {
	HighSimilarity   float64         `json:"high_similarity"`    // pairwise score ≥ this*100 ⇒ high-similarity fusion
	MediumSimilarity float64         `json:"medium_similarity"`  // ≥ this*100 ⇒ medium cluster membership
	NumericTolerance float64         `json:"numeric_tolerance"`  // relative tolerance for shared central values
	RangeWidthReview float64         `json:"range_width_review"` // relative range width beyond which review is forced
	Rules            map[string]Rule `json:"rules,omitempty"`
}

// DefaultPolicy returns the validated defaults; thresholds stay configurable.
func DefaultPolicy() Policy {
	return Policy{
		HighSimilarity:   0.80,
		MediumSimilarity: 0.60,
		NumericTolerance: 0.05,
		RangeWidthReview: 0.50,
	}
}

// RuleFor returns the override for a parameter name: exact match first,
// substring either way second. Among several substring matches the longest
// key wins, ties lexicographic, so the choice never depends on map order.
func (p Policy) RuleFor(name string) (Rule, bool) {
	if r, ok := p.Rules[name]; ok {
		return r, true
	}
	best := ""
	for key := range p.Rules {
		if key == "" || name == "" {
			continue
		}
		if !strings.Contains(name, key) && !strings.Contains(key, name) {
			continue
		}
		if len(key) > len(best) || (len(key) == len(best) && key < best) {
			best = key
		}
	}
	if best == "" {
		return Rule{}, false
	}
	return p.Rules[best], true
}

// AllowsMode reports whether the rule admits a strategy. Empty Modes = all.
func (r Rule) AllowsMode(s Strategy) bool {
	if len(r.Modes) == 0 {
		return true
	}
	for _, m := range r.Modes {
		if m == string(s) {
			return true
		}
	}
	return false
}

// Stats counts fused rows per strategy for one run.
type Stats struct {
	Rows       int              `json:"rows"`
	Review     int              `json:"review"`
	ByStrategy map[Strategy]int `json:"by_strategy"`
}

// Result is the full outcome of one fusion run.
type Result struct {
	Rows   []FusionResult `json:"rows"`
	Stats  Stats          `json:"stats"`
	Policy Policy         `json:"policy"`
}
