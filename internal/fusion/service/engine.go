package service

import (
	"math"
	"strings"

	"fusion-service/internal/fusion/model"
)

// Engine is the fusion decision pipeline. Read-only after construction;
// safe for concurrent use across row workers.
type Engine struct {
	policy   model.Policy
	synonyms *SynonymTable
}

func NewEngine(policy model.Policy, synonyms *SynonymTable) *Engine {
	if synonyms == nil {
		synonyms = NewSynonymTable(nil)
	}
	return &Engine{policy: policy, synonyms: synonyms}
}

func (e *Engine) Policy() model.Policy { return e.policy }

// FuseRow runs the ordered strategy chain over one parameter row. It always
// returns a result: irregular input degrades into the review flag and the
// divergent tag, never into an error.
func (e *Engine) FuseRow(row model.ParameterRow) model.FusionResult {
	values := e.preprocessRow(row)

	res := model.FusionResult{
		Name:      row.Name,
		Proximity: make([]model.Proximity, len(values)),
	}
	var nonEmpty []model.StructuredValue
	for i, v := range values {
		if v.Kind == model.KindEmpty {
			res.Proximity[i] = model.ProximityNoData
		} else {
			res.Proximity[i] = model.ProximityDivergent // until a strategy claims it
			nonEmpty = append(nonEmpty, v)
		}
	}

	if len(nonEmpty) == 0 {
		res.Strategy = model.StrategyDivergent
		res.Review = true
		return res
	}

	rule, _ := e.policy.RuleFor(row.Name)
	if rule.Unit != "" {
		applyUnitHint(nonEmpty, rule.Unit)
	}
	high := e.policy.HighSimilarity * 100
	if rule.HighSimilarity > 0 {
		high = rule.HighSimilarity * 100
	}
	medium := e.policy.MediumSimilarity * 100
	tolerance := e.policy.NumericTolerance
	if rule.Tolerance > 0 {
		tolerance = rule.Tolerance
	}

	// a lone vendor value is trivially exact (keeps fusion idempotent)
	if len(nonEmpty) == 1 {
		res.Strategy = model.StrategyExact
		res.Fused = surfaceOf(nonEmpty[0])
		markClose(&res, nonEmpty)
		return res
	}

	type attempt struct {
		strategy model.Strategy
		try      func(*model.FusionResult) bool
	}
	chain := []attempt{
		{model.StrategyExact, func(r *model.FusionResult) bool { return e.tryExact(r, nonEmpty) }},
		{model.StrategyHighSimilarity, func(r *model.FusionResult) bool { return e.tryHighSimilarity(r, nonEmpty, high) }},
		{model.StrategyMediumSim, func(r *model.FusionResult) bool { return e.tryMediumSimilarity(r, nonEmpty, medium, high) }},
		{model.StrategySemantic, func(r *model.FusionResult) bool { return e.trySemantic(r, nonEmpty) }},
		{model.StrategyNumericRange, func(r *model.FusionResult) bool { return e.tryNumericRange(r, nonEmpty) }},
		{model.StrategyErrorStructure, func(r *model.FusionResult) bool { return e.tryErrorStructure(r, nonEmpty, tolerance) }},
	}
	for _, a := range chain {
		if !rule.AllowsMode(a.strategy) {
			continue
		}
		if a.try(&res) {
			res.Strategy = a.strategy
			return res
		}
	}

	// no consensus
	res.Strategy = model.StrategyDivergent
	res.Review = true
	return res
}

// tryExact: all comparison keys byte-identical post-normalization.
func (e *Engine) tryExact(res *model.FusionResult, vals []model.StructuredValue) bool {
	key := vals[0].Key
	if key == "" {
		return false
	}
	for _, v := range vals[1:] {
		if v.Key != key {
			return false
		}
	}
	res.Fused = surfaceOf(vals[0])
	markClose(res, vals)
	return true
}

// tryHighSimilarity: every pair of text values scores ≥ high. Fused value is
// the most frequent one, ties broken by vendor order.
func (e *Engine) tryHighSimilarity(res *model.FusionResult, vals []model.StructuredValue, high float64) bool {
	texts := textValues(vals)
	if len(texts) < 2 || len(texts) != len(vals) {
		return false
	}
	for i := 0; i < len(texts); i++ {
		for j := i + 1; j < len(texts); j++ {
			if Score(texts[i].Norm, texts[j].Norm) < high {
				return false
			}
		}
	}
	res.Fused = surfaceOf(mostFrequent(texts))
	markClose(res, vals)
	return true
}

// tryMediumSimilarity: a cluster of values pairwise ≥ medium exists. Fused
// value is the longest (most complete) member; always flagged for review.
func (e *Engine) tryMediumSimilarity(res *model.FusionResult, vals []model.StructuredValue, medium, high float64) bool {
	texts := textValues(vals)
	if len(texts) < 2 {
		return false
	}
	cluster := largestSimilarCluster(texts, medium)
	if len(cluster) < 2 {
		return false
	}
	best := cluster[0]
	for _, v := range cluster[1:] {
		if len([]rune(v.Norm)) > len([]rune(best.Norm)) {
			best = v
		}
	}
	res.Fused = surfaceOf(best)
	res.Review = true
	markClose(res, cluster)
	return true
}

// trySemantic: literal similarity failed but values resolve to one canonical
// token. Review is cleared only when every non-empty vendor resolves to it.
func (e *Engine) trySemantic(res *model.FusionResult, vals []model.StructuredValue) bool {
	texts := textValues(vals)
	if len(texts) < 2 {
		return false
	}
	groups := make(map[string][]model.StructuredValue)
	resolved := make(map[string]bool) // token had at least one non-literal member
	order := []string{}
	for _, v := range texts {
		tok := v.Tokens
		if tok == "" {
			tok = v.Norm
		}
		if _, ok := groups[tok]; !ok {
			order = append(order, tok)
		}
		groups[tok] = append(groups[tok], v)
		if v.Tokens != "" && v.Tokens != v.Norm {
			resolved[tok] = true
		}
	}
	// a group is a semantic signal only when synonym resolution did real
	// work for someone in it; literal agreement belongs to earlier modes
	var bestToken string
	for _, tok := range order {
		if !resolved[tok] {
			continue
		}
		if len(groups[tok]) > len(groups[bestToken]) {
			bestToken = tok
		}
	}
	if bestToken == "" || len(groups[bestToken]) < 2 {
		return false
	}
	// vendors whose resolution agrees, including ones already literally equal
	var agreed []model.StructuredValue
	for _, v := range texts {
		if e.synonyms.Resolve(v.Norm) == bestToken || v.Tokens == bestToken {
			agreed = append(agreed, v)
		}
	}
	res.Fused = bestToken
	res.Review = len(agreed) != len(vals)
	markClose(res, agreed)
	return true
}

// tryNumericRange: every value is numeric in one unit family and carries no
// error margin; fuse to [min(low), max(high)] in the canonical unit.
func (e *Engine) tryNumericRange(res *model.FusionResult, vals []model.StructuredValue) bool {
	_, unit, ok := commonFamily(vals)
	if !ok {
		return false
	}
	for _, v := range vals {
		if v.HasMargin() {
			return false // margin structure belongs to error-structure fusion
		}
	}

	low, high := math.Inf(1), math.Inf(-1)
	for _, v := range vals {
		switch v.Kind {
		case model.KindNumeric:
			low = math.Min(low, v.Value)
			high = math.Max(high, v.Value)
		case model.KindRange:
			low = math.Min(low, v.Low)
			high = math.Max(high, v.High)
		}
	}

	fused := model.StructuredValue{Kind: model.KindRange, Low: low, High: high, Unit: unit}
	if low == high {
		fused = model.StructuredValue{Kind: model.KindNumeric, Value: low, Unit: unit}
	}
	res.Fused = FormatValue(fused)
	res.Review = relativeWidth(low, high) > e.policy.RangeWidthReview
	markClose(res, vals)
	return true
}

// tryErrorStructure: all values are Numeric with a ± margin and share one
// central value within tolerance; fused margin is the maximum reported one.
func (e *Engine) tryErrorStructure(res *model.FusionResult, vals []model.StructuredValue, tolerance float64) bool {
	_, unit, ok := commonFamily(vals)
	if !ok {
		return false
	}
	maxMargin := 0.0
	for _, v := range vals {
		if !v.HasMargin() {
			return false
		}
		maxMargin = math.Max(maxMargin, v.Margin)
	}
	central := vals[0].Value
	for _, v := range vals[1:] {
		if !withinTolerance(central, v.Value, tolerance) {
			return false
		}
	}
	res.Fused = FormatValue(model.StructuredValue{
		Kind:   model.KindNumeric,
		Value:  central,
		Margin: maxMargin,
		Unit:   unit,
		Prefix: vals[0].Prefix,
	})
	markClose(res, vals)
	return true
}

// ----- helpers -----

// surfaceOf returns the operator-facing form of a value: the original cell,
// trimmed, with comparison operators unified.
func surfaceOf(v model.StructuredValue) string {
	return NormalizeComparisons(strings.TrimSpace(v.Raw))
}

func markClose(res *model.FusionResult, vals []model.StructuredValue) {
	for _, v := range vals {
		if v.Vendor >= 0 && v.Vendor < len(res.Proximity) {
			res.Proximity[v.Vendor] = model.ProximityClose
		}
	}
}

func textValues(vals []model.StructuredValue) []model.StructuredValue {
	var out []model.StructuredValue
	for _, v := range vals {
		if v.Kind == model.KindText {
			out = append(out, v)
		}
	}
	return out
}

// mostFrequent picks the value whose comparison key occurs most often,
// first-seen vendor order breaking ties.
func mostFrequent(vals []model.StructuredValue) model.StructuredValue {
	counts := make(map[string]int)
	for _, v := range vals {
		counts[v.Key]++
	}
	best := vals[0]
	for _, v := range vals[1:] {
		if counts[v.Key] > counts[best.Key] {
			best = v
		}
	}
	return best
}

// largestSimilarCluster groups values greedily by pairwise score ≥ threshold
// and returns the largest group (first-seen order on ties).
func largestSimilarCluster(vals []model.StructuredValue, threshold float64) []model.StructuredValue {
	used := make([]bool, len(vals))
	var best []model.StructuredValue
	for i := range vals {
		if used[i] {
			continue
		}
		group := []model.StructuredValue{vals[i]}
		for j := i + 1; j < len(vals); j++ {
			if used[j] {
				continue
			}
			if Score(vals[i].Norm, vals[j].Norm) >= threshold {
				group = append(group, vals[j])
				used[j] = true
			}
		}
		if len(group) >= 2 && len(group) > len(best) {
			best = group
		}
	}
	return best
}

// commonFamily checks that every value is numeric and all unit families are
// compatible (unitless values join any family). Incompatible families mean
// different physical quantities: Hz never merges with s.
func commonFamily(vals []model.StructuredValue) (family, unit string, ok bool) {
	for _, v := range vals {
		if v.Kind != model.KindNumeric && v.Kind != model.KindRange {
			return "", "", false
		}
		if v.Family == "" {
			continue
		}
		if family == "" {
			family, unit = v.Family, v.Unit
			continue
		}
		if v.Family != family {
			return "", "", false
		}
	}
	return family, unit, true
}

// applyUnitHint rescales unitless numeric values as if they carried the
// rule's unit, so "5" and "5000g" can meet when the rule says kg.
func applyUnitHint(vals []model.StructuredValue, unit string) {
	for i, v := range vals {
		if v.Family != "" || (v.Kind != model.KindNumeric && v.Kind != model.KindRange) {
			continue
		}
		switch v.Kind {
		case model.KindNumeric:
			value, cu, fam, ok := ToCanonical(v.Value, unit)
			if !ok {
				return
			}
			vals[i].Value, vals[i].Unit, vals[i].Family = value, cu, fam
			if v.Margin > 0 {
				m, _, _, _ := ToCanonical(v.Margin, unit)
				vals[i].Margin = m
			}
		case model.KindRange:
			low, cu, fam, ok := ToCanonical(v.Low, unit)
			if !ok {
				return
			}
			high, _, _, _ := ToCanonical(v.High, unit)
			vals[i].Low, vals[i].High = low, high
			vals[i].Unit, vals[i].Family = cu, fam
		}
	}
}

func withinTolerance(a, b, tolerance float64) bool {
	scale := math.Max(math.Abs(a), math.Abs(b))
	if scale == 0 {
		return true
	}
	return math.Abs(a-b) <= tolerance*scale
}

// relativeWidth of a fused range; a wide spread across vendors is a
// disagreement signal even when every value parsed cleanly.
func relativeWidth(low, high float64) float64 {
	scale := math.Max(math.Abs(low), math.Abs(high))
	if scale == 0 {
		return 0
	}
	return (high - low) / scale
}
