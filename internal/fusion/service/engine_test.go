package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fusion-service/internal/fusion/model"
)

func newTestEngine() *Engine {
	return NewEngine(model.DefaultPolicy(), NewSynonymTable(nil))
}

func row(name string, cells ...string) model.ParameterRow {
	r := model.ParameterRow{Name: name, Cells: make([]model.VendorCell, len(cells))}
	for i, c := range cells {
		r.Cells[i] = model.VendorCell{Vendor: i, Raw: c}
	}
	return r
}

func TestFuseRowExact(t *testing.T) {
	e := newTestEngine()

	res := e.FuseRow(row("厚度", "12 mm", "12mm", "12 MM"))
	assert.Equal(t, model.StrategyExact, res.Strategy)
	assert.Equal(t, "12 mm", res.Fused) // first vendor's surface form wins
	assert.False(t, res.Review)
	for i, p := range res.Proximity {
		assert.Equal(t, model.ProximityClose, p, "vendor %d", i)
	}
}

func TestFuseRowSemantic(t *testing.T) {
	e := newTestEngine()

	res := e.FuseRow(row("颜色", "红色", "赤色"))
	assert.Equal(t, model.StrategySemantic, res.Strategy)
	assert.Equal(t, "红色", res.Fused)
	assert.False(t, res.Review, "all vendors resolve to the same token")
	assert.Equal(t, []model.Proximity{model.ProximityClose, model.ProximityClose}, res.Proximity)
}

func TestFuseRowSemanticPartial(t *testing.T) {
	e := newTestEngine()

	// two vendors agree semantically, the third says something else entirely
	res := e.FuseRow(row("颜色", "红色", "赤色", "蓝牙适配器"))
	assert.Equal(t, model.StrategySemantic, res.Strategy)
	assert.Equal(t, "红色", res.Fused)
	assert.True(t, res.Review, "a dissenting vendor forces review")
	assert.Equal(t, model.ProximityDivergent, res.Proximity[2])
}

func TestFuseRowErrorStructure(t *testing.T) {
	e := newTestEngine()

	res := e.FuseRow(row("精度", "5±0.1", "5±0.3"))
	assert.Equal(t, model.StrategyErrorStructure, res.Strategy)
	assert.Equal(t, "5±0.3", res.Fused) // widest reported margin wins
	assert.False(t, res.Review)
}

func TestFuseRowNumericRange(t *testing.T) {
	e := newTestEngine()

	res := e.FuseRow(row("流量", "10", "15", ""))
	assert.Equal(t, model.StrategyNumericRange, res.Strategy)
	assert.Equal(t, "10-15", res.Fused)
	assert.False(t, res.Review)
	assert.Equal(t, []model.Proximity{
		model.ProximityClose, model.ProximityClose, model.ProximityNoData,
	}, res.Proximity)
}

func TestFuseRowNumericRangeUnitRescale(t *testing.T) {
	e := newTestEngine()

	// 2cm rescales to 20mm before fusing
	res := e.FuseRow(row("厚度", "15mm", "2cm"))
	assert.Equal(t, model.StrategyNumericRange, res.Strategy)
	assert.Equal(t, "15-20mm", res.Fused)
}

func TestFuseRowNumericRangeWideSpreadReview(t *testing.T) {
	e := newTestEngine()

	// relative width (100-10)/100 = 0.9 > 0.5 forces review
	res := e.FuseRow(row("功率", "10w", "100w"))
	assert.Equal(t, model.StrategyNumericRange, res.Strategy)
	assert.True(t, res.Review)
}

func TestFuseRowUnitFamilyMismatch(t *testing.T) {
	e := newTestEngine()

	// Hz and seconds are different quantities: no numeric fusion
	res := e.FuseRow(row("参数", "50hz", "50s"))
	assert.Equal(t, model.StrategyDivergent, res.Strategy)
	assert.True(t, res.Review)
}

func TestFuseRowDivergent(t *testing.T) {
	e := newTestEngine()

	res := e.FuseRow(row("型号", "apple", "train"))
	assert.Equal(t, model.StrategyDivergent, res.Strategy)
	assert.Empty(t, res.Fused)
	assert.True(t, res.Review)
	assert.Equal(t, []model.Proximity{
		model.ProximityDivergent, model.ProximityDivergent,
	}, res.Proximity)
}

func TestFuseRowAllEmpty(t *testing.T) {
	e := newTestEngine()

	res := e.FuseRow(row("备注", "", "暂无", "-"))
	assert.Equal(t, model.StrategyDivergent, res.Strategy)
	assert.True(t, res.Review)
	for _, p := range res.Proximity {
		assert.Equal(t, model.ProximityNoData, p)
	}
}

func TestFuseRowSingleVendor(t *testing.T) {
	e := newTestEngine()

	res := e.FuseRow(row("厚度", "12mm", "", ""))
	assert.Equal(t, model.StrategyExact, res.Strategy)
	assert.Equal(t, "12mm", res.Fused)
	assert.False(t, res.Review)
	assert.Equal(t, model.ProximityClose, res.Proximity[0])
	assert.Equal(t, model.ProximityNoData, res.Proximity[1])
}

func TestFuseRowIdempotent(t *testing.T) {
	e := newTestEngine()

	// fusing a row, then fusing its own output, changes nothing
	first := e.FuseRow(row("流量", "10ml", "15ml"))
	require.Equal(t, model.StrategyNumericRange, first.Strategy)

	second := e.FuseRow(row("流量", first.Fused))
	assert.Equal(t, model.StrategyExact, second.Strategy)
	assert.Equal(t, first.Fused, second.Fused)
}

func TestFuseRowHighSimilarity(t *testing.T) {
	e := newTestEngine()

	// long shared core, small tail difference: pairwise score stays high
	res := e.FuseRow(row("探头", "线阵探头配置标准", "线阵探头配置标准版"))
	assert.Equal(t, model.StrategyHighSimilarity, res.Strategy)
	assert.False(t, res.Review)
}

func TestFuseRowMediumSimilarity(t *testing.T) {
	e := newTestEngine()

	// shared core with diverging tails lands in the medium band; the most
	// complete member is kept and the row flagged
	res := e.FuseRow(row("配置", "标准配置a型", "标准配置"))
	assert.Equal(t, model.StrategyMediumSim, res.Strategy)
	assert.True(t, res.Review)
	assert.Equal(t, "标准配置a型", res.Fused)
}

func TestFuseRowComparisonPrefixUnified(t *testing.T) {
	e := newTestEngine()

	res := e.FuseRow(row("内存", ">=8gb", "≥8gb"))
	assert.Equal(t, model.StrategyExact, res.Strategy)
	assert.Equal(t, "≥8gb", res.Fused)
}

func TestFuseRowBundledCell(t *testing.T) {
	e := newTestEngine()

	res := e.FuseRow(row("内存",
		"≥win10系统,≥酷睿i5 cpu,≥8g 内存,≥250gb ssd",
		"≥8g 内存"))
	assert.Equal(t, model.StrategyExact, res.Strategy)
	assert.Equal(t, "≥8g 内存", res.Fused)
}

func TestFuseRowDeterministic(t *testing.T) {
	e := newTestEngine()

	// bundled cell whose relevant segment matches keywords of two kinds:
	// identical input must yield the identical result on every run
	r := row("显示器",
		"≥8g 内存,高分辨率屏幕usb口,千兆网口",
		"高分辨率屏幕usb口")
	first := e.FuseRow(r)
	assert.Equal(t, model.StrategyExact, first.Strategy)
	assert.Equal(t, "高分辨率屏幕usb口", first.Fused)
	for i := 0; i < 200; i++ {
		again := e.FuseRow(r)
		assert.Equal(t, first.Strategy, again.Strategy)
		assert.Equal(t, first.Fused, again.Fused)
		assert.Equal(t, first.Proximity, again.Proximity)
	}
}

func TestFuseRowRuleOverrides(t *testing.T) {
	policy := model.DefaultPolicy()
	policy.Rules = map[string]model.Rule{
		"重量": {Type: "numeric", Tolerance: 0.3},
	}
	e := NewEngine(policy, NewSynonymTable(nil))

	// 5 vs 6 differs by 17%, above the default 5% but inside the override
	res := e.FuseRow(row("重量", "5±0.1kg", "6±0.2kg"))
	assert.Equal(t, model.StrategyErrorStructure, res.Strategy)
}

func TestFuseRowRuleUnitHint(t *testing.T) {
	policy := model.DefaultPolicy()
	policy.Rules = map[string]model.Rule{
		"重量": {Type: "numeric", Unit: "kg"},
	}
	e := NewEngine(policy, NewSynonymTable(nil))

	// the bare "5" is read as 5kg per the rule and meets the explicit 5000g
	res := e.FuseRow(row("重量", "5", "5000g"))
	assert.Equal(t, model.StrategyNumericRange, res.Strategy)
	assert.Equal(t, "5000g", res.Fused)
	assert.False(t, res.Review)
}

func TestFuseRowRuleModeRestriction(t *testing.T) {
	policy := model.DefaultPolicy()
	policy.Rules = map[string]model.Rule{
		"序列号": {Type: "text", Modes: []string{"exact", "divergent"}},
	}
	e := NewEngine(policy, NewSynonymTable(nil))

	// numbers that would otherwise range-fuse must stay divergent
	res := e.FuseRow(row("序列号", "10", "15"))
	assert.Equal(t, model.StrategyDivergent, res.Strategy)
	assert.True(t, res.Review)
}
