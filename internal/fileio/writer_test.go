package fileio

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	excelize "github.com/xuri/excelize/v2"

	"fusion-service/internal/fusion/model"
)

func TestWriteAnnotated(t *testing.T) {
	header := []string{"参数名称", "供应商A", "供应商B"}
	rows := []model.ParameterRow{
		{Name: "厚度", Cells: []model.VendorCell{{Vendor: 0, Raw: "12mm"}, {Vendor: 1, Raw: "12 mm"}}},
		{Name: "型号", Cells: []model.VendorCell{{Vendor: 0, Raw: "apple"}, {Vendor: 1, Raw: ""}}},
	}
	res := model.Result{
		Rows: []model.FusionResult{
			{
				Name: "厚度", Fused: "12mm", Strategy: model.StrategyExact,
				Proximity: []model.Proximity{model.ProximityClose, model.ProximityClose},
			},
			{
				Name: "型号", Fused: "", Strategy: model.StrategyDivergent, Review: true,
				Proximity: []model.Proximity{model.ProximityDivergent, model.ProximityNoData},
			},
		},
	}

	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, WriteAnnotated(path, header, rows, res))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	sheet := f.GetSheetName(0)

	// instruction row
	instr, err := f.GetCellValue(sheet, "A1")
	require.NoError(t, err)
	assert.Contains(t, instr, "颜色说明")

	// header row: vendors, fused, strategy tag, merged summary
	for cell, want := range map[string]string{
		"A2": "参数名称",
		"B2": "供应商A",
		"C2": "供应商B",
		"D2": "融合数据",
		"F2": "合并数据",
	} {
		got, err := f.GetCellValue(sheet, cell)
		require.NoError(t, err)
		assert.Equal(t, want, got, "cell %s", cell)
	}
	e2, err := f.GetCellValue(sheet, "E2")
	require.NoError(t, err)
	assert.Contains(t, e2, "融合类型")
	assert.Contains(t, e2, "后续正式使用将删除")

	// data rows
	d3, err := f.GetCellValue(sheet, "D3")
	require.NoError(t, err)
	assert.Equal(t, "12mm", d3)
	e3, err := f.GetCellValue(sheet, "E3")
	require.NoError(t, err)
	assert.Equal(t, "精确匹配", e3)
	e4, err := f.GetCellValue(sheet, "E4")
	require.NoError(t, err)
	assert.Equal(t, "需人工审核", e4)

	// merged summary carries one line per parameter
	f3, err := f.GetCellValue(sheet, "F3")
	require.NoError(t, err)
	lines := strings.Split(f3, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "【厚度】12mm", lines[0])
	assert.Equal(t, "【型号】", lines[1])
}

func TestWriteAnnotatedMismatch(t *testing.T) {
	err := WriteAnnotated(filepath.Join(t.TempDir(), "x.xlsx"),
		[]string{"参数名称", "供应商A"},
		[]model.ParameterRow{{Name: "a"}},
		model.Result{})
	assert.Error(t, err)
}
