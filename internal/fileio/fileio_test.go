package fileio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadParameterRowsCSV(t *testing.T) {
	csv := "参数名称,供应商A,供应商B,供应商C\n" +
		"颜色,红色,赤色,\n" +
		"厚度,12mm,12 mm,12 MM\n" +
		",,,\n" + // blank rows are skipped
		"重量,5kg,,6kg\n"

	header, rows, err := ReadParameterRows(strings.NewReader(csv), "input.csv")
	require.NoError(t, err)

	assert.Equal(t, []string{"参数名称", "供应商A", "供应商B", "供应商C"}, header)
	require.Len(t, rows, 3)

	assert.Equal(t, "颜色", rows[0].Name)
	require.Len(t, rows[0].Cells, 3)
	assert.Equal(t, "红色", rows[0].Cells[0].Raw)
	assert.Equal(t, "", rows[0].Cells[2].Raw)
	assert.Equal(t, 2, rows[0].Cells[2].Vendor)

	assert.Equal(t, "重量", rows[2].Name)
	assert.Equal(t, "", rows[2].Cells[1].Raw)
}

func TestReadParameterRowsRaggedCSV(t *testing.T) {
	// short data rows pad with empty vendor cells
	csv := "参数,供应商1,供应商2\n流量,10\n"

	_, rows, err := ReadParameterRows(strings.NewReader(csv), "x.csv")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Len(t, rows[0].Cells, 2)
	assert.Equal(t, "10", rows[0].Cells[0].Raw)
	assert.Equal(t, "", rows[0].Cells[1].Raw)
}

func TestReadParameterRowsHeaderDefaults(t *testing.T) {
	csv := ",,\n颜色,红色,蓝色\n"

	header, _, err := ReadParameterRows(strings.NewReader(csv), "x.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"参数名称", "供应商1", "供应商2"}, header)
}

func TestReadParameterRowsRejects(t *testing.T) {
	_, _, err := ReadParameterRows(strings.NewReader(""), "x.csv")
	assert.Error(t, err, "empty workbook")

	_, _, err = ReadParameterRows(strings.NewReader("单列\n"), "x.csv")
	assert.Error(t, err, "no vendor columns")

	_, _, err = ReadParameterRows(strings.NewReader("a,b\n"), "x.pdf")
	assert.Error(t, err, "unsupported extension")
}

func TestOutputPath(t *testing.T) {
	now := time.Date(2026, 8, 30, 15, 4, 5, 0, time.UTC)

	got := OutputPath(filepath.Join("data", "params.xlsx"), now)
	assert.Equal(t, filepath.Join("data", "params_融合结果_20260830_150405.xlsx"), got)

	got = OutputPath("params.csv", now)
	assert.Equal(t, "params_融合结果_20260830_150405.xlsx", got)
}

func TestLoadSynonyms(t *testing.T) {
	path := filepath.Join(t.TempDir(), "synonyms.csv")
	content := "# surface,canonical\n" +
		"赤色,红色\n" +
		"核磁,mri\n" +
		"onlyone\n" + // too short, skipped
		" ,红色\n" // empty surface, skipped
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	syn, err := LoadSynonyms(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"赤色": "红色", "核磁": "mri"}, syn)

	_, err = LoadSynonyms(filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}
