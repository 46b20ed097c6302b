package fileio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fusion-service/internal/fusion/model"
)

// ReadParameterRows picks a parser by extension and returns the sheet as
// parameter rows: first sheet row is the header (parameter-name column plus
// one column per vendor), column 1 of each data row is the parameter name,
// columns 2..N the vendor values.
func ReadParameterRows(r io.Reader, filename string) ([]string, []model.ParameterRow, error) {
	var (
		rows [][]string
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".xlsx":
		rows, err = readXLSX(r)
	case ".xls":
		rows, err = readXLS(r)
	case ".csv":
		rows, err = readCSV(r)
	default:
		return nil, nil, fmt.Errorf("unsupported file: %s", filename)
	}
	if err != nil {
		return nil, nil, err
	}
	return splitHeaderRows(rows)
}

// ReadParameterFile is the path-based convenience used by the CLI.
func ReadParameterFile(path string) ([]string, []model.ParameterRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()
	return ReadParameterRows(f, path)
}

func splitHeaderRows(rows [][]string) ([]string, []model.ParameterRow, error) {
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("empty workbook")
	}
	header := rows[0]
	if len(header) < 2 {
		return nil, nil, fmt.Errorf("need a parameter column and at least one vendor column, got %d", len(header))
	}
	vendors := len(header) - 1

	var out []model.ParameterRow
	for _, raw := range rows[1:] {
		if emptyRow(raw) {
			continue
		}
		row := model.ParameterRow{Cells: make([]model.VendorCell, vendors)}
		if len(raw) > 0 {
			row.Name = strings.TrimSpace(raw[0])
		}
		for v := 0; v < vendors; v++ {
			cell := ""
			if v+1 < len(raw) {
				cell = raw[v+1]
			}
			row.Cells[v] = model.VendorCell{Vendor: v, Raw: cell}
		}
		out = append(out, row)
	}
	return headerNames(header), out, nil
}

func headerNames(h []string) []string {
	out := make([]string, len(h))
	for i, v := range h {
		v = strings.TrimSpace(v)
		if v == "" {
			if i == 0 {
				v = "参数名称"
			} else {
				v = fmt.Sprintf("供应商%d", i)
			}
		}
		out[i] = v
	}
	return out
}

func emptyRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// OutputPath places the annotated workbook beside the input.
func OutputPath(input string, now time.Time) string {
	dir := filepath.Dir(input)
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(dir, fmt.Sprintf("%s_融合结果_%s.xlsx", stem, now.Format("20060102_150405")))
}
