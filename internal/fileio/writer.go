package fileio

import (
	"fmt"
	"strings"

	excelize "github.com/xuri/excelize/v2"

	"fusion-service/internal/fusion/model"
)

// Workbook cell fills, shared with the legend in the instruction row:
// blue = vendor value close to the fused one, gray = vendor reported
// nothing, yellow = fused value needs manual review.
const (
	fillClose  = "ADD8E6"
	fillNoData = "D3D3D3"
	fillReview = "FFFF00"
)

const instructionText = "颜色说明: 蓝色=供应商数据达标 | 灰色=供应商无数据 | 黄色=需人工审核。 " +
	"注意: 该表格数据仅供参考！实际还请人工判断。"

// 融合类型 column is a debugging aid for the rollout phase
const strategyHeader = "融合类型（后续正式使用将删除）"

// WriteAnnotated renders the fusion output workbook beside the input:
// instruction row, original vendor columns, fused-value and strategy-tag
// columns, one merged summary column, and per-cell color coding.
func WriteAnnotated(path string, header []string, rows []model.ParameterRow, res model.Result) error {
	if len(rows) != len(res.Rows) {
		return fmt.Errorf("rows/results mismatch: %d vs %d", len(rows), len(res.Rows))
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	vendors := len(header) - 1
	fusedCol := vendors + 2
	strategyCol := vendors + 3
	summaryCol := vendors + 4

	styles, err := newStyleSet(f)
	if err != nil {
		return err
	}

	// row 1: merged emphasized instruction
	if err := f.MergeCell(sheet, "A1", cellName(summaryCol, 1)); err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, "A1", instructionText); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", cellName(summaryCol, 1), styles.instruction); err != nil {
		return err
	}
	_ = f.SetRowHeight(sheet, 1, 30)

	// row 2: headers
	for i, h := range header {
		_ = f.SetCellValue(sheet, cellName(i+1, 2), h)
	}
	_ = f.SetCellValue(sheet, cellName(fusedCol, 2), "融合数据")
	_ = f.SetCellValue(sheet, cellName(strategyCol, 2), strategyHeader)
	_ = f.SetCellValue(sheet, cellName(summaryCol, 2), "合并数据")

	// data rows
	var summary []string
	for i, row := range rows {
		r := i + 3
		fr := res.Rows[i]

		_ = f.SetCellValue(sheet, cellName(1, r), row.Name)
		for v, cell := range row.Cells {
			name := cellName(v+2, r)
			_ = f.SetCellValue(sheet, name, cell.Raw)
			if v < len(fr.Proximity) {
				switch fr.Proximity[v] {
				case model.ProximityClose:
					_ = f.SetCellStyle(sheet, name, name, styles.close)
				case model.ProximityNoData:
					_ = f.SetCellStyle(sheet, name, name, styles.noData)
				}
			}
		}

		_ = f.SetCellValue(sheet, cellName(fusedCol, r), fr.Fused)
		if fr.Review {
			_ = f.SetCellStyle(sheet, cellName(fusedCol, r), cellName(fusedCol, r), styles.review)
		}
		label := fr.Strategy.Label()
		if fr.Err != "" {
			label += " (" + fr.Err + ")"
		}
		_ = f.SetCellValue(sheet, cellName(strategyCol, r), label)

		summary = append(summary, "【"+row.Name+"】"+fr.Fused)
	}

	// merged summary column: one cell spanning every data row
	if len(rows) > 0 {
		top := cellName(summaryCol, 3)
		bottom := cellName(summaryCol, len(rows)+2)
		_ = f.SetCellValue(sheet, top, strings.Join(summary, "\n"))
		if err := f.MergeCell(sheet, top, bottom); err != nil {
			return err
		}
		_ = f.SetCellStyle(sheet, top, bottom, styles.summaryTop)
	}

	// wrap + center everything below the instruction row
	if len(rows) > 0 {
		_ = f.SetCellStyle(sheet, "A2", cellName(strategyCol, len(rows)+2), styles.center)
	}
	// re-apply fills lost to the blanket style
	for i, fr := range res.Rows {
		r := i + 3
		for v, p := range fr.Proximity {
			name := cellName(v+2, r)
			switch p {
			case model.ProximityClose:
				_ = f.SetCellStyle(sheet, name, name, styles.close)
			case model.ProximityNoData:
				_ = f.SetCellStyle(sheet, name, name, styles.noData)
			}
		}
		if fr.Review {
			_ = f.SetCellStyle(sheet, cellName(fusedCol, r), cellName(fusedCol, r), styles.review)
		}
	}

	// freeze instruction + header rows
	_ = f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      2,
		TopLeftCell: "A3",
		ActivePane:  "bottomLeft",
	})

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

type styleSet struct {
	instruction int
	center      int
	summaryTop  int
	close       int
	noData      int
	review      int
}

func newStyleSet(f *excelize.File) (styleSet, error) {
	var s styleSet
	var err error

	center := &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true}

	if s.instruction, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Fill:      solid(fillReview),
		Alignment: center,
	}); err != nil {
		return s, err
	}
	if s.center, err = f.NewStyle(&excelize.Style{Alignment: center}); err != nil {
		return s, err
	}
	if s.summaryTop, err = f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
	}); err != nil {
		return s, err
	}
	if s.close, err = f.NewStyle(&excelize.Style{Fill: solid(fillClose), Alignment: center}); err != nil {
		return s, err
	}
	if s.noData, err = f.NewStyle(&excelize.Style{Fill: solid(fillNoData), Alignment: center}); err != nil {
		return s, err
	}
	if s.review, err = f.NewStyle(&excelize.Style{Fill: solid(fillReview), Alignment: center}); err != nil {
		return s, err
	}
	return s, nil
}

func solid(color string) excelize.Fill {
	return excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1}
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
