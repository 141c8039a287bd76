package report

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	sheetNameFormat    = "测试报告_%s"
	sheetTimeFormat    = "2006-01-02_15-04-05"
	minColumn          = 'A'
	defaultColumnWidth = 18

	patternType  = "pattern"
	patternValue = 1
	errorBgColor = "FF5900"
)

// 表头定义
var excelHeaders = []string{
	"用例名称", "步骤名称", "步骤类型", "状态", "耗时(ms)", "提示信息", "错误信息",
}

// ExportExcel writes case results into a new Excel workbook, one row per
// step, failed rows highlighted.
func ExportExcel(path string, results []*CaseResult) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := fmt.Sprintf(sheetNameFormat, time.Now().Format(sheetTimeFormat))
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("创建工作表失败: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	maxColumn := rune(int(minColumn) + len(excelHeaders) - 1)
	for col := minColumn; col <= maxColumn; col++ {
		colName := string(col)
		f.SetColWidth(sheetName, colName, colName, defaultColumnWidth)
	}

	for i, header := range excelHeaders {
		cell := fmt.Sprintf("%c1", minColumn+rune(i))
		f.SetCellValue(sheetName, cell, header)
	}

	errorStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{
			Type:    patternType,
			Pattern: patternValue,
			Color:   []string{errorBgColor},
		},
	})

	row := 2
	for _, cr := range results {
		for _, sr := range cr.Steps {
			row = writeStepRow(f, sheetName, row, cr.Name, sr, errorStyle)
		}
	}

	writeSummary(f, sheetName, row+1, results)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("保存报告失败: %w", err)
	}
	return nil
}

// writeStepRow writes one step (and its children, indented) and returns
// the next free row.
func writeStepRow(f *excelize.File, sheet string, row int, caseName string, sr StepResult, errorStyle int) int {
	cells := []interface{}{
		caseName, sr.Name, sr.Kind, string(sr.Status), sr.Duration, sr.Message, sr.Error,
	}
	for i, v := range cells {
		cell := fmt.Sprintf("%c%d", minColumn+rune(i), row)
		f.SetCellValue(sheet, cell, v)
	}
	if sr.Status == StatusFailed || sr.Status == StatusErrored {
		first := fmt.Sprintf("%c%d", minColumn, row)
		last := fmt.Sprintf("%c%d", minColumn+rune(len(cells)-1), row)
		f.SetCellStyle(sheet, first, last, errorStyle)
	}
	row++
	for _, child := range sr.Children {
		child.Name = "  " + child.Name
		row = writeStepRow(f, sheet, row, caseName, child, errorStyle)
	}
	return row
}

func writeSummary(f *excelize.File, sheet string, row int, results []*CaseResult) {
	var total, passed, failed int
	var duration int64
	for _, cr := range results {
		total++
		if cr.Status == StatusPassed {
			passed++
		} else {
			failed++
		}
		duration += cr.Duration
	}
	summary := fmt.Sprintf("用例总数: %d, 通过: %d, 失败: %d, 总耗时: %dms",
		total, passed, failed, duration)
	f.SetCellValue(sheet, fmt.Sprintf("%c%d", minColumn, row), summary)
}
