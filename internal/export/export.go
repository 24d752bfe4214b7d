package export

import (
	"fmt"

	"paintshop-terminal/internal/models"

	"github.com/xuri/excelize/v2"
)

// InventoryHeader 库存导出表头
var InventoryHeader = []string{
	"Serial Number",
	"Model",
	"Pallet",
	"Accepted Date",
	"Status",
	"Note",
}

const sheetName = "ATM Inventory"

// BuildInventoryWorkbook 生成设备库存 Excel 文件
// data 为空时只生成表头
func BuildInventoryWorkbook(atms []models.ATM) ([]byte, error) {
	f := excelize.NewFile()
	// 注意：WriteToBuffer 之前不能 Close

	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range InventoryHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to style header: %w", err)
		}
	}

	// 列宽按内容手工定，序列号和备注宽一些
	_ = f.SetColWidth(sheetName, "A", "A", 22)
	_ = f.SetColWidth(sheetName, "B", "E", 16)
	_ = f.SetColWidth(sheetName, "F", "F", 40)

	for row, atm := range atms {
		values := []any{
			atm.SerialNumber,
			atm.Model,
			atm.Pallet,
			atm.AcceptedAt,
			atm.Status,
			atm.Note,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to write row %d: %w", row+2, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	f.Close()
	return buf.Bytes(), nil
}
