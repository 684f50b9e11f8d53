package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"btklist/models"
)

const (
	sheetCompanies = "Yer Sağlayıcılar"
	sheetSummary   = "Özet"
)

// WriteWorkbook записывает книгу Excel с теми же колонками, что и отчет
func (e *Emitter) WriteWorkbook(records []*models.CompanyRecord, total int) error {
	path := e.config.ExcelPath

	f := excelize.NewFile()
	defer f.Close()

	if err := fillWorkbook(f, records, total, e.config.SourceURL); err != nil {
		return artifactError("workbook", path, "build", err)
	}

	file, err := e.fs.Create(path)
	if err != nil {
		return artifactError("workbook", path, "create", err)
	}
	if err := f.Write(file); err != nil {
		_ = file.Close()
		return artifactError("workbook", path, "save", err)
	}
	if err := file.Close(); err != nil {
		return artifactError("workbook", path, "save", err)
	}
	return nil
}

func fillWorkbook(f *excelize.File, records []*models.CompanyRecord, total int, sourceURL string) error {
	if err := f.SetSheetName("Sheet1", sheetCompanies); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	// Стиль заголовков
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	// Заголовки
	for i, header := range Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetCompanies, cell, header); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheetCompanies, cell, cell, headerStyle); err != nil {
			return err
		}
	}

	// Данные
	for rowIdx, rec := range records {
		values := rowValues(rec)
		row := make([]interface{}, len(values))
		row[0] = rec.ID
		for i := 1; i < len(values); i++ {
			row[i] = values[i]
		}
		cell, _ := excelize.CoordinatesToCellName(1, rowIdx+2)
		if err := f.SetSheetRow(sheetCompanies, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", rowIdx+2, err)
		}
	}

	widths := []float64{10, 45, 12, 60, 18, 18, 35, 26}
	for i, width := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheetCompanies, col, col, width); err != nil {
			return err
		}
	}

	// Сводка
	if _, err := f.NewSheet(sheetSummary); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	summary := [][]interface{}{
		{"Başlık", Title},
		{"Kayıt Sayısı", total},
		{"Satır Sayısı", len(records)},
		{"Kaynak", sourceURL},
	}
	for i, row := range summary {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheetSummary, cell, &row); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	return nil
}
