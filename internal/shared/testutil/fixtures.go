package testutil

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

// HighRiskStudent returns raw indicators of a struggling student, with the
// 2024 INDE as text the way spreadsheet exports carry it.
func HighRiskStudent() map[string]any {
	return map[string]any{
		"idade": 15, "genero": "Menino", "fase_ideal": "Fase 6",
		"mat": 3.0, "por": 4.0, "ing": 2.5,
		"iaa": 5.0, "ieg": 4.0, "ips": 5.5, "ipp": 5.0,
		"inde_2022": 6.5, "inde_2023": 5.5, "inde_2024": "5.1",
		"ida": 3.5, "ipv": 4.5, "n_av": 2,
	}
}

// LowRiskStudent returns raw indicators of a student doing well.
func LowRiskStudent() map[string]any {
	return map[string]any{
		"idade": 10, "genero": "Menina", "fase_ideal": "Fase 2",
		"mat": 9.0, "por": 8.5, "ing": 9.0,
		"iaa": 9.0, "ieg": 9.5, "ips": 8.0, "ipp": 8.0,
		"inde_2022": 7.5, "inde_2023": 8.0, "inde_2024": "8.6",
		"ida": 8.5, "ipv": 8.5, "n_av": 4,
	}
}

// Workbook builds an .xlsx in memory with the given header and rows on a
// sheet named sheet.
func Workbook(t *testing.T, sheet string, header []string, rows ...[]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			t.Fatalf("rename sheet: %v", err)
		}
	}

	cells := make([]any, len(header))
	for i, h := range header {
		cells[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &cells); err != nil {
		t.Fatalf("write header: %v", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			t.Fatalf("write row %d: %v", i, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}
