package sheet

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestReadBlock(t *testing.T) {
	// Create a temporary Excel file for testing
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Sheet1"
	f.SetCellValue(sheetName, "A1", "Header1")
	f.SetCellValue(sheetName, "B1", "Header2")
	f.SetCellValue(sheetName, "A2", 100)
	f.SetCellValue(sheetName, "B2", 200.5)
	f.SetCellValue(sheetName, "A3", "Text")
	f.SetCellValue(sheetName, "B3", 7)
	f.SetCellFormula(sheetName, "B3", "SUM(B1:B2)")
	f.SetCellValue(sheetName, "K3", "outside the block")

	// Save to temp file
	tmpFile := filepath.Join(t.TempDir(), "test.xlsx")
	if err := f.SaveAs(tmpFile); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}

	// Open and read
	f2, err := excelize.OpenFile(tmpFile)
	if err != nil {
		t.Fatalf("Failed to open test file: %v", err)
	}
	defer f2.Close()

	block, err := ReadBlock(f2, sheetName, 9, nil)
	if err != nil {
		t.Fatalf("ReadBlock failed: %v", err)
	}

	if block.MaxRow != 3 {
		t.Errorf("Expected 3 rows, got %d", block.MaxRow)
	}
	if len(block.Rows) != 3 {
		t.Fatalf("Expected 3 row entries, got %d", len(block.Rows))
	}
	if len(block.Rows[0].C) != 9 {
		t.Errorf("Expected 9 cells per row, got %d", len(block.Rows[0].C))
	}

	if block.Rows[0].R != 1 {
		t.Errorf("Expected row 1, got %d", block.Rows[0].R)
	}
	if block.Rows[0].C[0].Value != "Header1" {
		t.Errorf("Expected 'Header1', got %v", block.Rows[0].C[0].Value)
	}

	// Check numeric values
	if block.Rows[1].C[0].Value != int64(100) {
		t.Errorf("Expected int64(100), got %v (type: %T)", block.Rows[1].C[0].Value, block.Rows[1].C[0].Value)
	}
	if block.Rows[1].C[1].Value != 200.5 {
		t.Errorf("Expected 200.5, got %v", block.Rows[1].C[1].Value)
	}

	// Formula cells keep both formula text and cached value
	if block.Rows[2].C[1].Formula != "SUM(B1:B2)" {
		t.Errorf("Expected formula SUM(B1:B2), got %q", block.Rows[2].C[1].Formula)
	}
}

func TestReadBlockNumericText(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetCellStr("Sheet1", "A1", "0042")

	block, err := ReadBlock(f, "Sheet1", 3, nil)
	if err != nil {
		t.Fatalf("ReadBlock failed: %v", err)
	}
	if block.Rows[0].C[0].Value != "0042" {
		t.Errorf("Expected text '0042' to stay text, got %v (type: %T)", block.Rows[0].C[0].Value, block.Rows[0].C[0].Value)
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		input    string
		expected interface{}
	}{
		{"123", int64(123)},
		{"123.45", 123.45},
		{"-100", int64(-100)},
		{"hello", "hello"},
		{"", ""},
	}

	for _, tt := range tests {
		result := parseValue(tt.input)
		if result != tt.expected {
			t.Errorf("parseValue(%q) = %v (type: %T), expected %v (type: %T)",
				tt.input, result, result, tt.expected, tt.expected)
		}
	}
}

func TestReadBlockCountsFormulaWithoutValue(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetCellValue("Sheet1", "A1", "Total")
	f.SetCellFormula("Sheet1", "B3", "SUM(B1:B2)")

	block, err := ReadBlock(f, "Sheet1", 9, nil)
	if err != nil {
		t.Fatalf("ReadBlock failed: %v", err)
	}
	if block.MaxRow != 3 {
		t.Errorf("Expected formula row 3 to be included, got MaxRow %d", block.MaxRow)
	}
	if block.Rows[2].C[1].Formula != "SUM(B1:B2)" {
		t.Errorf("Expected formula SUM(B1:B2), got %q", block.Rows[2].C[1].Formula)
	}
}

func TestUsedBounds(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	maxRow, maxCol, err := UsedBounds(f, "Sheet1")
	if err != nil {
		t.Fatalf("UsedBounds failed: %v", err)
	}
	if maxRow != 0 || maxCol != 0 {
		t.Errorf("Expected (0, 0) for empty sheet, got (%d, %d)", maxRow, maxCol)
	}

	f.SetCellValue("Sheet1", "B2", "x")
	f.SetCellFormula("Sheet1", "E4", "B2")
	maxRow, maxCol, err = UsedBounds(f, "Sheet1")
	if err != nil {
		t.Fatalf("UsedBounds failed: %v", err)
	}
	if maxRow != 4 || maxCol != 5 {
		t.Errorf("Expected (4, 5), got (%d, %d)", maxRow, maxCol)
	}
}
