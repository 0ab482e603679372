package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"bmc-redfish/internal/redfish"
)

// BuildSELPDF renders a minimal PDF report of the system event log.
func BuildSELPDF(overallHealth string, entries []redfish.LogEntryMember) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "System Event Log Report")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Overall Health: %s", overallHealth))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Entries: %d", len(entries)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", time.Now().UTC().Format(time.RFC3339)))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(15, 6, "Id", "1", 0, "C", false, 0, "")
	pdf.CellFormat(45, 6, "Created", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Severity", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 6, "Source", "1", 0, "C", false, 0, "")
	pdf.CellFormat(70, 6, "Message", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, entry := range entries {
		pdf.CellFormat(15, 6, entry.ID, "1", 0, "C", false, 0, "")
		pdf.CellFormat(45, 6, entry.Created, "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, entry.Severity, "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 6, entrySource(entry), "1", 0, "L", false, 0, "")
		pdf.CellFormat(70, 6, entry.Message, "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildSELXLSX renders a minimal XLSX report of the system event log.
func BuildSELXLSX(overallHealth string, entries []redfish.LogEntryMember) ([]byte, error) {
	f := excelize.NewFile()
	summarySheet := "summary"
	entriesSheet := "entries"
	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(entriesSheet); err != nil {
		return nil, err
	}

	_ = f.SetCellValue(summarySheet, "A1", "System Event Log Report")
	_ = f.SetCellValue(summarySheet, "A3", "Overall Health")
	_ = f.SetCellValue(summarySheet, "B3", overallHealth)
	_ = f.SetCellValue(summarySheet, "A4", "Entries")
	_ = f.SetCellValue(summarySheet, "B4", len(entries))
	_ = f.SetCellValue(summarySheet, "A5", "Generated")
	_ = f.SetCellValue(summarySheet, "B5", time.Now().UTC().Format(time.RFC3339))

	_ = f.SetCellValue(entriesSheet, "A1", "Id")
	_ = f.SetCellValue(entriesSheet, "B1", "Created")
	_ = f.SetCellValue(entriesSheet, "C1", "Severity")
	_ = f.SetCellValue(entriesSheet, "D1", "Source")
	_ = f.SetCellValue(entriesSheet, "E1", "Message")
	for i, entry := range entries {
		row := i + 2
		_ = f.SetCellValue(entriesSheet, fmt.Sprintf("A%d", row), entry.ID)
		_ = f.SetCellValue(entriesSheet, fmt.Sprintf("B%d", row), entry.Created)
		_ = f.SetCellValue(entriesSheet, fmt.Sprintf("C%d", row), entry.Severity)
		_ = f.SetCellValue(entriesSheet, fmt.Sprintf("D%d", row), entrySource(entry))
		_ = f.SetCellValue(entriesSheet, fmt.Sprintf("E%d", row), entry.Message)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func entrySource(entry redfish.LogEntryMember) string {
	if len(entry.MessageArgs) == 0 {
		return ""
	}
	return entry.MessageArgs[0]
}
