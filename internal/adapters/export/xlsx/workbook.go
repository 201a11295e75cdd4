package xlsx

import (
	"fmt"
	"io"

	"bhw-patient-registry/internal/domain/dates"
	"bhw-patient-registry/internal/domain/reports"

	"github.com/xuri/excelize/v2"
)

const (
	SheetResidents = "Residents"
	SheetPregnant  = "Pregnant"
	SheetSummary   = "Summary"
)

var residentHeader = []string{"ID", "Name", "Age", "Sitio", "Health Status", "LMP", "EDD", "PWD Type"}

var pregnantHeader = []string{"ID", "Name", "Last Menstrual", "EDD (Expected)", "Sitio", "Next Check-up"}

// Exporter arma el libro con excelize.
type Exporter struct{}

func New() Exporter { return Exporter{} }

var _ reports.Exporter = Exporter{}

func (Exporter) WriteWorkbook(w io.Writer, wb reports.Workbook) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	idx, err := f.NewSheet(SheetResidents)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}
	f.SetActiveSheet(idx)

	residents := make([][]any, 0, len(wb.Residents))
	for _, r := range wb.Residents {
		var age any = dates.Unknown
		if r.Age != dates.UnknownAge {
			age = r.Age
		}
		residents = append(residents, []any{r.ID, r.Name, age, r.Sitio, r.HealthStatus, r.LMP, r.DueDate, r.PWDType})
	}
	if err := writeTable(f, SheetResidents, residentHeader, residents, bold); err != nil {
		return err
	}

	if _, err := f.NewSheet(SheetPregnant); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	pregnant := make([][]any, 0, len(wb.Pregnant))
	for _, p := range wb.Pregnant {
		next := p.NextCheckup
		if next == "" {
			next = "No upcoming checkups."
		}
		pregnant = append(pregnant, []any{p.ID, p.Name, p.LMP, dates.Format(p.DueDate), p.Sitio, next})
	}
	if err := writeTable(f, SheetPregnant, pregnantHeader, pregnant, bold); err != nil {
		return err
	}

	if _, err := f.NewSheet(SheetSummary); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	if err := writeSummary(f, wb.Snapshot, bold); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeTable(f *excelize.File, sheet string, header []string, rows [][]any, headerStyle int) error {
	row := make([]any, len(header))
	for i, h := range header {
		row[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &row); err != nil {
		return fmt.Errorf("%s header: %w", sheet, err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("%s header style: %w", sheet, err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+2, err)
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(header))
	if err := f.SetColWidth(sheet, "B", lastCol, 20); err != nil {
		return fmt.Errorf("%s widths: %w", sheet, err)
	}
	return nil
}

// writeSummary deja las secciones una debajo de la otra, con una fila en blanco entre ellas.
func writeSummary(f *excelize.File, s reports.Snapshot, headerStyle int) error {
	rows := [][]any{
		{"Generated", s.GeneratedAt.Format("2006-01-02 15:04")},
		{"Total Residents", s.Total},
		{"Senior Citizens", s.Seniors},
		{"Active Pregnant", s.ActivePregnancies},
		{"Registered PWD", s.PWD},
		{},
		{"Sitio", "Residents"},
	}
	headers := []int{len(rows)}
	for _, sc := range s.BySitio {
		rows = append(rows, []any{sc.Sitio, sc.Count})
	}
	rows = append(rows, []any{"N/A or Undefined", s.Undefined}, []any{})

	rows = append(rows, []any{"Illness (excluding NORMAL)", "Residents", "Percent"})
	headers = append(headers, len(rows))
	for _, sh := range s.Illnesses {
		rows = append(rows, []any{sh.Name, sh.Count, fmt.Sprintf("%.1f%%", sh.Percent)})
	}
	rows = append(rows, []any{})

	rows = append(rows, []any{"PWD Category", "Residents", "Percent"})
	headers = append(headers, len(rows))
	for _, sh := range s.PWDCategories {
		rows = append(rows, []any{sh.Name, sh.Count, fmt.Sprintf("%.1f%%", sh.Percent)})
	}

	for i, r := range rows {
		if len(r) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetSummary, cell, &r); err != nil {
			return fmt.Errorf("summary row %d: %w", i+1, err)
		}
	}
	for _, h := range headers {
		if err := f.SetCellStyle(SheetSummary, fmt.Sprintf("A%d", h), fmt.Sprintf("C%d", h), headerStyle); err != nil {
			return fmt.Errorf("summary style: %w", err)
		}
	}
	return f.SetColWidth(SheetSummary, "A", "A", 30)
}
