package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Rahamath-Saniya-ms/edi-pipeline/internal/projector"
)

// XLSX exports each run as a workbook named after the run, one sheet per
// non-empty table. Re-exporting a run overwrites its workbook.
type XLSX struct {
	dir string
}

// NewXLSX creates dir if needed.
func NewXLSX(dir string) (*XLSX, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}
	return &XLSX{dir: dir}, nil
}

// Path is where the workbook for runID is written.
func (x *XLSX) Path(runID string) string {
	safe := strings.NewReplacer("/", "_", `\`, "_", "..", "_").Replace(runID)
	return filepath.Join(x.dir, safe+".xlsx")
}

func (x *XLSX) Write(ctx context.Context, runID string, tables *projector.Tables) (WriteResult, error) {
	res := newResult()
	if err := checkTables(tables); err != nil {
		return res, err
	}
	if tables.Total() == 0 {
		return res, nil
	}

	f := excelize.NewFile()
	defer f.Close()

	first := true
	for _, table := range projector.AllTables {
		if err := ctx.Err(); err != nil {
			return newResult(), err
		}
		rows := tables.Rows(table)
		if len(rows) == 0 {
			continue
		}
		sheet := string(table)
		if first {
			// Reuse the default sheet so the workbook has no blank tab.
			if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
				return newResult(), fmt.Errorf("rename sheet: %w", err)
			}
			first = false
		} else if _, err := f.NewSheet(sheet); err != nil {
			return newResult(), fmt.Errorf("new sheet %s: %w", sheet, err)
		}

		if err := writeSheet(f, sheet, rows); err != nil {
			return newResult(), err
		}
		res.Inserted[table] = len(rows)
	}

	if err := f.SaveAs(x.Path(runID)); err != nil {
		return newResult(), fmt.Errorf("save workbook: %w", err)
	}
	return res, nil
}

func writeSheet(f *excelize.File, sheet string, rows []projector.Record) error {
	fields := rows[0].Fields()
	header := make([]any, len(fields))
	for i, fd := range fields {
		header[i] = fd.Name
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}

	for i, r := range rows {
		fields := r.Fields()
		values := make([]any, len(fields))
		for j, fd := range fields {
			values[j] = fd.Value
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i, err)
		}
	}
	return nil
}

// Close is a no-op; workbooks are closed after each run.
func (x *XLSX) Close() error { return nil }
