package adapters

import (
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"sibtech_backend/internal/feature/report/domain/table"
	"sibtech_backend/internal/feature/report/usecase"
)

// XLSXName is the workbook file name.
const XLSXName = "sibtech_export.xlsx"

type xlsxEncoder struct{}

var _ usecase.Encoder = (*xlsxEncoder)(nil)

func NewXLSXEncoder() *xlsxEncoder {
	return &xlsxEncoder{}
}

// Encode writes one sheet per table, named after its kind.
func (e *xlsxEncoder) Encode(tables []table.Table) (*usecase.File, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("failed to close workbook", "error", err)
		}
	}()

	for i, t := range tables {
		name := string(t.Kind)
		if i == 0 {
			// replaces the default Sheet1
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
		if err := writeRows(f, name, t); err != nil {
			return nil, fmt.Errorf("sheet %s: %w", name, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return &usecase.File{
		Name:        XLSXName,
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        buf.Bytes(),
	}, nil
}

func writeRows(f *excelize.File, sheet string, t table.Table) error {
	rows := append([][]string{t.Header}, t.Rows...)
	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return err
		}
		vals := make([]interface{}, len(row))
		for i, v := range row {
			vals[i] = v
		}
		if err := f.SetSheetRow(sheet, cell, &vals); err != nil {
			return err
		}
	}
	return nil
}
