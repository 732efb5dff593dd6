// Package adapters renders export tables as CSV, zipped CSV or XLSX.
package adapters

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"fmt"

	"sibtech_backend/internal/feature/report/domain/table"
	"sibtech_backend/internal/feature/report/usecase"
)

// ZipName is the archive name used when more than one table is exported as CSV.
const ZipName = "sibtech_export.zip"

// utf8BOM lets spreadsheet apps detect UTF-8 (Persian notes, for example).
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type csvEncoder struct{}

var _ usecase.Encoder = (*csvEncoder)(nil)

func NewCSVEncoder() *csvEncoder {
	return &csvEncoder{}
}

// Encode writes <kind>.csv for a single table and a zip of them otherwise.
func (e *csvEncoder) Encode(tables []table.Table) (*usecase.File, error) {
	if len(tables) == 1 {
		data, err := EncodeCSV(tables[0])
		if err != nil {
			return nil, err
		}
		return &usecase.File{Name: string(tables[0].Kind) + ".csv", ContentType: "text/csv; charset=utf-8", Data: data}, nil
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, t := range tables {
		data, err := EncodeCSV(t)
		if err != nil {
			return nil, err
		}
		w, err := zw.Create(string(t.Kind) + ".csv")
		if err != nil {
			return nil, fmt.Errorf("zip %s: %w", t.Kind, err)
		}
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("zip %s: %w", t.Kind, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return &usecase.File{Name: ZipName, ContentType: "application/zip", Data: buf.Bytes()}, nil
}

// EncodeCSV renders t as comma-separated UTF-8 with a BOM.
func EncodeCSV(t table.Table) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)
	w := csv.NewWriter(&buf)
	if err := w.Write(t.Header); err != nil {
		return nil, err
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
