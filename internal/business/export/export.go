// Package export writes filtered records as CSV or XLSX in the dataset's
// original column order.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/weiwei-tsao/ev-dashboard/apps/api/internal/business/dataset"
	"github.com/weiwei-tsao/ev-dashboard/apps/api/pkg/model"
	"github.com/xuri/excelize/v2"
)

// ErrUnknownFormat rejects export names other than records.csv and records.xlsx.
var ErrUnknownFormat = errors.New("unknown export format")

// Format of an export file.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// SheetName is the worksheet holding the records in XLSX exports.
const SheetName = "Vehicles"

// ParseFile accepts "records.csv" and "records.xlsx".
func ParseFile(name string) (Format, error) {
	ext := path.Ext(name)
	if strings.TrimSuffix(name, ext) == "records" {
		switch ext {
		case ".csv":
			return FormatCSV, nil
		case ".xlsx":
			return FormatXLSX, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Write dispatches to WriteCSV or WriteXLSX.
func Write(w io.Writer, format Format, header []string, records []model.Record) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, header, records)
	case FormatXLSX:
		return WriteXLSX(w, header, records)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// WriteCSV writes the header row followed by one row per record.
func WriteCSV(w io.Writer, header []string, records []model.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	row := make([]string, len(header))
	for _, r := range records {
		for i, name := range header {
			row[i] = dataset.StringValue(r, name)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX streams the records into a single worksheet. Numeric columns are
// written as numbers; missing values leave the cell empty.
func WriteXLSX(w io.Writer, header []string, records []model.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}
	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return err
	}
	boldID, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if len(header) > 0 {
		if err := sw.SetColWidth(1, len(header), 18); err != nil {
			return err
		}
	}
	if err := sw.SetPanes(&excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return err
	}

	cells := make([]interface{}, len(header))
	for i, h := range header {
		cells[i] = h
	}
	if err := sw.SetRow("A1", cells, excelize.RowOpts{StyleID: boldID}); err != nil {
		return err
	}

	for n, r := range records {
		cells := make([]interface{}, len(header))
		for i, name := range header {
			if v, ok := dataset.Value(r, name); ok {
				cells[i] = v
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, n+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, cells); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	return f.Write(w)
}
