package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/weiwei-tsao/ev-dashboard/apps/api/pkg/model"
	"github.com/weiwei-tsao/ev-dashboard/apps/api/pkg/util"
)

var (
	intPattern   = regexp.MustCompile(`^-?\d+$`)
	floatPattern = regexp.MustCompile(`^-?(\d+\.?|\.\d+|\d+\.\d+)([eE][-+]?\d+)?$`)
)

// Parse reads a CSV document whose first row names the fields. Blank lines
// are skipped and rows may be shorter or longer than the header. Empty input
// yields no records and no error.
func Parse(r io.Reader) ([]string, []model.Record, error) {
	cr := csv.NewReader(bufio.NewReader(r))
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	for i, h := range header {
		header[i] = util.CleanHeader(h)
	}

	var records []model.Record
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read row %d: %w", len(records)+2, err)
		}
		if blankRow(row) {
			continue
		}
		records = append(records, buildRecord(header, row))
	}
	return header, records, nil
}

func buildRecord(header, row []string) model.Record {
	var rec model.Record
	for i, name := range header {
		var raw string
		if i < len(row) {
			raw = util.CleanCell(row[i])
		}
		if c, ok := columns[name]; ok {
			c.set(&rec, raw)
			continue
		}
		if name == "" {
			continue
		}
		if rec.Extra == nil {
			rec.Extra = make(map[string]any)
		}
		rec.Extra[name] = inferValue(raw)
	}
	return rec
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// inferValue converts numeric and boolean cells to Go values; blank cells become nil.
func inferValue(raw string) any {
	switch raw {
	case "":
		return nil
	case "true", "TRUE":
		return true
	case "false", "FALSE":
		return false
	}
	if intPattern.MatchString(raw) {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return n
		}
	}
	if floatPattern.MatchString(raw) {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
	}
	return raw
}

// parseInt reads an integer cell. Decimal values truncate toward zero;
// anything non-numeric is treated as missing.
func parseInt(raw string) *int {
	if raw == "" {
		return nil
	}
	if intPattern.MatchString(raw) {
		if n, err := strconv.Atoi(raw); err == nil {
			return &n
		}
	}
	if floatPattern.MatchString(raw) {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			n := int(f)
			return &n
		}
	}
	return nil
}
