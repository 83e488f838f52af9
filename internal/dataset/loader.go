package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
)

// Options controls how the input file is read.
type Options struct {
	// Delimiter for CSV. If 0, chosen by extension (',' or '\t' for .tsv).
	Delimiter rune
	// Sheet selects an XLSX sheet by name; empty means the first sheet.
	Sheet string
}

// missingTokens are cell values treated as absent.
var missingTokens = []string{"", "NA", "NaN", "N/A", "null", "<nil>"}

// reader turns a file into raw records, header first.
type reader interface {
	CanRead(path string) bool
	Read(path string, opt Options) ([][]string, error)
}

var readers []reader

func register(r reader) { readers = append(readers, r) }

func init() {
	register(csvReader{})
	register(xlsxReader{})
}

// Load reads a mission file into a Table and parses the Launch Date column.
func Load(path string, opt Options) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	for _, r := range readers {
		if !r.CanRead(path) {
			continue
		}
		recs, err := r.Read(path, opt)
		if err != nil {
			return nil, err
		}
		return FromRecords(filepath.Base(path), recs)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
}

// FromRecords builds a Table from raw records whose first row is the header.
func FromRecords(name string, recs [][]string) (*Table, error) {
	if len(recs) == 0 {
		return nil, fmt.Errorf("%w: missing header", ErrNoData)
	}
	header := make([]string, len(recs[0]))
	for i, h := range recs[0] {
		header[i] = strings.TrimSpace(h)
	}
	if len(recs) < 2 {
		return nil, fmt.Errorf("%w: header only", ErrNoData)
	}
	ncol := len(header)
	dateIdx := -1
	for i, h := range header {
		if h == ColLaunchDate {
			dateIdx = i
		}
	}
	if dateIdx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, ColLaunchDate)
	}

	norm := make([][]string, 0, len(recs))
	norm = append(norm, header)
	dates := make([]time.Time, 0, len(recs)-1)
	for i, rec := range recs[1:] {
		row := make([]string, ncol)
		for j := 0; j < ncol; j++ {
			v := ""
			if j < len(rec) {
				v = strings.TrimSpace(rec[j])
			}
			if isMissing(v) {
				v = "NaN"
			}
			row[j] = v
		}
		var d time.Time
		if v := row[dateIdx]; v != "NaN" {
			pd, ok := parseTimeMaybe(v)
			if !ok {
				return nil, &DateParseError{Row: i + 1, Value: v}
			}
			d = pd
		}
		dates = append(dates, d)
		norm = append(norm, row)
	}

	df := dataframe.LoadRecords(norm,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(missingTokens),
		dataframe.WithTypes(map[string]series.Type{ColLaunchDate: series.String}),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("build table: %w", df.Err)
	}
	return &Table{Name: name, df: df, dates: dates}, nil
}

func isMissing(v string) bool {
	for _, tok := range missingTokens {
		if strings.EqualFold(v, tok) {
			return true
		}
	}
	return false
}

type csvReader struct{}

func (csvReader) CanRead(path string) bool {
	name := strings.ToLower(path)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv")
}

func (csvReader) Read(path string, opt Options) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comma = delim

	var out [][]string
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(out), err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}

type xlsxReader struct{}

func (xlsxReader) CanRead(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".xlsx")
}

func (xlsxReader) Read(path string, opt Options) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrNoData)
	}
	sheet := sheets[0]
	if opt.Sheet != "" {
		idx, err := f.GetSheetIndex(opt.Sheet)
		if err != nil || idx < 0 {
			return nil, fmt.Errorf("sheet '%s' not found in workbook '%s'.\nAvailable sheets: %s",
				opt.Sheet, filepath.Base(path), strings.Join(sheets, ", "))
		}
		sheet = opt.Sheet
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	return rows, nil
}

var dateLayouts = []string{
	time.RFC3339, "2006-01-02", "2006/01/02", "01/02/2006", "02/01/2006", "1/2/2006",
	"2006-01-02 15:04", "2006-01-02 15:04:05", "01-02-06",
}

func parseTimeMaybe(s string) (time.Time, bool) {
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
