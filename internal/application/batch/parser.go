package batch

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	domain "github.com/mohammadpnp/rendimientos-admin/internal/domain/batch"
)

type Columns struct {
	Required []string
	Optional []string
}

func (c Columns) All() []string {
	all := make([]string, 0, len(c.Required)+len(c.Optional))
	all = append(all, c.Required...)
	return append(all, c.Optional...)
}

type fileFormat int

const (
	formatUnknown fileFormat = iota
	formatWorkbook
	formatCSV
)

var (
	utf8BOM  = []byte{0xEF, 0xBB, 0xBF}
	zipMagic = []byte("PK\x03\x04")
)

// sheetRow is one source row with its 1-based position in the file.
type sheetRow struct {
	number int
	cells  []string
}

// Parse decodes an uploaded spreadsheet into raw rows keyed by the declared
// columns. Only the first sheet of a workbook is read.
func Parse(upload domain.Upload, columns Columns) ([]domain.RawRow, error) {
	table, err := readTable(upload)
	if err != nil {
		return nil, err
	}
	if len(table) == 0 {
		return nil, &domain.ParseError{Reason: "file is empty"}
	}

	header := make(map[string]int, len(table[0].cells))
	for i, name := range table[0].cells {
		name = strings.TrimSpace(name)
		if _, seen := header[name]; !seen && name != "" {
			header[name] = i
		}
	}

	var missing []string
	for _, col := range columns.Required {
		if _, ok := header[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &domain.ParseError{MissingColumns: missing}
	}

	declared := columns.All()
	rows := make([]domain.RawRow, 0, len(table)-1)
	for _, src := range table[1:] {
		fields := make(map[string]string, len(declared))
		for _, col := range declared {
			idx, ok := header[col]
			if ok && idx < len(src.cells) {
				fields[col] = strings.TrimSpace(src.cells[idx])
			} else {
				fields[col] = ""
			}
		}

		row := domain.RawRow{Number: src.number, Fields: fields}
		if row.Blank() {
			continue
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, &domain.ParseError{Reason: "file has no data rows"}
	}
	return rows, nil
}

func detectFormat(upload domain.Upload) fileFormat {
	switch strings.ToLower(filepath.Ext(upload.FileName)) {
	case ".xlsx", ".xlsm":
		return formatWorkbook
	case ".csv":
		return formatCSV
	case "":
		if bytes.HasPrefix(upload.Data, zipMagic) {
			return formatWorkbook
		}
		return formatCSV
	default:
		return formatUnknown
	}
}

func readTable(upload domain.Upload) ([]sheetRow, error) {
	switch detectFormat(upload) {
	case formatWorkbook:
		return readWorkbook(upload.Data)
	case formatCSV:
		return readCSV(upload.Data)
	default:
		return nil, &domain.ParseError{Reason: upload.FileName, Cause: domain.ErrUnsupportedFormat}
	}
}

func readWorkbook(data []byte) ([]sheetRow, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &domain.ParseError{Reason: "failed to open workbook", Cause: err}
	}
	defer file.Close()

	sheet := file.GetSheetName(0)
	if sheet == "" {
		return nil, &domain.ParseError{Reason: "workbook has no sheets"}
	}

	// Raw values keep amounts free of display formatting; dates arrive as
	// serial numbers and are handled by the date coercer.
	rows, err := file.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &domain.ParseError{Reason: "failed to read sheet " + sheet, Cause: err}
	}

	table := make([]sheetRow, 0, len(rows))
	for i, cells := range rows {
		table = append(table, sheetRow{number: i + 1, cells: cells})
	}
	return trimLeadingBlank(table), nil
}

func readCSV(data []byte) ([]sheetRow, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.FieldsPerRecord = -1

	// Rows are numbered by record so a quoted cell spanning lines does not
	// shift the numbers of the rows after it.
	var table []sheetRow
	for number := 1; ; number++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &domain.ParseError{Reason: "failed to read csv", Cause: err}
		}
		table = append(table, sheetRow{number: number, cells: record})
	}
	return table, nil
}

func sniffDelimiter(data []byte) rune {
	firstLine := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		firstLine = data[:i]
	}
	if bytes.Count(firstLine, []byte{';'}) > bytes.Count(firstLine, []byte{','}) {
		return ';'
	}
	return ','
}

func trimLeadingBlank(table []sheetRow) []sheetRow {
	for len(table) > 0 && len(table[0].cells) == 0 {
		table = table[1:]
	}
	return table
}
