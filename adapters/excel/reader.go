package excel

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"normscope/domain/core"
	"normscope/internal"
	"normscope/internal/errors"
)

// DataReader handles reading Excel and CSV files into a RawTable
type DataReader struct {
	filePath string
	sheet    string
	fileType string // "xlsx" or "csv"
	log      *internal.Logger
}

// NewDataReader creates a reader for an xlsx or csv file. The sheet name is
// only consulted for xlsx files.
func NewDataReader(filePath, sheet string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{
		filePath: filePath,
		sheet:    sheet,
		fileType: fileType,
		log:      internal.DefaultLogger.Named("reader"),
	}
}

// ReadData reads the file into a RawTable and fingerprints its bytes.
// Every failure is a LOAD_ERROR: a missing file, an unreadable workbook, a
// missing sheet, or the absence of a header row plus at least one data row.
func (r *DataReader) ReadData() (*RawTable, core.DatasetHash, error) {
	r.log.Debug("reading %s file: %s", r.fileType, r.filePath)

	data, err := os.ReadFile(r.filePath)
	if err != nil {
		return nil, "", errors.WithCode(errors.CodeLoadError,
			fmt.Errorf("%s file not readable: %w", strings.ToUpper(r.fileType), err))
	}
	fingerprint := core.NewDatasetHash(data)

	var table *RawTable
	switch r.fileType {
	case "csv":
		table, err = r.readCSVData(data)
	case "xlsx":
		table, err = r.readExcelData(data)
	default:
		err = errors.LoadErrorf("unsupported file type: %s", r.fileType)
	}
	if err != nil {
		return nil, "", err
	}

	r.log.Info("%s file processed (%d columns, %d rows)",
		strings.ToUpper(r.fileType), len(table.Headers), len(table.Rows))
	return table, fingerprint, nil
}

func (r *DataReader) readExcelData(data []byte) (*RawTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.WithCode(errors.CodeLoadError,
			fmt.Errorf("failed to open workbook %s: %w", r.filePath, err))
	}
	defer f.Close()

	rows, err := f.GetRows(r.sheet)
	if err != nil {
		return nil, errors.WithCode(errors.CodeLoadError,
			fmt.Errorf("failed to read sheet %q: %w", r.sheet, err))
	}
	if len(rows) < 2 {
		return nil, errors.LoadErrorf("sheet %q must have a header row and at least one data row", r.sheet)
	}

	return r.processRows(rows), nil
}

func (r *DataReader) readCSVData(data []byte) (*RawTable, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.WithCode(errors.CodeLoadError,
			fmt.Errorf("failed to parse CSV file %s: %w", r.filePath, err))
	}
	if len(rows) < 2 {
		return nil, errors.LoadError("CSV file must have a header row and at least one data row")
	}

	return r.processRows(rows), nil
}

// processRows converts raw string rows into RawTable form
func (r *DataReader) processRows(rows [][]string) *RawTable {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(header)
	}

	dataRows := make([]RawRow, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		rowData := make(RawRow, len(headers))
		for j, cell := range row {
			if j < len(headers) {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}
		dataRows = append(dataRows, rowData)
	}

	return &RawTable{
		Headers: headers,
		Rows:    dataRows,
	}
}
