// Package parsers loads portfolio snapshot CSV exports into typed records.
//
// A snapshot is three flat files: the loan tape, the repayment schedule, and
// the payment history. Upstream systems export them with inconsistent column
// names and formats, so each loader resolves configured column aliases to
// stable field names and hands the raw cells to the lenient normalizer in the
// models package. Malformed cells coerce to neutral values; rows that fail
// structural validation afterwards are counted and skipped, never fatal.
//
// Loader types:
//   - LoanTapeLoader: one row per loan with balance, rate, tenor and cohort fields
//   - ScheduleLoader: one row per loan-period with the ending balance
//   - PaymentsLoader: one row per observed payment with days past due
//   - SnapshotLoader: convenience wrapper loading all three files
package parsers

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang-lending-kpi-service/pkg/errors"
	"golang-lending-kpi-service/pkg/logger"
)

// ParseConfig holds low-level CSV reading options shared by all loaders
type ParseConfig struct {
	HasHeader        bool
	Delimiter        rune
	Comment          rune
	TrimLeadingSpace bool
	SkipEmptyRows    bool
	ValidateEncoding bool
}

// DefaultParseConfig returns a configuration with sensible defaults
func DefaultParseConfig() *ParseConfig {
	return &ParseConfig{
		HasHeader:        true,
		Delimiter:        ',',
		Comment:          0,
		TrimLeadingSpace: true,
		SkipEmptyRows:    true,
		ValidateEncoding: true,
	}
}

// baseReader provides the CSV plumbing common to the three loaders
type baseReader struct {
	config *ParseConfig
	logger logger.Logger
}

func newBaseReader(config *ParseConfig, component string) *baseReader {
	if config == nil {
		config = DefaultParseConfig()
	}

	return &baseReader{
		config: config,
		logger: logger.GetGlobalLogger().WithComponent(component),
	}
}

// readerState holds per-file state during a load
type readerState struct {
	lineNumber int
	headers    []string
	headerMap  map[string]int
	ctx        context.Context
}

func newReaderState(ctx context.Context) *readerState {
	if ctx == nil {
		ctx = context.Background()
	}
	return &readerState{
		headerMap: make(map[string]int),
		ctx:       ctx,
	}
}

func (rs *readerState) cancelled() bool {
	select {
	case <-rs.ctx.Done():
		return true
	default:
		return false
	}
}

// columnIndex returns the index of a column by name, case-insensitively,
// or -1 if not found
func (rs *readerState) columnIndex(name string) int {
	if index, exists := rs.headerMap[name]; exists {
		return index
	}

	lower := strings.ToLower(name)
	for header, index := range rs.headerMap {
		if strings.ToLower(header) == lower {
			return index
		}
	}

	return -1
}

// openFile opens a snapshot file and returns a configured csv.Reader
func (br *baseReader) openFile(filePath string) (*os.File, *csv.Reader, error) {
	br.logger.WithField("file_path", filePath).Debug("Opening snapshot file")

	file, err := os.Open(filePath)
	if err != nil {
		br.logger.WithError(err).WithField("file_path", filePath).Error("Failed to open snapshot file")

		if os.IsNotExist(err) {
			return nil, nil, errors.FileError(errors.CodeFileNotFound, filePath, err)
		}
		if os.IsPermission(err) {
			return nil, nil, errors.FileError(errors.CodeFilePermission, filePath, err)
		}

		return nil, nil, errors.FileError(errors.CodeFileNotFound, filePath, err)
	}

	if br.config.ValidateEncoding {
		if err := br.validateEncoding(file, filePath); err != nil {
			file.Close()
			return nil, nil, err
		}

		if _, err := file.Seek(0, 0); err != nil {
			file.Close()
			return nil, nil, errors.FileError(errors.CodeFileNotFound, filePath, err)
		}
	}

	reader := csv.NewReader(file)
	reader.Comma = br.config.Delimiter
	reader.Comment = br.config.Comment
	reader.TrimLeadingSpace = br.config.TrimLeadingSpace
	reader.FieldsPerRecord = -1

	return file, reader, nil
}

// validateEncoding checks the first lines of the file for valid UTF-8
func (br *baseReader) validateEncoding(file *os.File, filePath string) error {
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() && lineNum < 100 {
		lineNum++
		if !utf8.Valid(scanner.Bytes()) {
			return errors.ParseError(
				errors.CodeInvalidFormat,
				filePath,
				fmt.Sprintf("invalid UTF-8 at line %d", lineNum),
				nil,
			).WithSuggestion("Save the file in UTF-8 encoding and try again")
		}
	}

	if err := scanner.Err(); err != nil {
		return errors.FileError(errors.CodeFileNotFound, filePath, err)
	}

	return nil
}

// readHeaders reads the header row and verifies the required columns exist
func (br *baseReader) readHeaders(reader *csv.Reader, state *readerState, filePath string, required []string) error {
	if !br.config.HasHeader {
		// Without a header row, columns are assumed to be in required order
		state.headers = append([]string(nil), required...)
		br.buildHeaderMap(state)
		return nil
	}

	headers, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return errors.ParseError(
				errors.CodeEmptyFile,
				filePath,
				"file contains no rows",
				nil,
			)
		}
		return errors.ParseError(errors.CodeInvalidFormat, filePath, "failed to read header row", err)
	}

	state.lineNumber++
	state.headers = make([]string, len(headers))
	for i, header := range headers {
		state.headers[i] = strings.TrimSpace(header)
	}
	br.buildHeaderMap(state)

	var missing []string
	for _, name := range required {
		if state.columnIndex(name) == -1 {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		br.logger.WithFields(logger.Fields{
			"missing_columns":   missing,
			"available_columns": state.headers,
		}).Error("Required columns are missing")

		return errors.ParseError(
			errors.CodeMissingColumn,
			filePath,
			strings.Join(missing, ", "),
			nil,
		)
	}

	return nil
}

func (br *baseReader) buildHeaderMap(state *readerState) {
	state.headerMap = make(map[string]int)
	for i, header := range state.headers {
		state.headerMap[header] = i
	}
}

// readRecord reads the next non-empty record, honoring cancellation
func (br *baseReader) readRecord(reader *csv.Reader, state *readerState) ([]string, error) {
	for {
		if state.cancelled() {
			return nil, state.ctx.Err()
		}

		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				return nil, err
			}
			br.logger.WithError(err).WithField("line_number", state.lineNumber+1).Warn("Failed to read CSV record")
			return nil, err
		}

		state.lineNumber++

		if br.config.SkipEmptyRows && isEmptyRecord(record) {
			continue
		}

		return record, nil
	}
}

func isEmptyRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

// fieldValue retrieves a cell by column name, or "" when the row is short
// or the column absent. Missing cells are a normalizer concern, not a read
// failure.
func (rs *readerState) fieldValue(record []string, column string) string {
	index := rs.columnIndex(column)
	if index == -1 || index >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[index])
}

// ParseStats holds statistics about one file load
type ParseStats struct {
	TotalLines    int
	RecordsParsed int
	RecordsValid  int
	SkippedRows   int
	RowErrors     []string
}

// AddRowError records a skipped row with its reason
func (ps *ParseStats) AddRowError(line int, reason string) {
	ps.SkippedRows++
	ps.RowErrors = append(ps.RowErrors, fmt.Sprintf("line %d: %s", line, reason))
}

// HasErrors returns true if any rows were skipped
func (ps *ParseStats) HasErrors() bool {
	return ps.SkippedRows > 0
}

// String returns a human-readable summary of the load
func (ps *ParseStats) String() string {
	return fmt.Sprintf("Read %d lines, %d records (%d valid), %d skipped",
		ps.TotalLines, ps.RecordsParsed, ps.RecordsValid, ps.SkippedRows)
}

// SampleErrors returns up to maxSamples skipped-row reasons for logging
func (ps *ParseStats) SampleErrors(maxSamples int) []string {
	if len(ps.RowErrors) == 0 {
		return nil
	}

	limit := len(ps.RowErrors)
	if maxSamples > 0 && maxSamples < limit {
		limit = maxSamples
	}

	return ps.RowErrors[:limit]
}
