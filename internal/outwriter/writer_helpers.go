package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/puckline/matchup/internal/contract"
	"github.com/puckline/matchup/schema"
)

// errNeedsOutputFile is returned for binary formats that cannot go to stdout.
var errNeedsOutputFile = errors.New("requires --output-file")

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	if err := writeRows(csvWriter); err != nil {
		return err
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// createFormatters creates the common formatter closures used across multiple output types.
func createFormatters(precision int) (fmtFloat func(float64) string, intFmt string) {
	numFmt := "%.*f"
	intFmt = "%d"
	fmtFloat = func(v float64) string {
		return fmt.Sprintf(numFmt, precision, v)
	}
	return fmtFloat, intFmt
}

// tabular describes one result in every output mode. The csv and xlsx
// modes share the header; each builder is only invoked for its own mode.
type tabular struct {
	name     string // used in messages and as the xlsx sheet name
	header   []string
	records  func() [][]string // csv
	cells    func() [][]any    // xlsx
	jsonData func() any
	parquet  func(io.Writer) error
	text     func(io.Writer) error
}

// writeTabular dispatches a result to the writer for the requested mode.
func writeTabular(t tabular, mode schema.OutputMode, outputFile string) error {
	switch mode {
	case schema.JSONOut:
		if err := writeWithFile(outputFile, func(w io.Writer) error {
			return writeJSON(w, t.jsonData())
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(outputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, t.header, func(cw *csv.Writer) error {
				for _, rec := range t.records() {
					if err := cw.Write(rec); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if t.parquet == nil {
			return fmt.Errorf("%w: %s cannot be written as parquet", contract.ErrConfiguration, t.name)
		}
		if outputFile == "" {
			return fmt.Errorf("parquet output %w", errNeedsOutputFile)
		}
		if err := writeWithFile(outputFile, t.parquet, "Wrote Parquet"); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	case schema.XLSXOut:
		if t.cells == nil {
			return fmt.Errorf("%w: %s cannot be written as xlsx", contract.ErrConfiguration, t.name)
		}
		if outputFile == "" {
			return fmt.Errorf("xlsx output %w", errNeedsOutputFile)
		}
		if err := writeXLSX(outputFile, t.name, t.header, t.cells()); err != nil {
			return fmt.Errorf("error writing XLSX output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote XLSX to %s\n", outputFile)
	default:
		return writeWithFile(outputFile, t.text, "Wrote table")
	}
	return nil
}
