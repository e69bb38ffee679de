package schedule

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/puckline/matchup/internal/contract"
	"github.com/xuri/excelize/v2"
)

// dateLayouts are tried in order for text date cells.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"1/2/2006",
	"1/2/06",
	"Mon Jan 2, 2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// readRecords returns every row of a .csv file or of one .xlsx sheet.
func readRecords(path, sheet string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return readSheet(path, sheet)
	case ".csv":
		return readCSV(path)
	default:
		return nil, fmt.Errorf("%w: unsupported schedule file type %q (want .xlsx or .csv)", contract.ErrConfiguration, filepath.Ext(path))
	}
}

// readSheet reads raw cell values so date cells arrive as serial numbers.
// A missing sheet falls back to the first sheet in the workbook.
func readSheet(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	if !slices.Contains(sheets, sheet) {
		if sheet != "" {
			contract.LogWarn(fmt.Sprintf("Sheet %q not found in %s, reading %q", sheet, path, sheets[0]),
				fmt.Errorf("available sheets: %s", strings.Join(sheets, ", ")))
		}
		sheet = sheets[0]
	}
	return f.GetRows(sheet, excelize.Options{RawCellValue: true})
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	return reader.ReadAll()
}

// parseDate accepts Excel serial dates as well as the text layouts above.
func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("missing date")
	}
	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date %q: %w", value, err)
		}
		return dateOnly(t), nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return dateOnly(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", value)
}

func parseWeek(value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("invalid week %q", value)
	}
	return int(f), nil
}

// LoadTeamMapping reads a City to TM code table from .csv or .xlsx (first sheet).
// Cities are upper-cased.
func LoadTeamMapping(path string) (map[string]string, error) {
	records, err := readRecords(path, "")
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("team mapping %s is empty", path)
	}

	cityCol, codeCol := -1, -1
	for i, h := range records[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "city":
			cityCol = i
		case "tm":
			codeCol = i
		}
	}
	if cityCol < 0 || codeCol < 0 {
		return nil, fmt.Errorf("team mapping %s needs City and TM columns", path)
	}

	mapping := make(map[string]string, len(records)-1)
	for _, rec := range records[1:] {
		city := strings.ToUpper(cell(rec, cityCol))
		code := strings.ToUpper(cell(rec, codeCol))
		if city == "" || code == "" {
			continue
		}
		mapping[city] = code
	}
	return mapping, nil
}
