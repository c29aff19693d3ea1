package sheet

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"unicode"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"defasagem/internal/features"
)

var (
	// ErrUnreadable means the upload is not a workbook excelize can open.
	ErrUnreadable = errors.New("spreadsheet unreadable")
	// ErrSheetNotFound means the requested sheet does not exist.
	ErrSheetNotFound = errors.New("sheet not found")
	// ErrNoHeader means no sheet has a header row with an idade column.
	ErrNoHeader = errors.New("no header row with an idade column")
	// ErrRowNotFound means the requested data row is past the end or blank.
	ErrRowNotFound = errors.New("row not found")
)

// headerScanRows bounds the search for the header row.
const headerScanRows = 10

// Options selects what to read.
type Options struct {
	// Sheet names the worksheet. Empty picks the first sheet with a header.
	Sheet string
	// Row is the 1-based data row below the header. Zero means the first.
	Row int
}

// Result is one imported row.
type Result struct {
	Sheet   string
	Row     int
	Record  features.Record
	Ignored []string
}

// headerAliases maps normalized header text to record columns.
var headerAliases = map[string]string{
	"idade":            features.ColAge,
	"idade_aluno":      features.ColAge,
	"genero":           features.ColGender,
	"sexo":             features.ColGender,
	"fase_ideal":       features.ColIdealPhase,
	"mat":              features.ColMath,
	"matem":            features.ColMath,
	"matematica":       features.ColMath,
	"por":              features.ColPortuguese,
	"portug":           features.ColPortuguese,
	"portugues":        features.ColPortuguese,
	"ing":              features.ColEnglish,
	"ingles":           features.ColEnglish,
	"iaa":              features.ColIAA,
	"ieg":              features.ColIEG,
	"ips":              features.ColIPS,
	"ipp":              features.ColIPP,
	"inde_2022":        features.ColINDE2022,
	"inde_22":          features.ColINDE2022,
	"inde_2023":        features.ColINDE2023,
	"inde_23":          features.ColINDE2023,
	"inde_2024":        features.ColINDE2024,
	"inde_24":          features.ColINDE2024,
	"inde_atual":       features.ColINDE2024,
	"ida":              features.ColIDA,
	"ipv":              features.ColIPV,
	"n_av":             features.ColEvaluations,
	"no_av":            features.ColEvaluations,
	"no_de_avaliacoes": features.ColEvaluations,
	"n_de_avaliacoes":  features.ColEvaluations,
}

// ReadRecord reads one student row from an .xlsx workbook. Cells are kept
// as text for the feature preparation to coerce; blank cells are missing.
// Headers that match no indicator are reported in Result.Ignored.
func ReadRecord(r io.Reader, opts Options, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	defer f.Close()

	name, rows, header, err := locate(f, opts.Sheet)
	if err != nil {
		return nil, err
	}

	row := opts.Row
	if row <= 0 {
		row = 1
	}
	idx := header + row
	if idx >= len(rows) || blank(rows[idx]) {
		return nil, fmt.Errorf("%w: sheet %q has no data row %d", ErrRowNotFound, name, row)
	}

	columns, ignored := mapHeader(rows[header])
	record := make(features.Record, len(columns))
	cells := rows[idx]
	for i, col := range columns {
		if col == "" {
			continue
		}
		if _, seen := record[col]; seen {
			continue
		}
		record[col] = cellValue(cells, i)
	}

	logger.Debug("Spreadsheet row imported",
		slog.String("sheet", name),
		slog.Int("row", row),
		slog.Int("columns", len(record)),
		slog.Int("ignored", len(ignored)))

	return &Result{Sheet: name, Row: row, Record: record, Ignored: ignored}, nil
}

// locate returns the sheet to read, its rows and the header row index.
func locate(f *excelize.File, want string) (string, [][]string, int, error) {
	sheets := f.GetSheetList()
	if want != "" {
		if !slices.Contains(sheets, want) {
			return "", nil, 0, fmt.Errorf("%w: %q", ErrSheetNotFound, want)
		}
		sheets = []string{want}
	}

	for _, name := range sheets {
		// Raw values keep date-styled cells as their serial number.
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return "", nil, 0, fmt.Errorf("%w: sheet %q: %w", ErrUnreadable, name, err)
		}
		if header := findHeader(rows); header >= 0 {
			return name, rows, header, nil
		}
	}
	return "", nil, 0, ErrNoHeader
}

func findHeader(rows [][]string) int {
	for i := 0; i < len(rows) && i < headerScanRows; i++ {
		for _, cell := range rows[i] {
			if headerAliases[NormalizeHeader(cell)] == features.ColAge {
				return i
			}
		}
	}
	return -1
}

// mapHeader returns the record column of every header cell ("" for
// unknown ones) and the non-blank headers that were not recognized.
func mapHeader(header []string) ([]string, []string) {
	columns := make([]string, len(header))
	var ignored []string
	for i, cell := range header {
		key := NormalizeHeader(cell)
		if key == "" {
			continue
		}
		if col, ok := headerAliases[key]; ok {
			columns[i] = col
			continue
		}
		ignored = append(ignored, strings.TrimSpace(cell))
	}
	return columns, ignored
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeHeader folds a header cell to a lookup key: accents removed,
// lower case, ordinal indicators read as "o", and runs of anything other
// than letters and digits collapsed to a single underscore.
func NormalizeHeader(s string) string {
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	pendingSep := false
	for _, r := range folded {
		switch {
		case r == 'º' || r == '°':
			r = 'o'
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			pendingSep = b.Len() > 0
			continue
		}
		if pendingSep {
			b.WriteByte('_')
			pendingSep = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

func cellValue(cells []string, i int) features.Value {
	if i >= len(cells) {
		return features.Missing()
	}
	v := strings.TrimSpace(cells[i])
	if v == "" {
		return features.Missing()
	}
	return features.Text(v)
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
