package table

import (
	"bytes"
	"encoding/csv"
	stderrors "errors"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jorgebotas/gocyto/pkg/errors"
)

// Delimiters tried when parsing edge lists.
const (
	Tab   = '\t'
	Comma = ','
)

// missingMarkers are read as missing values.
var missingMarkers = map[string]bool{
	"":         true,
	"#N/A":     true,
	"#N/A N/A": true,
	"#NA":      true,
	"-1.#IND":  true,
	"-1.#QNAN": true,
	"-NaN":     true,
	"-nan":     true,
	"1.#IND":   true,
	"1.#QNAN":  true,
	"<NA>":     true,
	"N/A":      true,
	"NA":       true,
	"NULL":     true,
	"NaN":      true,
	"None":     true,
	"n/a":      true,
	"nan":      true,
	"null":     true,
}

// IsMissing reports whether s is a missing-value marker.
func IsMissing(s string) bool {
	return missingMarkers[s]
}

// records is a parsed delimited file: header plus data rows. Each data row
// keeps its 1-based line number for error messages.
type records struct {
	header []string
	rows   [][]string
	lines  []int
}

func (r *records) col(name string) int {
	for i, h := range r.header {
		if h == name {
			return i
		}
	}
	return -1
}

func readFile(path string) ([]byte, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "%s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return data, nil
}

// parseDelimited parses data with the given delimiter. Blank lines are
// skipped; quotes are handled leniently.
func parseDelimited(data []byte, delim rune) (*records, error) {
	data = bytes.TrimPrefix(data, []byte("\ufeff"))

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.ReuseRecord = false

	out := &records{}
	for {
		rec, err := r.Read()
		if stderrors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := r.FieldPos(0)
		if out.header == nil {
			out.header = trimAll(rec)
			continue
		}
		out.rows = append(out.rows, trimAll(rec))
		out.lines = append(out.lines, line)
	}
	if out.header == nil {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "empty file")
	}
	return out, nil
}

func trimAll(rec []string) []string {
	for i, f := range rec {
		rec[i] = strings.TrimSpace(f)
	}
	return rec
}

// field returns row[i], or "" when the row is short.
func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// inferType returns the narrowest type that holds every present value.
func inferType(values []string) ColumnType {
	typ := Integer
	present := false
	for _, v := range values {
		if v == "" {
			continue
		}
		present = true
		if typ == Integer {
			if _, err := strconv.ParseInt(v, 10, 64); err == nil {
				continue
			}
			typ = Double
		}
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			return String
		}
	}
	if !present {
		return String
	}
	return typ
}
