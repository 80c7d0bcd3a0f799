// Package csvcodec serializes uniform records to CSV and parses them back.
//
// Encoding follows RFC 4180 quoting as implemented by encoding/csv: a field is
// quoted when it contains a comma, a double quote, a line break or leading
// whitespace, and internal quotes are doubled. Values are rendered as:
//
//   - nil (or a nil pointer): empty field
//   - time.Time: ISO-8601 in UTC with millisecond precision
//   - integers, floats, bools: strconv formatting
//   - strings and fmt.Stringer: as-is
//
// Decoding returns every value as a string. It does not re-validate types.
package csvcodec

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// TimeLayout is the layout used for time.Time values.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

var (
	// ErrNoData is returned when encoding an empty record set.
	ErrNoData = errors.New("no data to export")

	// ErrMissingHeader is returned when decoding input without a header line.
	ErrMissingHeader = errors.New("invalid csv: missing header row")
)

// Field is a single named value within a Record.
type Field struct {
	Name  string
	Value any
}

// Record is an ordered set of fields. Field order of the first record in a
// batch defines the header.
type Record []Field

// Get returns the value for name and whether the field exists.
func (r Record) Get(name string) (any, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// String returns the value for name as a string, or "" when absent.
func (r Record) String(name string) string {
	v, ok := r.Get(name)
	if !ok {
		return ""
	}
	return FormatValue(v)
}

// Names returns the field names in order.
func (r Record) Names() []string {
	names := make([]string, len(r))
	for i, f := range r {
		names[i] = f.Name
	}
	return names
}

// ShapeError reports a record whose field set differs from the header.
type ShapeError struct {
	Row   int    // zero-based record index
	Field string // offending field name
	Msg   string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("invalid csv: record %d: %s %q", e.Row, e.Msg, e.Field)
}

// Encode writes records to w as CSV. The header is taken from the first
// record; every record must expose exactly the same field names.
func Encode(w io.Writer, records []Record) error {
	if len(records) == 0 {
		return ErrNoData
	}

	header := records[0].Names()
	index := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := index[name]; dup {
			return &ShapeError{Row: 0, Field: name, Msg: "duplicate field"}
		}
		index[name] = i
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	line := make([]string, len(header))
	for row, rec := range records {
		if len(rec) != len(header) {
			return &ShapeError{Row: row, Field: fmt.Sprintf("%d fields", len(rec)), Msg: "field count differs from header"}
		}
		seen := make([]bool, len(header))
		for _, f := range rec {
			i, ok := index[f.Name]
			if !ok {
				return &ShapeError{Row: row, Field: f.Name, Msg: "unexpected field"}
			}
			if seen[i] {
				return &ShapeError{Row: row, Field: f.Name, Msg: "duplicate field"}
			}
			seen[i] = true
			line[i] = FormatValue(f.Value)
		}
		if err := cw.Write(line); err != nil {
			return fmt.Errorf("write record %d: %w", row, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Marshal encodes records and returns the CSV text.
func Marshal(records []Record) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses CSV produced by Encode. A leading UTF-8 BOM and trailing
// blank lines are ignored. All values are returned as strings.
func Decode(r io.Reader) ([]Record, error) {
	// BOMOverride strips a UTF-8 BOM and the decoder replaces invalid bytes.
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	cr := csv.NewReader(decoded)
	cr.FieldsPerRecord = 0

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrMissingHeader
	}
	if err != nil {
		return nil, fmt.Errorf("invalid csv: %w", err)
	}

	var records []Record
	for {
		line, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid csv: %w", err)
		}

		rec := make(Record, len(header))
		for i, name := range header {
			rec[i] = Field{Name: name, Value: line[i]}
		}
		records = append(records, rec)
	}

	return records, nil
}

// Unmarshal decodes CSV text.
func Unmarshal(data []byte) ([]Record, error) {
	return Decode(bytes.NewReader(data))
}

// FormatValue renders a scalar value as a CSV field.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case *string:
		if val == nil {
			return ""
		}
		return *val
	case time.Time:
		if val.IsZero() {
			return ""
		}
		return val.UTC().Format(TimeLayout)
	case *time.Time:
		if val == nil || val.IsZero() {
			return ""
		}
		return val.UTC().Format(TimeLayout)
	case int:
		return strconv.Itoa(val)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case fmt.Stringer:
		return val.String()
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return ""
		}
		return FormatValue(rv.Elem().Interface())
	}
	return fmt.Sprint(v)
}
