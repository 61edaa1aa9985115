package features

import (
	"bytes"
	"encoding/json"

	"github.com/uptc-energy/energy-assistant/internal/timeseries"
)

// Record is one window row projected onto the fixed column list. The column
// order is part of the wire contract with the prediction service, so Record
// marshals its keys in that order instead of relying on map iteration.
type Record struct {
	columns []string
	values  []float64
}

func newRecord(row timeseries.Row, columns []string) Record {
	values := make([]float64, len(columns))
	for i, c := range columns {
		values[i] = row.Values[c]
	}
	return Record{columns: columns, values: values}
}

// Value returns the projected value for a column.
func (r Record) Value(column string) (float64, bool) {
	for i, c := range r.columns {
		if c == column {
			return r.values[i], true
		}
	}
	return 0, false
}

// Columns returns the projection order.
func (r Record) Columns() []string {
	return r.columns
}

func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(r.values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
