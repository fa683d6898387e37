// Package fixtures creates random tables for tests.
// This is primary and only used for testing.
package fixtures

import (
	"bytes"
	"encoding/csv"
	"io"
	"strconv"
	"sync"

	"github.com/Pallinder/go-randomdata"
	"github.com/patternkit/multicsv/tabular"
)

var mutex sync.Mutex

// Value returns a random non-empty cell value.
func Value() string {
	mutex.Lock()
	defer mutex.Unlock()
	switch randomdata.Number(3) {
	case 0:
		return randomdata.SillyName()
	case 1:
		return strconv.Itoa(randomdata.Number(1, 1_000_000))
	default:
		return randomdata.Noun()
	}
}

// Values returns n random cell values.
func Values(n int) []string {
	vs := make([]string, 0, n)
	for i := 0; i < n; i++ {
		vs = append(vs, Value())
	}
	return vs
}

// Column returns a random column name that is safe to use as a CSV header field.
func Column() string {
	mutex.Lock()
	defer mutex.Unlock()
	return randomdata.Adjective() + "_" + randomdata.Noun()
}

// Table builds a table where the designated column holds the given values,
// and a few random extra columns surround it.
func Table(column string, values ...string) *tabular.Records {
	header := []string{"id", column, Column()}
	rows := make([][]string, 0, len(values))
	for i, v := range values {
		rows = append(rows, []string{strconv.Itoa(i + 1), v, Value()})
	}
	return tabular.NewRecords(header, rows)
}

// CSV renders a table in CSV format, header first.
// It panics when the table cannot be written, like any other broken fixture.
func CSV(t *tabular.Records) []byte {
	var buf bytes.Buffer
	writeCSV(&buf, t)
	return buf.Bytes()
}

func writeCSV(out io.Writer, t *tabular.Records) {
	w := csv.NewWriter(out)
	if t.Header != nil {
		if err := w.Write(t.Header); err != nil {
			panic(err.Error())
		}
	}
	if err := w.WriteAll(t.Rows); err != nil {
		panic(err.Error())
	}
	w.Flush()
	if err := w.Error(); err != nil {
		panic(err.Error())
	}
}
