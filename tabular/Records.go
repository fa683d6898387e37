package tabular

// NewRecords creates a Table from a header and its data rows.
// Rows may be ragged; a row shorter than the header only fails when a missing cell is requested.
func NewRecords(header []string, rows [][]string) *Records {
	index := make(map[string]int, len(header))
	for i, name := range header {
		if _, ok := index[name]; !ok {
			index[name] = i
		}
	}
	return &Records{Header: header, Rows: rows, index: index}
}

// Records is the plain in-memory Table implementation.
type Records struct {
	Header []string
	Rows   [][]string
	// Checksum is the xxhash64 digest of the content the table was loaded from, when the loader computed one.
	Checksum uint64

	index map[string]int
}

func (r *Records) Len() int { return len(r.Rows) }

func (r *Records) Value(row int, column string) (string, error) {
	if row < 0 || len(r.Rows) <= row {
		return "", ErrRowOutOfRange.F("row %d of %d", row, len(r.Rows))
	}
	col, ok := r.index[column]
	if !ok {
		return "", ErrColumnNotFound.F("%q is not part of the header %q", column, r.Header)
	}
	record := r.Rows[row]
	if len(record) <= col {
		return "", ErrColumnNotFound.F("row %d has %d fields, %q is field %d", row, len(record), column, col+1)
	}
	return record[col], nil
}

func (r *Records) Close() error {
	r.Rows = nil
	return nil
}
