// Package csvloader loads CSV sources into tabular.Records.
//
// Sources ending in ".gz" are gzip compressed, sources ending in ".zst" are zstd compressed,
// and the extension left after stripping those decides the field delimiter (".tsv" means tab).
// The first record of a source is its header.
package csvloader

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/patternkit/multicsv/pkg/errorkit"
	"github.com/patternkit/multicsv/tabular"
)

// byteOrderMark is written in front of CSV exports by spreadsheet tools.
const byteOrderMark = "\ufeff"

// Loader implements tabular.Loader for CSV files.
type Loader struct {
	// FS is where sources are opened from.
	// When nil, sources are treated as operating system paths.
	FS fs.FS
	// Comma overrides the field delimiter.
	Comma rune
}

func (l Loader) Load(ctx context.Context, source string) (tabular.Table, error) {
	r, err := l.LoadRecords(ctx, source)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// LoadRecords is Load with the concrete table type, for callers that need the header and the raw rows.
func (l Loader) LoadRecords(ctx context.Context, source string) (_ *tabular.Records, rErr error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := l.open(source)
	if err != nil {
		return nil, err
	}
	defer errorkit.Finish(&rErr, f.Close)

	digest := xxhash.New()
	raw := io.TeeReader(f, digest)

	body, closeBody, err := decompress(source, raw)
	if err != nil {
		return nil, tabular.ErrMalformed.F("%s: %w", source, err)
	}
	defer errorkit.Finish(&rErr, closeBody)

	r := csv.NewReader(skipByteOrderMark(body))
	r.Comma = l.comma(source)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, tabular.ErrMalformed.F("%s: %w", source, err)
	}
	// the checksum covers the whole file, including what the decompressor did not consume
	if _, err := io.Copy(io.Discard, raw); err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var header []string
	var rows [][]string
	if 0 < len(records) {
		header, rows = records[0], records[1:]
	}
	t := tabular.NewRecords(header, rows)
	t.Checksum = digest.Sum64()
	return t, nil
}

func skipByteOrderMark(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(byteOrderMark)); err == nil && string(prefix) == byteOrderMark {
		_, _ = br.Discard(len(byteOrderMark))
	}
	return br
}

func (l Loader) open(source string) (io.ReadCloser, error) {
	if l.FS == nil {
		return os.Open(source)
	}
	return l.FS.Open(source)
}

func (l Loader) comma(source string) rune {
	if l.Comma != 0 {
		return l.Comma
	}
	if path.Ext(stripCompression(source)) == ".tsv" {
		return '\t'
	}
	return ','
}

func stripCompression(source string) string {
	for _, ext := range []string{".gz", ".zst"} {
		if strings.HasSuffix(source, ext) {
			return strings.TrimSuffix(source, ext)
		}
	}
	return source
}

func decompress(source string, r io.Reader) (io.Reader, func() error, error) {
	switch path.Ext(source) {
	case ".gz":
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return gz, gz.Close, nil
	case ".zst":
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return dec, func() error { dec.Close(); return nil }, nil
	default:
		return r, func() error { return nil }, nil
	}
}
