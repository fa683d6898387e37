package csvloader_test

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/patternkit/multicsv/tabular"
	"github.com/patternkit/multicsv/tabular/csvloader"
	"github.com/stretchr/testify/require"
	"go.llib.dev/testcase"
)

const plain = "id,column\n1,a\n2,b\n"

func gzipped(tb testing.TB, data string) []byte {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write([]byte(data))
	require.NoError(tb, err)
	require.NoError(tb, w.Close())
	return buf.Bytes()
}

func zstded(tb testing.TB, data string) []byte {
	enc, err := zstd.NewWriter(nil)
	require.NoError(tb, err)
	defer enc.Close()
	return enc.EncodeAll([]byte(data), nil)
}

func values(tb testing.TB, tbl tabular.Table, column string) []string {
	var vs []string
	for i := 0; i < tbl.Len(); i++ {
		v, err := tbl.Value(i, column)
		require.NoError(tb, err)
		vs = append(vs, v)
	}
	return vs
}

func TestLoader(t *testing.T) {
	s := testcase.NewSpec(t)

	fsys := testcase.Let(s, func(t *testcase.T) fstest.MapFS {
		return fstest.MapFS{
			"plain.csv":      {Data: []byte(plain)},
			"packed.csv.gz":  {Data: gzipped(t, plain)},
			"packed.csv.zst": {Data: zstded(t, plain)},
			"tabbed.tsv":     {Data: []byte("id\tcolumn\n1\ta\n2\tb\n")},
			"empty.csv":      {Data: []byte{}},
			"header.csv":     {Data: []byte("id,column\n")},
			"ragged.csv":     {Data: []byte("id,column\n1,a\n2\n")},
			"broken.csv":     {Data: []byte("id,column\n\"1,a\n")},
			"broken.csv.gz":  {Data: []byte("not gzip at all")},
			"excel.csv":      {Data: []byte("\xef\xbb\xbf\"column\",id\n1,a\n2,b\n")},
			"excel.csv.gz":   {Data: gzipped(t, "\ufeffcolumn\n1\n2\n")},
		}
	})
	source := testcase.LetValue(s, "plain.csv")
	subject := testcase.Let(s, func(t *testcase.T) csvloader.Loader {
		return csvloader.Loader{FS: fsys.Get(t)}
	})
	act := func(t *testcase.T) (tabular.Table, error) {
		return subject.Get(t).Load(context.Background(), source.Get(t))
	}

	s.Then("the header is taken from the first record", func(t *testcase.T) {
		tbl, err := act(t)
		t.Must.NoError(err)
		t.Must.Equal(2, tbl.Len())
		t.Must.Equal([]string{"a", "b"}, values(t, tbl, "column"))
		t.Must.Equal([]string{"1", "2"}, values(t, tbl, "id"))
	})

	s.Then("the checksum is the xxhash of the raw content", func(t *testcase.T) {
		tbl, err := act(t)
		t.Must.NoError(err)
		records, ok := tbl.(*tabular.Records)
		t.Must.True(ok)
		t.Must.Equal(xxhash.Sum64String(plain), records.Checksum)
	})

	for _, name := range []string{"packed.csv.gz", "packed.csv.zst"} {
		name := name
		s.When("the source is compressed: "+name, func(s *testcase.Spec) {
			source.LetValue(s, name)

			s.Then("it is decompressed transparently", func(t *testcase.T) {
				tbl, err := act(t)
				t.Must.NoError(err)
				t.Must.Equal([]string{"a", "b"}, values(t, tbl, "column"))
			})
		})
	}

	s.When("the source is a tsv file", func(s *testcase.Spec) {
		source.LetValue(s, "tabbed.tsv")

		s.Then("tab is used as delimiter", func(t *testcase.T) {
			tbl, err := act(t)
			t.Must.NoError(err)
			t.Must.Equal([]string{"a", "b"}, values(t, tbl, "column"))
		})
	})

	s.When("the source is completely empty", func(s *testcase.Spec) {
		source.LetValue(s, "empty.csv")

		s.Then("a table with zero rows is returned", func(t *testcase.T) {
			tbl, err := act(t)
			t.Must.NoError(err)
			t.Must.Equal(0, tbl.Len())
		})
	})

	s.When("the source only has a header", func(s *testcase.Spec) {
		source.LetValue(s, "header.csv")

		s.Then("a table with zero rows is returned", func(t *testcase.T) {
			tbl, err := act(t)
			t.Must.NoError(err)
			t.Must.Equal(0, tbl.Len())
		})
	})

	s.When("a row is shorter than the header", func(s *testcase.Spec) {
		source.LetValue(s, "ragged.csv")

		s.Then("loading succeeds and the short row fails on access", func(t *testcase.T) {
			tbl, err := act(t)
			t.Must.NoError(err)
			t.Must.Equal(2, tbl.Len())
			_, err = tbl.Value(1, "column")
			t.Must.ErrorIs(tabular.ErrColumnNotFound, err)
		})
	})

	for _, name := range []string{"excel.csv", "excel.csv.gz"} {
		name := name
		s.When("the source starts with a byte order mark: "+name, func(s *testcase.Spec) {
			source.LetValue(s, name)

			s.Then("the mark is not part of the first header name", func(t *testcase.T) {
				tbl, err := act(t)
				t.Must.NoError(err)
				t.Must.Equal([]string{"1", "2"}, values(t, tbl, "column"))
				t.Must.Equal("column", tbl.(*tabular.Records).Header[0])
			})
		})
	}

	s.When("the csv content is malformed", func(s *testcase.Spec) {
		source.LetValue(s, "broken.csv")

		s.Then("ErrMalformed is returned", func(t *testcase.T) {
			_, err := act(t)
			t.Must.ErrorIs(tabular.ErrMalformed, err)
		})
	})

	s.When("the compressed stream is corrupt", func(s *testcase.Spec) {
		source.LetValue(s, "broken.csv.gz")

		s.Then("ErrMalformed is returned", func(t *testcase.T) {
			_, err := act(t)
			t.Must.ErrorIs(tabular.ErrMalformed, err)
		})
	})

	s.When("the source does not exist", func(s *testcase.Spec) {
		source.LetValue(s, "missing.csv")

		s.Then("the not exist error is returned", func(t *testcase.T) {
			_, err := act(t)
			t.Must.ErrorIs(fs.ErrNotExist, err)
		})
	})

	s.When("Comma is configured", func(s *testcase.Spec) {
		subject.Let(s, func(t *testcase.T) csvloader.Loader {
			return csvloader.Loader{
				FS:    fstest.MapFS{"semi.csv": {Data: []byte("column;id\nx;1\n")}},
				Comma: ';',
			}
		})
		source.LetValue(s, "semi.csv")

		s.Then("it overrides the default delimiter", func(t *testcase.T) {
			tbl, err := act(t)
			t.Must.NoError(err)
			t.Must.Equal([]string{"x"}, values(t, tbl, "column"))
		})
	})

	s.When("the context is already cancelled", func(s *testcase.Spec) {
		s.Then("the cancellation is returned", func(t *testcase.T) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := subject.Get(t).Load(ctx, source.Get(t))
			t.Must.ErrorIs(context.Canceled, err)
		})
	})
}

func TestLoader_osFileSystem(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(p, []byte(plain), 0600))

	tbl, err := csvloader.Loader{}.Load(context.Background(), p)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, values(t, tbl, "column"))
}
