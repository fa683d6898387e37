// Package sources describes the ordered list of tabular sources an iteration walks through.
package sources

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
)

// List is an ordered, immutable sequence of source identifiers.
// The zero value is an empty List.
type List struct {
	ids []string
}

// New copies the given identifiers into a List, keeping their order.
func New(ids ...string) List {
	return List{ids: append([]string(nil), ids...)}
}

func (l List) Len() int { return len(l.ids) }

func (l List) IsEmpty() bool { return len(l.ids) == 0 }

// At returns the identifier at index i and panics when i is out of range, like a slice would.
func (l List) At(i int) string { return l.ids[i] }

// IDs returns a copy of the identifiers.
func (l List) IDs() []string { return append([]string(nil), l.ids...) }

func (l List) String() string { return fmt.Sprintf("%v", l.ids) }

// FromDir lists the regular files of dir within fsys.
//
// The order is the one the directory listing reports,
// which the file system does not guarantee to be stable or sorted.
// That order is what an iteration over the returned List will follow,
// so use the Sorted option when a deterministic order is needed.
// Subdirectories are skipped, symbolic links to files are listed.
func FromDir(fsys fs.FS, dir string, opts ...DirOption) (List, error) {
	var c dirConfig
	for _, opt := range opts {
		opt.configure(&c)
	}
	for _, pattern := range c.Patterns {
		if _, err := path.Match(pattern, ""); err != nil {
			return List{}, fmt.Errorf("invalid match pattern %q: %w", pattern, err)
		}
	}
	entries, err := readDirUnsorted(fsys, dir)
	if err != nil {
		return List{}, err
	}
	var ids []string
	for _, entry := range entries {
		if !c.matches(entry.Name()) {
			continue
		}
		id := path.Join(dir, entry.Name())
		if !isFile(fsys, id, entry) {
			continue
		}
		ids = append(ids, id)
	}
	if c.Sorted {
		sort.Strings(ids)
	}
	return List{ids: ids}, nil
}

// isFile reports whether the entry can be read as a file.
// Symbolic links are followed; a link whose target cannot be resolved is kept,
// so loading it reports the problem instead of the source silently disappearing.
func isFile(fsys fs.FS, name string, entry fs.DirEntry) bool {
	switch mode := entry.Type(); {
	case mode.IsRegular():
		return true
	case mode&fs.ModeSymlink != 0:
		info, err := fs.Stat(fsys, name)
		if err != nil {
			return true
		}
		return info.Mode().IsRegular() || info.Mode()&fs.ModeSymlink != 0
	default:
		return false
	}
}

// readDirUnsorted prefers the raw directory order over fs.ReadDir, which would sort the entries.
func readDirUnsorted(fsys fs.FS, dir string) ([]fs.DirEntry, error) {
	f, err := fsys.Open(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rdf, ok := f.(fs.ReadDirFile)
	if !ok {
		return fs.ReadDir(fsys, dir)
	}
	entries, err := rdf.ReadDir(-1)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

type DirOption interface{ configure(*dirConfig) }

type dirOptionFunc func(*dirConfig)

func (fn dirOptionFunc) configure(c *dirConfig) { fn(c) }

// Sorted orders the listed sources lexically by path.
func Sorted() DirOption {
	return dirOptionFunc(func(c *dirConfig) { c.Sorted = true })
}

// Match keeps only the file names that match at least one of the path.Match patterns.
func Match(patterns ...string) DirOption {
	return dirOptionFunc(func(c *dirConfig) { c.Patterns = append(c.Patterns, patterns...) })
}

type dirConfig struct {
	Sorted   bool
	Patterns []string
}

func (c dirConfig) matches(name string) bool {
	if len(c.Patterns) == 0 {
		return true
	}
	for _, pattern := range c.Patterns {
		if ok, _ := path.Match(pattern, name); ok {
			return true
		}
	}
	return false
}
