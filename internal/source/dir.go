package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/sheetresolver/internal/core"
)

// Dir reads sheets from a local checkout of a datamining repository.
//
// A sheet named Item is looked up as {Root}/csv/Item.csv, then with .gz,
// .zst, .xz and .bz2 appended, and the first file found is decompressed by
// its extension. Nested names such as quest/000/Foo map to subdirectories.
type Dir struct {
	Root string
}

// NewDir returns a Dir rooted at root.
func NewDir(root string) *Dir {
	return &Dir{Root: root}
}

// Fetch implements core.Source.
func (d *Dir) Fetch(ctx context.Context, sheet string) (io.ReadCloser, error) {
	if err := core.ValidateSheetName(sheet); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parts := append([]string{d.Root, "csv"}, strings.Split(sheet, "/")...)
	base := filepath.Join(parts...) + extCSV
	for _, c := range searchOrder {
		path := base + c.Extension()
		f, err := os.Open(path) //nolint:gosec // sheet names are validated above
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, &core.FetchError{Sheet: sheet, Err: fmt.Errorf("%w: %v", core.ErrUpstream, err)}
		}

		rc, err := decompress(f, c)
		if err != nil {
			_ = f.Close()
			return nil, &core.FetchError{Sheet: sheet, Err: fmt.Errorf("%w: %s: %v", core.ErrUpstream, filepath.Base(path), err)}
		}
		return rc, nil
	}

	return nil, &core.FetchError{Sheet: sheet, Err: core.ErrSheetNotFound}
}
