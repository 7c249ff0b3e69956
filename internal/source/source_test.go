package source

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"

	"github.com/JonMunkholm/sheetresolver/internal/core"
)

const sheetCSV = "key,0\n#,Name\nint32,str\n0,Potion\n"

func readAll(t *testing.T, rc io.ReadCloser) string {
	t.Helper()
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(b)
}

func TestGitHub_Fetch(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		switch r.URL.Path {
		case "/owner/repo/main/csv/Item.csv":
			w.Header().Set("Content-Type", "text/plain")
			_, _ = io.WriteString(w, sheetCSV)
		case "/owner/repo/main/csv/quest/000/Intro.csv":
			_, _ = io.WriteString(w, sheetCSV)
		case "/owner/repo/main/csv/Broken.csv":
			http.Error(w, "boom", http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	gh := NewGitHub("owner/repo", "main", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		rc, err := gh.Fetch(ctx, "Item")
		require.NoError(t, err)
		assert.Equal(t, sheetCSV, readAll(t, rc))
	})

	t.Run("nested sheet", func(t *testing.T) {
		rc, err := gh.Fetch(ctx, "quest/000/Intro")
		require.NoError(t, err)
		assert.Equal(t, sheetCSV, readAll(t, rc))
	})

	t.Run("not found", func(t *testing.T) {
		_, err := gh.Fetch(ctx, "Missing")
		require.ErrorIs(t, err, core.ErrSheetNotFound)

		var fe *core.FetchError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, http.StatusNotFound, fe.Status)
		assert.Equal(t, "Missing", fe.Sheet)
	})

	t.Run("server error", func(t *testing.T) {
		_, err := gh.Fetch(ctx, "Broken")
		require.ErrorIs(t, err, core.ErrUpstream)
		assert.NotErrorIs(t, err, core.ErrSheetNotFound)
	})

	t.Run("invalid name never leaves the process", func(t *testing.T) {
		before := requests.Load()
		_, err := gh.Fetch(ctx, "../secrets")
		assert.ErrorIs(t, err, core.ErrInvalidSheetName)
		assert.Equal(t, before, requests.Load())
	})
}

func TestGitHub_GzipResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		_, _ = io.WriteString(gz, sheetCSV)
		_ = gz.Close()
	}))
	defer srv.Close()

	gh := NewGitHub("owner/repo", "main", WithBaseURL(srv.URL))
	rc, err := gh.Fetch(context.Background(), "Item")
	require.NoError(t, err)
	assert.Equal(t, sheetCSV, readAll(t, rc))
}

func TestGitHub_ContextCancelled(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	gh := NewGitHub("owner/repo", "main", WithBaseURL(srv.URL), WithTimeout(5*time.Second))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := gh.Fetch(ctx, "Item")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGitHub_Defaults(t *testing.T) {
	gh := NewGitHub("", "", WithBaseURL(""), WithTimeout(0))
	assert.Equal(t, DefaultRepoID, gh.RepoID)
	assert.Equal(t, DefaultBranch, gh.Branch)
	assert.Equal(t, DefaultFetchTimeout, gh.Client.Timeout)

	u, err := gh.SheetURL("Item")
	require.NoError(t, err)
	assert.Equal(t, "https://raw.githubusercontent.com/xivapi/ffxiv-datamining/master/csv/Item.csv", u)

	u, err = gh.SheetURL("custom/000/Foo")
	require.NoError(t, err)
	assert.Equal(t, "https://raw.githubusercontent.com/xivapi/ffxiv-datamining/master/csv/custom/000/Foo.csv", u)
}

func writeSheet(t *testing.T, root, name string, c Compression) {
	t.Helper()
	var buf bytes.Buffer
	switch c {
	case CompressionNone:
		buf.WriteString(sheetCSV)
	case CompressionGZ:
		w := gzip.NewWriter(&buf)
		_, err := io.WriteString(w, sheetCSV)
		require.NoError(t, err)
		require.NoError(t, w.Close())
	case CompressionZSTD:
		w, err := zstd.NewWriter(&buf)
		require.NoError(t, err)
		_, err = io.WriteString(w, sheetCSV)
		require.NoError(t, err)
		require.NoError(t, w.Close())
	case CompressionXZ:
		w, err := xz.NewWriter(&buf)
		require.NoError(t, err)
		_, err = io.WriteString(w, sheetCSV)
		require.NoError(t, err)
		require.NoError(t, w.Close())
	default:
		t.Fatalf("no writer for %s", c)
	}

	path := filepath.Join(root, "csv", filepath.FromSlash(name)+extCSV+c.Extension())
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestDir_Fetch(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionGZ, CompressionZSTD, CompressionXZ} {
		t.Run(c.String(), func(t *testing.T) {
			root := t.TempDir()
			writeSheet(t, root, "Item", c)

			rc, err := NewDir(root).Fetch(context.Background(), "Item")
			require.NoError(t, err)
			assert.Equal(t, sheetCSV, readAll(t, rc))
		})
	}
}

func TestDir_NestedSheet(t *testing.T) {
	root := t.TempDir()
	writeSheet(t, root, "quest/000/Intro", CompressionGZ)

	rc, err := NewDir(root).Fetch(context.Background(), "quest/000/Intro")
	require.NoError(t, err)
	assert.Equal(t, sheetCSV, readAll(t, rc))

	_, err = NewDir(root).Fetch(context.Background(), "quest/../quest/000/Intro")
	assert.ErrorIs(t, err, core.ErrInvalidSheetName)
}

func TestDir_Errors(t *testing.T) {
	root := t.TempDir()
	d := NewDir(root)
	ctx := context.Background()

	_, err := d.Fetch(ctx, "Missing")
	assert.ErrorIs(t, err, core.ErrSheetNotFound)

	_, err = d.Fetch(ctx, "../Item")
	assert.ErrorIs(t, err, core.ErrInvalidSheetName)

	require.NoError(t, os.MkdirAll(filepath.Join(root, "csv"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "csv", "Bad.csv.gz"), []byte("not gzip"), 0o644))
	_, err = d.Fetch(ctx, "Bad")
	assert.ErrorIs(t, err, core.ErrUpstream)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = d.Fetch(cancelled, "Missing")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDetectCompression(t *testing.T) {
	tests := map[string]Compression{
		"Item.csv":     CompressionNone,
		"Item.csv.gz":  CompressionGZ,
		"Item.CSV.GZ":  CompressionGZ,
		"Item.csv.bz2": CompressionBZ2,
		"Item.csv.xz":  CompressionXZ,
		"Item.csv.zst": CompressionZSTD,
	}
	for path, want := range tests {
		assert.Equal(t, want, DetectCompression(path), path)
	}
}

// fakeRow scans a fixed result.
type fakeRow struct {
	content []byte
	err     error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*[]byte) = r.content
	return nil
}

// fakeQuerier serves sheets from a map and records the last query.
type fakeQuerier struct {
	sheets map[string]string
	err    error
	sql    string
}

func (q *fakeQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	q.sql = sql
	if q.err != nil {
		return fakeRow{err: q.err}
	}
	content, ok := q.sheets[args[0].(string)]
	if !ok {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{content: []byte(content)}
}

func TestPostgres_Fetch(t *testing.T) {
	q := &fakeQuerier{sheets: map[string]string{"Item": sheetCSV}}
	p := NewPostgres(q, "mirror.sheets")
	ctx := context.Background()

	rc, err := p.Fetch(ctx, "Item")
	require.NoError(t, err)
	assert.Equal(t, sheetCSV, readAll(t, rc))
	assert.Equal(t, `SELECT content FROM "mirror"."sheets" WHERE name = $1`, q.sql)

	_, err = p.Fetch(ctx, "Missing")
	assert.ErrorIs(t, err, core.ErrSheetNotFound)

	q.err = errors.New("connection reset")
	_, err = p.Fetch(ctx, "Item")
	assert.ErrorIs(t, err, core.ErrUpstream)
}

func TestPostgres_DefaultTable(t *testing.T) {
	p := NewPostgres(&fakeQuerier{}, "")
	assert.Equal(t, DefaultTable, p.Table())
}
