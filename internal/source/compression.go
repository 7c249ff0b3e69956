package source

import (
	"compress/bzip2"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Compression is the compression applied to a mirrored sheet file.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionGZ
	CompressionBZ2
	CompressionXZ
	CompressionZSTD
)

const (
	extCSV  = ".csv"
	extGZ   = ".gz"
	extBZ2  = ".bz2"
	extXZ   = ".xz"
	extZSTD = ".zst"
)

// Extension returns the file extension for c, or "" for CompressionNone.
func (c Compression) Extension() string {
	switch c {
	case CompressionGZ:
		return extGZ
	case CompressionBZ2:
		return extBZ2
	case CompressionXZ:
		return extXZ
	case CompressionZSTD:
		return extZSTD
	default:
		return ""
	}
}

// String returns a readable name for c.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionGZ:
		return "gzip"
	case CompressionBZ2:
		return "bzip2"
	case CompressionXZ:
		return "xz"
	case CompressionZSTD:
		return "zstd"
	default:
		return "unknown"
	}
}

// searchOrder is the order in which mirror files are probed.
var searchOrder = []Compression{
	CompressionNone,
	CompressionGZ,
	CompressionZSTD,
	CompressionXZ,
	CompressionBZ2,
}

// DetectCompression reports the compression of path by its extension.
func DetectCompression(path string) Compression {
	path = strings.ToLower(path)

	switch {
	case strings.HasSuffix(path, extGZ):
		return CompressionGZ
	case strings.HasSuffix(path, extBZ2):
		return CompressionBZ2
	case strings.HasSuffix(path, extXZ):
		return CompressionXZ
	case strings.HasSuffix(path, extZSTD):
		return CompressionZSTD
	default:
		return CompressionNone
	}
}

// decompress wraps rc so reads return decompressed bytes. Closing the
// result closes rc.
func decompress(rc io.ReadCloser, c Compression) (io.ReadCloser, error) {
	switch c {
	case CompressionNone:
		return rc, nil

	case CompressionGZ:
		gz, err := gzip.NewReader(rc)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return &stackedReader{Reader: gz, closers: []func() error{gz.Close, rc.Close}}, nil

	case CompressionBZ2:
		// bzip2 readers need no closing
		return &stackedReader{Reader: bzip2.NewReader(rc), closers: []func() error{rc.Close}}, nil

	case CompressionXZ:
		xzr, err := xz.NewReader(rc)
		if err != nil {
			return nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
		return &stackedReader{Reader: xzr, closers: []func() error{rc.Close}}, nil

	case CompressionZSTD:
		dec, err := zstd.NewReader(rc)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		return &stackedReader{Reader: dec, closers: []func() error{
			func() error { dec.Close(); return nil },
			rc.Close,
		}}, nil

	default:
		return nil, fmt.Errorf("unsupported compression: %v", c)
	}
}

// stackedReader reads from a decompressor and closes every layer beneath it.
type stackedReader struct {
	io.Reader
	closers []func() error
}

func (s *stackedReader) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
