package source

import (
	"errors"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// decompress wraps raw according to the suffix of name. Closing the result
// closes raw.
func decompress(name string, raw io.ReadCloser) (io.ReadCloser, error) {
	switch {
	case strings.HasSuffix(name, ".gz"):
		zr, err := gzip.NewReader(raw)
		if err != nil {
			return nil, err
		}
		return &stacked{Reader: zr, closers: []io.Closer{zr, raw}}, nil
	case strings.HasSuffix(name, ".zst"):
		zr, err := zstd.NewReader(raw)
		if err != nil {
			return nil, err
		}
		return &stacked{Reader: zr, closers: []io.Closer{zstdCloser{zr}, raw}}, nil
	case strings.HasSuffix(name, ".lz4"):
		return &stacked{Reader: lz4.NewReader(raw), closers: []io.Closer{raw}}, nil
	default:
		return raw, nil
	}
}

type stacked struct {
	io.Reader
	closers []io.Closer
}

func (s *stacked) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// zstd.Decoder.Close has no error result.
type zstdCloser struct{ d *zstd.Decoder }

func (z zstdCloser) Close() error {
	z.d.Close()
	return nil
}
