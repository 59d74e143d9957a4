// Package source opens the JSON documents repositories are loaded from.
//
// A document URI is one of:
//
//	path/to/scores.json        local file
//	file:///srv/scores.json    local file
//	-                          standard input
//	s3://bucket/key            Amazon S3 (or an S3 endpoint override)
//	minio://bucket/key         any S3-compatible server through MinIO
//
// A .gz, .zst or .lz4 suffix on the path or key is decompressed on the fly.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"spacegame/internal/logging"
)

var logger = logging.For("source")

// ErrInvalidURI is returned for URIs that name no readable location.
var ErrInvalidURI = errors.New("invalid document uri")

// Options carries backend settings. Zero values use the environment's
// defaults where the backend has them.
type Options struct {
	S3    S3Options
	MinIO MinIOOptions
	// Stdin replaces os.Stdin for the "-" URI.
	Stdin io.Reader
}

// Location is a parsed document URI.
type Location struct {
	Scheme string // "file", "stdin", "s3" or "minio"
	Bucket string
	Path   string // file path or object key
}

// Parse splits uri into a Location.
func Parse(uri string) (Location, error) {
	if uri == "" {
		return Location{}, fmt.Errorf("%w: empty", ErrInvalidURI)
	}
	if uri == "-" {
		return Location{Scheme: "stdin", Path: "-"}, nil
	}
	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok {
		return Location{Scheme: "file", Path: uri}, nil
	}
	switch scheme {
	case "file":
		if rest == "" {
			return Location{}, fmt.Errorf("%w: %q has no path", ErrInvalidURI, uri)
		}
		return Location{Scheme: "file", Path: rest}, nil
	case "s3", "minio":
		bucket, key, _ := strings.Cut(rest, "/")
		if bucket == "" || key == "" {
			return Location{}, fmt.Errorf("%w: %q needs a bucket and a key", ErrInvalidURI, uri)
		}
		return Location{Scheme: scheme, Bucket: bucket, Path: key}, nil
	default:
		return Location{}, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURI, scheme)
	}
}

// Open returns a reader over the decompressed document at uri.
// The caller must close it.
func Open(ctx context.Context, uri string, opts Options) (io.ReadCloser, error) {
	loc, err := Parse(uri)
	if err != nil {
		return nil, err
	}

	var raw io.ReadCloser
	switch loc.Scheme {
	case "stdin":
		in := opts.Stdin
		if in == nil {
			in = os.Stdin
		}
		raw = io.NopCloser(in)
	case "file":
		f, err := os.Open(loc.Path)
		if err != nil {
			return nil, err
		}
		raw = f
	case "s3":
		raw, err = openS3(ctx, loc, opts.S3)
	case "minio":
		raw, err = openMinIO(ctx, loc, opts.MinIO)
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", uri, err)
	}

	rc, err := decompress(loc.Path, raw)
	if err != nil {
		raw.Close()
		return nil, fmt.Errorf("opening %s: %w", uri, err)
	}
	logger.Debug("opened document", "uri", uri, "scheme", loc.Scheme)
	return rc, nil
}
