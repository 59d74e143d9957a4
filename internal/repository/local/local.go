// Package local serves records from a JSON document held entirely in memory.
// It stands in for a remote document database during development and tests.
package local

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"

	gojson "github.com/goccy/go-json"

	"spacegame/internal/logging"
	"spacegame/internal/repository"
)

var logger = logging.For("local")

// Repository is an immutable snapshot of records decoded from a JSON array.
// Records keep document order. It is safe for concurrent use.
type Repository[T repository.Model] struct {
	source string
	items  []T
}

// Open reads and decodes the JSON array stored at path.
func Open[T repository.Model](path string) (*Repository[T], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, repository.Unreadable(path, err)
	}
	defer f.Close()
	return load[T](path, f)
}

// Load reads r to EOF and decodes it as a JSON array of records.
func Load[T repository.Model](r io.Reader) (*Repository[T], error) {
	return load[T]("stream", r)
}

// LoadNamed is Load with a source name used in errors and logs.
func LoadNamed[T repository.Model](name string, r io.Reader) (*Repository[T], error) {
	return load[T](name, r)
}

func load[T repository.Model](source string, r io.Reader) (*Repository[T], error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, repository.Unreadable(source, err)
	}
	items, err := decode[T](data)
	if err != nil {
		return nil, repository.Malformed(source, err)
	}
	logger.Info("loaded records", "source", source, "records", len(items), "bytes", len(data))
	return &Repository[T]{source: source, items: items}, nil
}

var errNotArray = errors.New("top-level value is not an array")

// decode rejects anything but a JSON array, including null.
func decode[T any](data []byte) ([]T, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, io.ErrUnexpectedEOF
	}
	if trimmed[0] != '[' {
		return nil, errNotArray
	}
	items := []T{}
	if err := gojson.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetItems returns page (zero-based) of the records matching predicate,
// ordered by descending orderDescending key. It never blocks.
func (r *Repository[T]) GetItems(_ context.Context, predicate repository.Predicate[T], orderDescending repository.SortKey[T], page, pageSize int) ([]T, error) {
	q := repository.Query[T]{
		Predicate:       predicate,
		OrderDescending: orderDescending,
		Page:            page,
		PageSize:        pageSize,
	}
	items := q.Apply(r.items)
	logger.Debug("query", "source", r.source, "page", page, "page_size", pageSize, "returned", len(items))
	return items, nil
}

// CountItems returns how many records match predicate.
func (r *Repository[T]) CountItems(_ context.Context, predicate repository.Predicate[T]) (int, error) {
	return repository.Query[T]{Predicate: predicate}.Count(r.items), nil
}

// Len returns the snapshot size.
func (r *Repository[T]) Len() int {
	return len(r.items)
}
