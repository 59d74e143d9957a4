// Package stored serves records kept in a bucket of an embedded store.
// Each record is a JSON value under its identifier. Queries scan the bucket
// and run the same pipeline as the in-memory repository.
package stored

import (
	"bytes"
	"context"
	"fmt"

	gojson "github.com/goccy/go-json"
	"github.com/google/uuid"

	"spacegame/internal/logging"
	"spacegame/internal/repository"
	"spacegame/internal/store"
)

var logger = logging.For("stored")

// Repository reads records of type T from one bucket.
type Repository[T repository.Model] struct {
	st     store.Store
	bucket []byte
}

// New returns a repository over bucket in st. It does not own st.
func New[T repository.Model](st store.Store, bucket string) *Repository[T] {
	return &Repository[T]{st: st, bucket: []byte(bucket)}
}

// GetItems returns page (zero-based) of the matching records ordered by
// descending key. The scan stops early if ctx is cancelled.
func (r *Repository[T]) GetItems(ctx context.Context, predicate repository.Predicate[T], orderDescending repository.SortKey[T], page, pageSize int) ([]T, error) {
	q := repository.Query[T]{
		Predicate:       predicate,
		OrderDescending: orderDescending,
		Page:            page,
		PageSize:        pageSize,
	}
	if pageSize <= 0 {
		return q.Apply(nil), nil
	}
	items, err := r.scan(ctx)
	if err != nil {
		return nil, err
	}
	out := q.Apply(items)
	logger.Debug("query", "bucket", string(r.bucket), "scanned", len(items), "page", page, "page_size", pageSize, "returned", len(out))
	return out, nil
}

// CountItems returns how many records match predicate. A nil predicate is
// answered from bucket statistics without decoding.
func (r *Repository[T]) CountItems(ctx context.Context, predicate repository.Predicate[T]) (int, error) {
	if predicate == nil {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		return r.st.Len(r.bucket)
	}
	items, err := r.scan(ctx)
	if err != nil {
		return 0, err
	}
	return repository.Query[T]{Predicate: predicate}.Count(items), nil
}

func (r *Repository[T]) scan(ctx context.Context) ([]T, error) {
	var items []T
	err := r.st.ForEach(r.bucket, func(key, value []byte) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		var item T
		// bbolt values are only valid inside the transaction
		if err := gojson.Unmarshal(bytes.Clone(value), &item); err != nil {
			return repository.Malformed(fmt.Sprintf("%s/%s", r.bucket, key), err)
		}
		items = append(items, item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Encode turns records into bucket entries keyed by identifier. Records with
// an empty identifier get a random UUID key; later duplicates overwrite
// earlier ones.
func Encode[T repository.Model](ctx context.Context, records []T) (map[string][]byte, error) {
	entries := make(map[string][]byte, len(records))
	generated := 0
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := gojson.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("encoding record %q: %w", rec.Identifier(), err)
		}
		key := rec.Identifier()
		if key == "" {
			key = uuid.NewString()
			generated++
		}
		entries[key] = data
	}
	if generated > 0 {
		logger.Debug("generated record keys", "count", generated)
	}
	return entries, nil
}

// Write commits every bucket of b in one transaction. With replace set the
// named buckets lose their previous contents, but only if the whole write
// succeeds.
func Write(st store.Store, b store.Batch, replace bool) error {
	write := st.Put
	if replace {
		write = st.Replace
	}
	if err := write(b); err != nil {
		return fmt.Errorf("writing records: %w", err)
	}
	for bucket, entries := range b {
		logger.Info("imported records", "bucket", bucket, "records", len(entries), "replace", replace)
	}
	return nil
}

// Import encodes records and writes them into bucket. It returns the number
// of records written.
func Import[T repository.Model](ctx context.Context, st store.Store, bucket string, records []T, replace bool) (int, error) {
	entries, err := Encode(ctx, records)
	if err != nil {
		return 0, err
	}
	if err := Write(st, store.Batch{bucket: entries}, replace); err != nil {
		return 0, err
	}
	return len(entries), nil
}
