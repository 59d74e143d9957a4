// Package store abstracts the embedded key-value engine that backs the
// stored repository. Keys within a bucket iterate in byte order.
package store

// Batch maps bucket names to the entries written into them.
type Batch map[string]map[string][]byte

// Store is a bucketed key-value store.
type Store interface {
	// Put writes every bucket of b in a single transaction, creating
	// buckets as needed and keeping entries not named in b.
	Put(b Batch) error
	// Replace is Put, but each bucket named in b is emptied first in the
	// same transaction. On error every bucket keeps its previous contents.
	Replace(b Batch) error
	// ForEach visits every entry of bucket in key order. A missing bucket
	// is empty. Key and value are only valid during the call.
	ForEach(bucket []byte, fn func(key, value []byte) error) error
	// Len returns the number of keys in bucket.
	Len(bucket []byte) (int, error)
	Close() error
}
