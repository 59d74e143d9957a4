// Package repository defines the read-only query surface shared by every
// record backend, along with the filter, sort and page pipeline they all run.
//
// Backends:
//
//   - local: a JSON document loaded fully into memory at construction
//   - stored: records kept in a bucket of a store.Store (bbolt)
//
// Both satisfy Repository and return identical results for identical data.
package repository

import "context"

// Model is a record type with an externally identifiable key.
type Model interface {
	Identifier() string
}

// Predicate decides whether a record belongs in a result.
type Predicate[T any] func(T) bool

// SortKey ranks a record. Results are ordered by descending key.
type SortKey[T any] func(T) int

// Repository is the query capability set a record backend offers.
//
// Page numbers are zero-based: GetItems skips page*pageSize matches before
// taking pageSize of them, so page 1 is the second page.
type Repository[T Model] interface {
	GetItems(ctx context.Context, predicate Predicate[T], orderDescending SortKey[T], page, pageSize int) ([]T, error)
	CountItems(ctx context.Context, predicate Predicate[T]) (int, error)
}

// All matches every record.
func All[T any](T) bool { return true }
