package bolt

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	bolterrors "go.etcd.io/bbolt/errors"

	"spacegame/internal/store"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "test.db"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

const testBucket = "scores"

func one(bucket string, entries map[string][]byte) store.Batch {
	return store.Batch{bucket: entries}
}

func values(t *testing.T, s *Store, bucket string) map[string]string {
	t.Helper()
	out := make(map[string]string)
	err := s.ForEach([]byte(bucket), func(k, v []byte) error {
		out[string(k)] = string(v)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func TestOpenClose(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")
	s, err := Open(path, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("db file should exist: %v", err)
	}
}

func TestOpenInvalidPath(t *testing.T) {
	if _, err := Open("/nonexistent/dir/test.db", Options{}); err == nil {
		t.Fatal("opening db in nonexistent dir should fail")
	}
}

func TestOpenReadOnlyShared(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ro.db")
	w, err := Open(path, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Put(one(testBucket, map[string][]byte{"a": []byte("1")})); err != nil {
		t.Fatal(err)
	}
	w.Close()

	r1, err := Open(path, Options{ReadOnly: true, Timeout: time.Second})
	if err != nil {
		t.Fatal(err)
	}
	defer r1.Close()
	r2, err := Open(path, Options{ReadOnly: true, Timeout: time.Second})
	if err != nil {
		t.Fatalf("second reader should share the lock: %v", err)
	}
	defer r2.Close()

	if n, err := r2.Len([]byte(testBucket)); err != nil || n != 1 {
		t.Fatalf("Len: got %d, %v", n, err)
	}
	if err := r1.Put(one(testBucket, map[string][]byte{"b": []byte("2")})); err == nil {
		t.Fatal("write through read-only store should fail")
	}
}

func TestPutAndForEachInKeyOrder(t *testing.T) {
	s := tempStore(t)
	entries := map[string][]byte{
		"c": []byte("val-c"),
		"a": []byte("val-a"),
		"b": []byte("val-b"),
	}
	if err := s.Put(one(testBucket, entries)); err != nil {
		t.Fatal(err)
	}

	var keys []string
	err := s.ForEach([]byte(testBucket), func(k, v []byte) error {
		if string(v) != "val-"+string(k) {
			t.Errorf("key %s: got value %q", k, v)
		}
		keys = append(keys, string(k))
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(keys, ",") != "a,b,c" {
		t.Fatalf("expected keys in byte order, got %v", keys)
	}
}

func TestPutOverwriteKeepsOtherKeys(t *testing.T) {
	s := tempStore(t)
	if err := s.Put(one(testBucket, map[string][]byte{"k": []byte("v1"), "other": []byte("x")})); err != nil {
		t.Fatal(err)
	}
	if err := s.Put(one(testBucket, map[string][]byte{"k": []byte("v2")})); err != nil {
		t.Fatal(err)
	}
	got := values(t, s, testBucket)
	if got["k"] != "v2" || got["other"] != "x" {
		t.Fatalf("got %v", got)
	}
}

func TestPutEmptyKeyFails(t *testing.T) {
	s := tempStore(t)
	if err := s.Put(one(testBucket, map[string][]byte{"": []byte("v")})); err == nil {
		t.Fatal("empty key should be rejected")
	}
	if n, _ := s.Len([]byte(testBucket)); n != 0 {
		t.Fatalf("failed transaction should not leave entries, got %d", n)
	}
}

func TestPutSpansBucketsAtomically(t *testing.T) {
	s := tempStore(t)
	err := s.Put(store.Batch{
		"scores":   {"a": []byte("1")},
		"profiles": {strings.Repeat("k", 40000): []byte("2")},
	})
	if !errors.Is(err, bolterrors.ErrKeyTooLarge) {
		t.Fatalf("expected ErrKeyTooLarge, got %v", err)
	}
	if n, _ := s.Len([]byte("scores")); n != 0 {
		t.Fatalf("scores written despite failed batch: %d", n)
	}
}

func TestReplace(t *testing.T) {
	s := tempStore(t)
	s.Put(one(testBucket, map[string][]byte{"old": []byte("1")}))
	s.Put(one("profiles", map[string][]byte{"p": []byte("x")}))

	if err := s.Replace(one(testBucket, map[string][]byte{"new": []byte("2")})); err != nil {
		t.Fatal(err)
	}
	got := values(t, s, testBucket)
	if len(got) != 1 || got["new"] != "2" {
		t.Fatalf("got %v", got)
	}
	if n, _ := s.Len([]byte("profiles")); n != 1 {
		t.Fatalf("bucket outside the batch should be untouched, got %d", n)
	}
}

func TestReplaceMissingBucket(t *testing.T) {
	s := tempStore(t)
	if err := s.Replace(one("fresh", map[string][]byte{"k": []byte("v")})); err != nil {
		t.Fatal(err)
	}
	if n, _ := s.Len([]byte("fresh")); n != 1 {
		t.Fatalf("got %d", n)
	}
}

func TestReplaceFailureKeepsPreviousContents(t *testing.T) {
	s := tempStore(t)
	s.Put(store.Batch{
		"scores":   {"a": []byte("1"), "b": []byte("2")},
		"profiles": {"p": []byte("x")},
	})

	err := s.Replace(store.Batch{
		"scores":   {"c": []byte("3")},
		"profiles": {strings.Repeat("k", 40000): []byte("y")},
	})
	if !errors.Is(err, bolterrors.ErrKeyTooLarge) {
		t.Fatalf("expected ErrKeyTooLarge, got %v", err)
	}
	if got := values(t, s, "scores"); len(got) != 2 || got["a"] != "1" || got["b"] != "2" {
		t.Fatalf("scores should be untouched: %v", got)
	}
	if got := values(t, s, "profiles"); len(got) != 1 || got["p"] != "x" {
		t.Fatalf("profiles should be untouched: %v", got)
	}
}

func TestForEachNonexistentBucket(t *testing.T) {
	s := tempStore(t)
	count := 0
	err := s.ForEach([]byte("no-bucket"), func(k, v []byte) error {
		count++
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Fatal("iterating nonexistent bucket should yield 0 entries")
	}
}

func TestForEachStopsOnError(t *testing.T) {
	s := tempStore(t)
	s.Put(one(testBucket, map[string][]byte{"a": nil, "b": nil, "c": nil}))
	stop := errors.New("stop")
	seen := 0
	err := s.ForEach([]byte(testBucket), func(k, v []byte) error {
		seen++
		return stop
	})
	if !errors.Is(err, stop) {
		t.Fatalf("expected stop error, got %v", err)
	}
	if seen != 1 {
		t.Fatalf("expected iteration to stop after 1 entry, saw %d", seen)
	}
}

func TestLen(t *testing.T) {
	s := tempStore(t)
	if n, err := s.Len([]byte(testBucket)); err != nil || n != 0 {
		t.Fatalf("missing bucket: got %d, %v", n, err)
	}
	s.Put(one(testBucket, map[string][]byte{"x": []byte("1"), "y": []byte("2")}))
	if n, err := s.Len([]byte(testBucket)); err != nil || n != 2 {
		t.Fatalf("got %d, %v", n, err)
	}
}

func TestMultipleBuckets(t *testing.T) {
	s := tempStore(t)
	s.Put(store.Batch{
		"scores":   {"k": []byte("v1")},
		"profiles": {"k": []byte("v2")},
	})
	if values(t, s, "scores")["k"] != "v1" || values(t, s, "profiles")["k"] != "v2" {
		t.Fatal("buckets should be isolated")
	}
}
