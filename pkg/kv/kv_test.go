package kv

import (
	"context"
	"errors"
	"testing"
)

// storeFactories lets every test run against both implementations.
var storeFactories = map[string]func(t *testing.T) Store{
	"memory": func(t *testing.T) Store {
		return NewMemory()
	},
	"badger": func(t *testing.T) Store {
		s, err := NewBadger(BadgerOptions{InMemory: true})
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { s.Close() })
		return s
	},
}

func TestGetSetDelete(t *testing.T) {
	for name, factory := range storeFactories {
		t.Run(name, func(t *testing.T) {
			s := factory(t)
			ctx := context.Background()

			if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Get missing: err = %v, want ErrNotFound", err)
			}

			if err := s.Set(ctx, "k", []byte("v1")); err != nil {
				t.Fatal(err)
			}
			got, err := s.Get(ctx, "k")
			if err != nil {
				t.Fatal(err)
			}
			if string(got) != "v1" {
				t.Errorf("Get = %q, want v1", got)
			}

			// Overwrite.
			if err := s.Set(ctx, "k", []byte("v2")); err != nil {
				t.Fatal(err)
			}
			got, _ = s.Get(ctx, "k")
			if string(got) != "v2" {
				t.Errorf("Get after overwrite = %q, want v2", got)
			}

			if err := s.Delete(ctx, "k"); err != nil {
				t.Fatal(err)
			}
			if _, err := s.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get after delete: err = %v, want ErrNotFound", err)
			}
			// Deleting again is fine.
			if err := s.Delete(ctx, "k"); err != nil {
				t.Fatal(err)
			}
		})
	}
}

func TestListPrefix(t *testing.T) {
	for name, factory := range storeFactories {
		t.Run(name, func(t *testing.T) {
			s := factory(t)
			ctx := context.Background()

			entries := []Entry{
				{Key: "rec/a.txt#00000", Value: []byte("a0")},
				{Key: "rec/a.txt#00001", Value: []byte("a1")},
				{Key: "rec/b.txt#00000", Value: []byte("b0")},
				{Key: "other", Value: []byte("x")},
			}
			if err := s.BatchSet(ctx, entries); err != nil {
				t.Fatal(err)
			}

			var keys []string
			for e, err := range s.List(ctx, "rec/a.txt#") {
				if err != nil {
					t.Fatal(err)
				}
				keys = append(keys, e.Key)
			}
			want := []string{"rec/a.txt#00000", "rec/a.txt#00001"}
			if len(keys) != len(want) {
				t.Fatalf("keys = %v, want %v", keys, want)
			}
			for i := range want {
				if keys[i] != want[i] {
					t.Errorf("keys[%d] = %q, want %q (lexicographic order)", i, keys[i], want[i])
				}
			}

			var all int
			for _, err := range s.List(ctx, "") {
				if err != nil {
					t.Fatal(err)
				}
				all++
			}
			if all != 4 {
				t.Errorf("full scan saw %d entries, want 4", all)
			}
		})
	}
}

func TestBatchDelete(t *testing.T) {
	for name, factory := range storeFactories {
		t.Run(name, func(t *testing.T) {
			s := factory(t)
			ctx := context.Background()

			if err := s.BatchSet(ctx, []Entry{
				{Key: "a", Value: []byte("1")},
				{Key: "b", Value: []byte("2")},
				{Key: "c", Value: []byte("3")},
			}); err != nil {
				t.Fatal(err)
			}
			if err := s.BatchDelete(ctx, []string{"a", "c", "never-existed"}); err != nil {
				t.Fatal(err)
			}

			if _, err := s.Get(ctx, "a"); !errors.Is(err, ErrNotFound) {
				t.Error("a survived BatchDelete")
			}
			if _, err := s.Get(ctx, "b"); err != nil {
				t.Errorf("b should survive: %v", err)
			}
		})
	}
}

func TestBadgerPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := NewBadger(BadgerOptions{Dir: dir})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s2, err := NewBadger(BadgerOptions{Dir: dir})
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	got, err := s2.Get(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "v" {
		t.Errorf("Get after reopen = %q, want v", got)
	}
}
