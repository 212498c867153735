package blob

import (
	"context"
	"errors"
	"os"
	"testing"
)

func TestDirRoundTrip(t *testing.T) {
	d, err := NewDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if _, err := d.Get(ctx, "missing"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Get missing: err = %v, want os.ErrNotExist", err)
	}

	if err := d.Put(ctx, "nested/snap.bin", []byte("payload")); err != nil {
		t.Fatal(err)
	}
	got, err := d.Get(ctx, "nested/snap.bin")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "payload" {
		t.Errorf("Get = %q, want payload", got)
	}

	ok, err := d.Exists(ctx, "nested/snap.bin")
	if err != nil || !ok {
		t.Errorf("Exists = %v, %v; want true, nil", ok, err)
	}

	// Overwrite replaces the previous blob.
	if err := d.Put(ctx, "nested/snap.bin", []byte("v2")); err != nil {
		t.Fatal(err)
	}
	got, _ = d.Get(ctx, "nested/snap.bin")
	if string(got) != "v2" {
		t.Errorf("Get after overwrite = %q, want v2", got)
	}

	if err := d.Delete(ctx, "nested/snap.bin"); err != nil {
		t.Fatal(err)
	}
	if ok, _ := d.Exists(ctx, "nested/snap.bin"); ok {
		t.Error("blob still exists after Delete")
	}
	// Idempotent delete.
	if err := d.Delete(ctx, "nested/snap.bin"); err != nil {
		t.Fatal(err)
	}
}
