package blob

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// fakeS3 implements S3Client on a map.
type fakeS3 struct {
	objects map[string][]byte
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte)}
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[*in.Key]
	if !ok {
		return nil, &smithy.GenericAPIError{Code: "NoSuchKey", Message: "not found"}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) HeadObject(ctx context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if _, ok := f.objects[*in.Key]; !ok {
		return nil, &smithy.GenericAPIError{Code: "NotFound", Message: "not found"}
	}
	return &s3.HeadObjectOutput{}, nil
}

func TestS3StoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewS3(newFakeS3(), "bucket", "snapshots")

	if err := store.Put(ctx, "index.msgpack", []byte("payload")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	data, err := store.Get(ctx, "index.msgpack")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(data) != "payload" {
		t.Fatalf("data = %q, want payload", data)
	}

	ok, err := store.Exists(ctx, "index.msgpack")
	if err != nil || !ok {
		t.Fatalf("Exists = %v, %v, want true", ok, err)
	}
}

func TestS3StorePrefixesKeys(t *testing.T) {
	fake := newFakeS3()
	store := NewS3(fake, "bucket", "snapshots")

	if err := store.Put(context.Background(), "k", []byte("v")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, ok := fake.objects["snapshots/k"]; !ok {
		t.Fatalf("stored keys = %v, want snapshots/k", fake.objects)
	}
}

func TestS3StoreMissingKey(t *testing.T) {
	ctx := context.Background()
	store := NewS3(newFakeS3(), "bucket", "")

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Get err = %v, want os.ErrNotExist", err)
	}
	ok, err := store.Exists(ctx, "missing")
	if err != nil || ok {
		t.Fatalf("Exists = %v, %v, want false", ok, err)
	}
	if err := store.Delete(ctx, "missing"); err != nil {
		t.Fatalf("Delete of missing key: %v", err)
	}
}
