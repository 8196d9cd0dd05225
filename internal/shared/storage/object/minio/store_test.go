package minio

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
)

type recordingPutter struct {
	bucket, key, contentType string
	size                     int64
	body                     string
}

func (r *recordingPutter) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	r.bucket, r.key, r.contentType, r.size, r.body = bucketName, objectName, opts.ContentType, objectSize, string(data)
	return minio.UploadInfo{Bucket: bucketName, Key: objectName, Size: int64(len(data))}, nil
}

func TestSavePassesReaderSize(t *testing.T) {
	rec := &recordingPutter{}
	store := &Store{client: rec, bucket: "minutes"}

	n, err := store.Save(context.Background(), "/runs/r1/Minutes_of_Meeting.pdf", "application/pdf", strings.NewReader("%PDF"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if n != 4 {
		t.Fatalf("expected 4 bytes, got %d", n)
	}
	if rec.key != "runs/r1/Minutes_of_Meeting.pdf" || rec.bucket != "minutes" {
		t.Fatalf("unexpected target %s/%s", rec.bucket, rec.key)
	}
	if rec.size != 4 {
		t.Fatalf("expected the reader's size to be passed, got %d", rec.size)
	}
	if rec.contentType != "application/pdf" {
		t.Fatalf("unexpected content type %q", rec.contentType)
	}
}

func TestSaveStreamsUnsizedReaders(t *testing.T) {
	rec := &recordingPutter{}
	store := &Store{client: rec, bucket: "minutes"}

	body := io.MultiReader(strings.NewReader("PK"), strings.NewReader("\x03\x04"))
	if _, err := store.Save(context.Background(), "runs/r2/Minutes_of_Meeting.docx", "application/octet-stream", body); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if rec.size != -1 {
		t.Fatalf("expected unknown size -1, got %d", rec.size)
	}
	if rec.body != "PK\x03\x04" {
		t.Fatalf("unexpected body %q", rec.body)
	}
}

func TestNewRequiresEndpointAndBucket(t *testing.T) {
	if _, err := New(context.Background(), Config{Bucket: "b"}); err == nil {
		t.Fatal("expected endpoint error")
	}
	if _, err := New(context.Background(), Config{Endpoint: "localhost:9000"}); err == nil {
		t.Fatal("expected bucket error")
	}
}
