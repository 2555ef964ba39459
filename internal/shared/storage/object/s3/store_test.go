package s3

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"cv-analyzer/internal/shared/storage/object"
)

type fakeObjects struct {
	put     *s3.PutObjectInput
	putBody string
	objects map[string]string
	deleted []string
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.put = in
	f.putBody = string(data)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjects) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	body, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &s3types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func (f *fakeObjects) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleted = append(f.deleted, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestPutUsesPrefixAndEncryption(t *testing.T) {
	api := &fakeObjects{}
	store := newStore(api, nil, "cv-bucket", "/uploads/", "")

	n, err := store.Put(context.Background(), "a1/cv.pdf", "application/pdf", strings.NewReader("%PDF-1.4"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if n != 8 || api.putBody != "%PDF-1.4" {
		t.Fatalf("unexpected size %d body %q", n, api.putBody)
	}
	if got := aws.ToString(api.put.Key); got != "uploads/a1/cv.pdf" {
		t.Fatalf("key = %q", got)
	}
	if api.put.ServerSideEncryption != s3types.ServerSideEncryptionAes256 || api.put.SSEKMSKeyId != nil {
		t.Fatalf("expected SSE-S3, got %v", api.put.ServerSideEncryption)
	}
	if aws.ToString(api.put.ContentType) != "application/pdf" {
		t.Fatalf("content type = %q", aws.ToString(api.put.ContentType))
	}
}

func TestPutWithKMSKey(t *testing.T) {
	api := &fakeObjects{}
	store := newStore(api, nil, "cv-bucket", "", " kms-123 ")

	if _, err := store.Put(context.Background(), "cv.pdf", "", strings.NewReader("x")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if api.put.ServerSideEncryption != s3types.ServerSideEncryptionAwsKms || aws.ToString(api.put.SSEKMSKeyId) != "kms-123" {
		t.Fatalf("expected SSE-KMS with kms-123, got %v %q", api.put.ServerSideEncryption, aws.ToString(api.put.SSEKMSKeyId))
	}
	if aws.ToString(api.put.Key) != "cv.pdf" {
		t.Fatalf("key without prefix = %q", aws.ToString(api.put.Key))
	}
}

func TestOpenMapsMissingKey(t *testing.T) {
	api := &fakeObjects{objects: map[string]string{"uploads/a.pdf": "hello"}}
	store := newStore(api, nil, "cv-bucket", "uploads", "")

	rc, err := store.Open(context.Background(), "a.pdf")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "hello" {
		t.Fatalf("body = %q", data)
	}

	if _, err := store.Open(context.Background(), "missing.pdf"); !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRejectsTraversalKeys(t *testing.T) {
	store := newStore(&fakeObjects{}, nil, "cv-bucket", "", "")
	if err := store.Delete(context.Background(), "../etc/passwd"); !errors.Is(err, object.ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	api := &fakeObjects{}
	store := newStore(api, nil, "cv-bucket", "root/sub", "")

	if err := store.Delete(context.Background(), "a.docx"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(api.deleted) != 1 || api.deleted[0] != "root/sub/a.docx" {
		t.Fatalf("deleted = %v", api.deleted)
	}
}

func TestPresignGetSignsPrefixedKey(t *testing.T) {
	client := s3.New(s3.Options{
		Region:      "us-east-1",
		Credentials: credentials.NewStaticCredentialsProvider("AKIDEXAMPLE", "secret", ""),
	})
	store := newStore(client, s3.NewPresignClient(client), "cv-bucket", "/uploads/", "")

	url, err := store.PresignGet(context.Background(), "abc.pdf", 15*time.Minute)
	if err != nil {
		t.Fatalf("presign: %v", err)
	}
	if !strings.Contains(url, "cv-bucket") || !strings.Contains(url, "uploads/abc.pdf") {
		t.Fatalf("expected bucket and prefixed key in %q", url)
	}
	if !strings.Contains(url, "X-Amz-Signature=") || !strings.Contains(url, "X-Amz-Expires=900") {
		t.Fatalf("expected signed url with expiry, got %q", url)
	}
}

func TestPresignWithoutClient(t *testing.T) {
	store := newStore(&fakeObjects{}, nil, "cv-bucket", "", "")
	if _, err := store.PresignGet(context.Background(), "a.pdf", time.Minute); err == nil {
		t.Fatalf("expected error without presigner")
	}
}
