// Package azblob stores uploads in an Azure Storage container and hands out
// read-only SAS URLs, which document intelligence can fetch directly.
package azblob

import (
	"context"
	"io"
	"path"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/sas"
	"github.com/pkg/errors"

	"cv-analyzer/internal/shared/storage/object"
)

// blobAPI is the part of *azblob.Client the store uses.
type blobAPI interface {
	UploadStream(ctx context.Context, containerName, blobName string, body io.Reader, o *azblob.UploadStreamOptions) (azblob.UploadStreamResponse, error)
	DownloadStream(ctx context.Context, containerName, blobName string, o *azblob.DownloadStreamOptions) (azblob.DownloadStreamResponse, error)
	DeleteBlob(ctx context.Context, containerName, blobName string, o *azblob.DeleteBlobOptions) (azblob.DeleteBlobResponse, error)
	CreateContainer(ctx context.Context, containerName string, o *azblob.CreateContainerOptions) (azblob.CreateContainerResponse, error)
}

// signFunc returns a read SAS URL for one blob.
type signFunc func(container, name string, expiry time.Time) (string, error)

type Store struct {
	api       blobAPI
	sign      signFunc
	container string
	prefix    string
	now       func() time.Time
}

// New connects with an account connection string. The account key it
// carries is what signs SAS URLs.
func New(connectionString, container, prefix string) (*Store, error) {
	if strings.TrimSpace(connectionString) == "" {
		return nil, errors.New("AZURE_STORAGE_CONNECTION_STRING is required")
	}
	if strings.TrimSpace(container) == "" {
		return nil, errors.New("azure storage container is required")
	}
	client, err := azblob.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, errors.Wrap(err, "azure blob client")
	}
	sign := func(container, name string, expiry time.Time) (string, error) {
		b := client.ServiceClient().NewContainerClient(container).NewBlobClient(name)
		return b.GetSASURL(sas.BlobPermissions{Read: true}, expiry, nil)
	}
	return newStore(client, sign, container, prefix), nil
}

func newStore(api blobAPI, sign signFunc, container, prefix string) *Store {
	return &Store{
		api:       api,
		sign:      sign,
		container: container,
		prefix:    strings.Trim(prefix, "/"),
		now:       time.Now,
	}
}

// EnsureContainer creates the container if it is missing.
func (s *Store) EnsureContainer(ctx context.Context) error {
	_, err := s.api.CreateContainer(ctx, s.container, nil)
	if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
		return errors.Wrapf(err, "azure create container %s", s.container)
	}
	return nil
}

func (s *Store) Put(ctx context.Context, key string, contentType string, r io.Reader) (int64, error) {
	name, err := s.blobName(key)
	if err != nil {
		return 0, err
	}
	counted := &countingReader{r: r}
	opts := &azblob.UploadStreamOptions{}
	if contentType != "" {
		opts.HTTPHeaders = &blob.HTTPHeaders{BlobContentType: &contentType}
	}
	if _, err := s.api.UploadStream(ctx, s.container, name, counted, opts); err != nil {
		return 0, wrap("upload", name, err)
	}
	return counted.n, nil
}

func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	name, err := s.blobName(key)
	if err != nil {
		return nil, err
	}
	resp, err := s.api.DownloadStream(ctx, s.container, name, nil)
	if err != nil {
		return nil, wrap("download", name, err)
	}
	return resp.Body, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	name, err := s.blobName(key)
	if err != nil {
		return err
	}
	if _, err := s.api.DeleteBlob(ctx, s.container, name, nil); err != nil {
		return wrap("delete", name, err)
	}
	return nil
}

// PresignGet returns a read-only SAS URL for key that expires after ttl.
func (s *Store) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name, err := s.blobName(key)
	if err != nil {
		return "", err
	}
	url, err := s.sign(s.container, name, s.now().Add(ttl).UTC())
	if err != nil {
		return "", wrap("sign", name, err)
	}
	return url, nil
}

func (s *Store) blobName(key string) (string, error) {
	clean, err := object.CleanKey(key)
	if err != nil {
		return "", err
	}
	if s.prefix == "" {
		return clean, nil
	}
	return path.Join(s.prefix, clean), nil
}

func wrap(op, name string, err error) error {
	if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
		return errors.Wrapf(object.ErrNotFound, "azure %s %s", op, name)
	}
	return errors.Wrapf(err, "azure %s %s", op, name)
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

var (
	_ object.ObjectStore = (*Store)(nil)
	_ object.Presigner   = (*Store)(nil)
)
