package minio

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequiresEndpointAndBucket(t *testing.T) {
	_, err := New(Options{Bucket: "resumes"})
	require.Error(t, err)

	_, err = New(Options{Endpoint: "localhost:9000"})
	require.Error(t, err)
}

func TestPresignGetIsOffline(t *testing.T) {
	store, err := New(Options{
		Endpoint:  "localhost:9000",
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Bucket:    "resumes",
		Region:    "us-east-1",
	})
	require.NoError(t, err)

	url, err := store.PresignGet(context.Background(), "abc.pdf", 10*time.Minute)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "http://localhost:9000/resumes/abc.pdf?"), url)
	assert.Contains(t, url, "X-Amz-Expires=600")
	assert.Contains(t, url, "X-Amz-Signature=")
}

func TestPutRejectsInvalidKey(t *testing.T) {
	store, err := New(Options{Endpoint: "localhost:9000", Bucket: "resumes", Region: "us-east-1"})
	require.NoError(t, err)

	_, err = store.Put(context.Background(), "../x.pdf", "application/pdf", strings.NewReader("x"))
	require.Error(t, err)
}
