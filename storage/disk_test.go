package storage

import (
	"bytes"
	"strings"
	"testing"

	"artfolio/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskStorageSaveNew(t *testing.T) {
	bucket := Bucket{ID: 1, Path: t.TempDir(), StorageType: StorageTypeFile}
	stor := NewDiskStorage(&bucket)

	n, err := stor.SaveNew("users/1/a.png", "image/png", strings.NewReader("payload"))
	require.NoError(t, err)
	assert.EqualValues(t, 7, n)

	// Same key again is rejected, existing objects are never overwritten
	_, err = stor.SaveNew("users/1/a.png", "image/png", strings.NewReader("other"))
	require.Error(t, err)

	var out bytes.Buffer
	_, err = stor.Load("users/1/a.png", &out)
	require.NoError(t, err)
	assert.Equal(t, "payload", out.String())
}

func TestDiskStorageSaveOverwrites(t *testing.T) {
	bucket := Bucket{ID: 1, Path: t.TempDir(), StorageType: StorageTypeFile}
	stor := NewDiskStorage(&bucket)

	_, err := stor.Save("users/1/a_thumb.jpg", strings.NewReader("v1"))
	require.NoError(t, err)
	_, err = stor.Save("users/1/a_thumb.jpg", strings.NewReader("v2"))
	require.NoError(t, err)

	var out bytes.Buffer
	_, err = stor.Load("users/1/a_thumb.jpg", &out)
	require.NoError(t, err)
	assert.Equal(t, "v2", out.String())
}

func TestDiskStorageDelete(t *testing.T) {
	bucket := Bucket{ID: 1, Path: t.TempDir(), StorageType: StorageTypeFile}
	stor := NewDiskStorage(&bucket)

	_, err := stor.SaveNew("users/1/gone.png", "image/png", strings.NewReader("x"))
	require.NoError(t, err)
	require.NoError(t, stor.Delete("users/1/gone.png"))

	var out bytes.Buffer
	_, err = stor.Load("users/1/gone.png", &out)
	assert.Error(t, err)
}

func TestNewSelectsBackend(t *testing.T) {
	disk := New(&Bucket{ID: 1, Path: t.TempDir(), StorageType: StorageTypeFile})
	_, ok := disk.(*DiskStorage)
	assert.True(t, ok)
	assert.False(t, disk.GetBucket().IsS3())

	s3 := New(&Bucket{ID: 2, Name: "bucket", StorageType: StorageTypeS3, Region: "us-east-1", AuthDetails: "key:secret"})
	_, ok = s3.(*S3Storage)
	assert.True(t, ok)
	assert.True(t, s3.GetBucket().IsS3())
}

func TestDiskStoragePublicURL(t *testing.T) {
	withBase := NewDiskStorage(&Bucket{ID: 1, Path: t.TempDir(), PublicBaseURL: "https://cdn.example.com/"})
	assert.Equal(t, "https://cdn.example.com/users/1/a.png", withBase.PublicURL("users/1/a.png"))

	config.PUBLIC_BASE_URL = "https://art.example.com"
	withoutBase := NewDiskStorage(&Bucket{ID: 2, Path: t.TempDir()})
	assert.Equal(t, "https://art.example.com/files/users/1/a.png", withoutBase.PublicURL("users/1/a.png"))
}
