package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStubObjectStorage(t *testing.T) {
	s := NewStubObjectStorage()
	require.NotNil(t, s)
	assert.Equal(t, "https://storage.example.com", s.BaseURL)
}

func TestStubObjectStorage_Upload(t *testing.T) {
	ctx := context.Background()
	s := NewStubObjectStorage()

	t.Run("stores the object", func(t *testing.T) {
		err := s.Upload(ctx, "snapshots/test.xlsx", []byte("payload"), "application/octet-stream")
		require.NoError(t, err)

		data, ok := s.Get("snapshots/test.xlsx")
		require.True(t, ok)
		assert.Equal(t, []byte("payload"), data)
	})

	t.Run("rejects empty key", func(t *testing.T) {
		err := s.Upload(ctx, "", []byte("payload"), "application/octet-stream")
		assert.Error(t, err)
	})

	t.Run("copies the payload", func(t *testing.T) {
		payload := []byte("original")
		require.NoError(t, s.Upload(ctx, "copy/key", payload, ""))
		payload[0] = 'X'

		data, ok := s.Get("copy/key")
		require.True(t, ok)
		assert.Equal(t, []byte("original"), data)
	})
}

func TestStubObjectStorage_ObjectExists(t *testing.T) {
	ctx := context.Background()
	s := NewStubObjectStorage()

	t.Run("false for unknown key", func(t *testing.T) {
		exists, err := s.ObjectExists(ctx, "missing/key")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("true after upload", func(t *testing.T) {
		require.NoError(t, s.Upload(ctx, "known/key", []byte("x"), ""))
		exists, err := s.ObjectExists(ctx, "known/key")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("rejects empty key", func(t *testing.T) {
		_, err := s.ObjectExists(ctx, "")
		assert.Error(t, err)
	})
}

func TestStubObjectStorage_DeleteObject(t *testing.T) {
	ctx := context.Background()
	s := NewStubObjectStorage()

	require.NoError(t, s.Upload(ctx, "doomed/key", []byte("x"), ""))
	require.NoError(t, s.DeleteObject(ctx, "doomed/key"))

	exists, err := s.ObjectExists(ctx, "doomed/key")
	require.NoError(t, err)
	assert.False(t, exists)

	assert.Error(t, s.DeleteObject(ctx, ""))
}

func TestStubObjectStorage_GenerateDownloadURL(t *testing.T) {
	ctx := context.Background()
	s := NewStubObjectStorage()

	t.Run("returns URL with expiration", func(t *testing.T) {
		url, expiresAt, err := s.GenerateDownloadURL(ctx, "test/key/file.xlsx", 15*time.Minute)
		require.NoError(t, err)
		assert.Contains(t, url, "test/key/file.xlsx")
		assert.True(t, expiresAt.After(time.Now()))
	})

	t.Run("rejects empty key", func(t *testing.T) {
		_, _, err := s.GenerateDownloadURL(ctx, "", 15*time.Minute)
		assert.Error(t, err)
	})
}
