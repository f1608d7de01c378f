package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/clearmark/ip-registry-backend/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFileBackendUpload(t *testing.T) {
	dir := t.TempDir()
	backend, err := NewFileBackend(dir, discardLogger())
	require.NoError(t, err)

	data := []byte("design document")
	cid, err := backend.Upload(context.Background(), data, "design.pdf")
	require.NoError(t, err)
	assert.Equal(t, interfaces.ComputeDigest(data).String(), cid)

	stored, err := os.ReadFile(filepath.Join(dir, cid))
	require.NoError(t, err)
	assert.Equal(t, data, stored)

	assert.True(t, backend.Available(context.Background()))
}

func TestFileBackendUnavailableAfterRemoval(t *testing.T) {
	dir := t.TempDir()
	backend, err := NewFileBackend(filepath.Join(dir, "files"), discardLogger())
	require.NoError(t, err)

	require.NoError(t, os.RemoveAll(filepath.Join(dir, "files")))
	assert.False(t, backend.Available(context.Background()))
}

func TestMultiBackendFirstSuccessWins(t *testing.T) {
	ctx := context.Background()
	data := []byte("content")

	first := new(MockBackend)
	first.On("Available", mock.Anything).Return(true)
	first.On("Upload", mock.Anything, data, "f").Return("cid-first", nil)
	first.On("Name").Return("first")

	second := new(MockBackend)
	second.On("Available", mock.Anything).Return(true)
	second.On("Upload", mock.Anything, data, "f").Return("cid-second", nil)
	second.On("Name").Return("second")

	multi := NewMultiBackend([]interfaces.UploadBackend{first, second}, discardLogger())

	cid, err := multi.Upload(ctx, data, "f")
	require.NoError(t, err)
	assert.Equal(t, "cid-first", cid)

	// Content is still replicated to the second backend.
	second.AssertCalled(t, "Upload", mock.Anything, data, "f")
}

func TestMultiBackendSkipsUnavailable(t *testing.T) {
	ctx := context.Background()
	data := []byte("content")

	down := new(MockBackend)
	down.On("Available", mock.Anything).Return(false)
	down.On("Name").Return("down")

	up := new(MockBackend)
	up.On("Available", mock.Anything).Return(true)
	up.On("Upload", mock.Anything, data, "f").Return("cid-up", nil)
	up.On("Name").Return("up")

	multi := NewMultiBackend([]interfaces.UploadBackend{down, up}, discardLogger())

	cid, err := multi.Upload(ctx, data, "f")
	require.NoError(t, err)
	assert.Equal(t, "cid-up", cid)
	down.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
}

func TestMultiBackendAllFail(t *testing.T) {
	ctx := context.Background()

	failing := new(MockBackend)
	failing.On("Available", mock.Anything).Return(true)
	failing.On("Upload", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("boom"))
	failing.On("Name").Return("failing")

	multi := NewMultiBackend([]interfaces.UploadBackend{failing}, discardLogger())

	_, err := multi.Upload(ctx, []byte("content"), "f")
	assert.Error(t, err)
}

func TestMultiBackendAvailable(t *testing.T) {
	down := new(MockBackend)
	down.On("Available", mock.Anything).Return(false)

	up := new(MockBackend)
	up.On("Available", mock.Anything).Return(true)

	assert.False(t, NewMultiBackend([]interfaces.UploadBackend{down}, discardLogger()).Available(context.Background()))
	assert.True(t, NewMultiBackend([]interfaces.UploadBackend{down, up}, discardLogger()).Available(context.Background()))
}
