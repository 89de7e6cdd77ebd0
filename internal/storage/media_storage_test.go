package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// pngHeader is the magic prefix of a PNG file, enough for detection.
var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

func newTestStorage(t *testing.T, maxUploadMB int64) *MediaStorage {
	t.Helper()
	s, err := NewMediaStorage(t.TempDir(), maxUploadMB)
	assert.NoError(t, err)
	return s
}

func TestMediaStorage_SaveImage_StoresUnderProjectDir(t *testing.T) {
	s := newTestStorage(t, 10)
	projectID := uuid.New()
	payload := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0xAB}, 300)...)

	relPath, written, err := s.SaveImage(context.Background(), projectID, "stand.png", bytes.NewReader(payload))

	assert.NoError(t, err)
	assert.Equal(t, int64(len(payload)), written)
	assert.Contains(t, relPath, projectID.String())

	stored, err := os.ReadFile(filepath.Join(s.rootPath, filepath.FromSlash(relPath)))
	assert.NoError(t, err)
	assert.Equal(t, payload, stored)
}

func TestMediaStorage_SaveImage_RejectsNonImage(t *testing.T) {
	s := newTestStorage(t, 10)

	_, _, err := s.SaveImage(context.Background(), uuid.New(), "report.pdf", bytes.NewReader([]byte("%PDF-1.7 not an image")))

	assert.ErrorIs(t, err, ErrNotAnImage)
}

func TestMediaStorage_SaveImage_EnforcesSizeLimit(t *testing.T) {
	s := newTestStorage(t, 0)
	payload := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0xAB}, 300)...)

	_, _, err := s.SaveImage(context.Background(), uuid.New(), "huge.png", bytes.NewReader(payload))

	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestMediaStorage_SaveImage_IgnoresClientExtension(t *testing.T) {
	s := newTestStorage(t, 10)
	payload := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0xAB}, 300)...)

	// The header decides, not the name the client picked.
	_, _, err := s.SaveImage(context.Background(), uuid.New(), "../../etc/passwd", bytes.NewReader(payload))

	assert.NoError(t, err)
}

func TestMediaStorage_Delete_MissingFileIsFine(t *testing.T) {
	s := newTestStorage(t, 10)

	err := s.Delete(context.Background(), "no-such-project/no-such-file.png")

	assert.NoError(t, err)
}
