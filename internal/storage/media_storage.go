package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/h2non/filetype"
)

// ErrNotAnImage is returned when an upload is not a supported image.
var ErrNotAnImage = errors.New("storage: file is not a supported image")

// ErrTooLarge is returned when an upload exceeds the size limit.
var ErrTooLarge = errors.New("storage: file exceeds the size limit")

// MediaStorage keeps completion report photos on local disk, one
// directory per project.
type MediaStorage struct {
	rootPath       string
	maxUploadBytes int64
}

func NewMediaStorage(rootPath string, maxUploadMB int64) (*MediaStorage, error) {
	if err := os.MkdirAll(rootPath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create root %s: %w", rootPath, err)
	}
	return &MediaStorage{
		rootPath:       rootPath,
		maxUploadBytes: maxUploadMB * 1024 * 1024,
	}, nil
}

// SaveImage validates that the upload really is an image and stores it,
// returning the relative path. The content type check reads the file
// header, not the client-supplied extension.
func (s *MediaStorage) SaveImage(ctx context.Context, projectID uuid.UUID, originalName string, r io.Reader) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	head := make([]byte, 261)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		return "", 0, fmt.Errorf("storage: read header: %w", err)
	}
	head = head[:n]
	if !filetype.IsImage(head) {
		return "", 0, ErrNotAnImage
	}

	safeName := sanitizeFilename(originalName)
	fileName := fmt.Sprintf("%d%s", time.Now().UnixNano(), filepath.Ext(safeName))

	projectDir := filepath.Join(s.rootPath, projectID.String())
	if err := os.MkdirAll(projectDir, 0o755); err != nil {
		return "", 0, fmt.Errorf("storage: create project dir: %w", err)
	}

	targetPath := filepath.Join(projectDir, fileName)
	tempPath := targetPath + ".tmp"

	f, err := os.Create(tempPath)
	if err != nil {
		return "", 0, fmt.Errorf("storage: create file: %w", err)
	}
	defer f.Close()

	limited := io.LimitedReader{R: io.MultiReader(bytes.NewReader(head), r), N: s.maxUploadBytes + 1}
	written, err := io.Copy(f, &limited)
	if err != nil {
		_ = os.Remove(tempPath)
		return "", 0, fmt.Errorf("storage: write file: %w", err)
	}
	if written > s.maxUploadBytes {
		_ = os.Remove(tempPath)
		return "", 0, ErrTooLarge
	}

	if err := f.Close(); err != nil {
		return "", 0, fmt.Errorf("storage: close file: %w", err)
	}
	if err := os.Rename(tempPath, targetPath); err != nil {
		return "", 0, fmt.Errorf("storage: rename file: %w", err)
	}

	return filepath.ToSlash(filepath.Join(projectID.String(), fileName)), written, nil
}

// Delete removes a stored file. Missing files are not an error.
func (s *MediaStorage) Delete(ctx context.Context, relativePath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target := filepath.Join(s.rootPath, filepath.Clean("/"+relativePath))
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: delete file: %w", err)
	}
	return nil
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "..", "")
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	if name == "" {
		name = "photo"
	}
	return name
}
