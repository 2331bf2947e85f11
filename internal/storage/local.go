package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LocalStorage stores course media on the local filesystem and serves it
// through the API server's media routes.
type LocalStorage struct {
	baseURL  string
	mediaDir string
}

func NewLocalStorage(baseURL, uploadDir string) (*LocalStorage, error) {
	mediaDir := filepath.Join(uploadDir, "media")
	if err := os.MkdirAll(mediaDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}
	return &LocalStorage{
		baseURL:  strings.TrimRight(baseURL, "/"),
		mediaDir: mediaDir,
	}, nil
}

// NewMediaKey derives a collision-free storage key from the original filename.
func NewMediaKey(filename string) string {
	return uuid.NewString() + filepath.Ext(filename)
}

func (s *LocalStorage) GenerateUploadURL(ctx context.Context, key, contentType string, expiresIn time.Duration) (string, string, error) {
	token := uuid.NewString()
	uploadURL := fmt.Sprintf("%s/api/v1/media/upload/%s?key=%s", s.baseURL, token, url.QueryEscape(key))
	downloadURL := fmt.Sprintf("%s/api/v1/media/%s", s.baseURL, url.PathEscape(key))
	return uploadURL, downloadURL, nil
}

func (s *LocalStorage) FileExists(ctx context.Context, key string) (bool, int64, error) {
	info, err := os.Stat(s.localPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, 0, nil
		}
		return false, 0, err
	}
	return true, info.Size(), nil
}

func (s *LocalStorage) DeleteFile(ctx context.Context, key string) error {
	err := os.Remove(s.localPath(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *LocalStorage) SaveFile(key string, reader io.Reader) error {
	fullPath := s.localPath(key)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

func (s *LocalStorage) ReadFile(key string) (io.ReadCloser, error) {
	file, err := os.Open(s.localPath(key))
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// localPath flattens the key onto the media directory, stripping any path
// traversal a hostile key might carry.
func (s *LocalStorage) localPath(key string) string {
	return filepath.Join(s.mediaDir, filepath.Base(key))
}
