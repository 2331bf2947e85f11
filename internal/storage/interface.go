package storage

import (
	"context"
	"io"
	"time"
)

// MediaStorage is the storage backend for course videos and resources.
// The local implementation keeps files on disk and serves them through the
// API server; a cloud backend would return real presigned URLs.
type MediaStorage interface {
	// GenerateUploadURL returns a URL the client PUTs the file to, plus the
	// durable download URL to reference from course content.
	GenerateUploadURL(ctx context.Context, key, contentType string, expiresIn time.Duration) (uploadURL, downloadURL string, err error)

	FileExists(ctx context.Context, key string) (exists bool, size int64, err error)
	DeleteFile(ctx context.Context, key string) error

	// SaveFile and ReadFile back the local upload/download HTTP handlers.
	SaveFile(key string, reader io.Reader) error
	ReadFile(key string) (io.ReadCloser, error)
}
