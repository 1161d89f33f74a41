// Package storage keeps the bytes behind subject files and reports. Rows in
// the database only carry names and sizes; content lives under a key derived
// from the owning subject.
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"
)

var (
	ErrNotFound   = errors.New("object not found")
	ErrEmpty      = errors.New("object is empty")
	ErrInvalidKey = errors.New("invalid object key")
)

type Object struct {
	Key          string
	Size         int64
	ContentType  string
	SHA256       string
	LastModified time.Time
}

type Store interface {
	Driver() string
	Put(ctx context.Context, key string, r io.Reader, contentType string) (Object, error)
	Get(ctx context.Context, key string) (io.ReadCloser, Object, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
}

func SubjectFileKey(subjectID, fileID string) string {
	return path.Join("subjects", subjectID, "files", fileID)
}

func ReportKey(subjectID, reportID string) string {
	return path.Join("subjects", subjectID, "reports", reportID)
}

func cleanKey(key string) (string, error) {
	key = strings.TrimPrefix(strings.TrimSpace(key), "/")
	if key == "" {
		return "", ErrInvalidKey
	}
	for _, part := range strings.Split(key, "/") {
		if part == "" || part == "." || part == ".." {
			return "", ErrInvalidKey
		}
	}
	return key, nil
}
