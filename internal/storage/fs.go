package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
)

// FS stores objects as files below a base directory.
type FS struct {
	base string
}

func NewFS(base string) (*FS, error) {
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, err
	}
	return &FS{base: base}, nil
}

func (s *FS) Driver() string { return "fs" }

func (s *FS) path(key string) (string, string, error) {
	clean, err := cleanKey(key)
	if err != nil {
		return "", "", err
	}
	return clean, filepath.Join(s.base, filepath.FromSlash(clean)), nil
}

func (s *FS) Put(ctx context.Context, key string, r io.Reader, contentType string) (Object, error) {
	clean, target, err := s.path(key)
	if err != nil {
		return Object{}, err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return Object{}, err
	}
	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return Object{}, err
	}
	hasher := sha256.New()
	size, err := io.Copy(io.MultiWriter(tmp, hasher), r)
	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && size == 0 {
		err = ErrEmpty
	}
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return Object{}, err
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		_ = os.Remove(tmp.Name())
		return Object{}, err
	}
	info, err := os.Stat(target)
	if err != nil {
		return Object{}, err
	}
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(clean))
	}
	return Object{
		Key:          clean,
		Size:         size,
		ContentType:  contentType,
		SHA256:       hex.EncodeToString(hasher.Sum(nil)),
		LastModified: info.ModTime().UTC(),
	}, nil
}

func (s *FS) Get(_ context.Context, key string) (io.ReadCloser, Object, error) {
	clean, target, err := s.path(key)
	if err != nil {
		return nil, Object{}, err
	}
	file, err := os.Open(target)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, Object{}, ErrNotFound
	}
	if err != nil {
		return nil, Object{}, err
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, Object{}, err
	}
	return file, Object{
		Key:          clean,
		Size:         info.Size(),
		ContentType:  mime.TypeByExtension(filepath.Ext(clean)),
		LastModified: info.ModTime().UTC(),
	}, nil
}

func (s *FS) Exists(_ context.Context, key string) (bool, error) {
	_, target, err := s.path(key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(target)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

// Delete is idempotent: a missing object is not an error.
func (s *FS) Delete(_ context.Context, key string) error {
	_, target, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
