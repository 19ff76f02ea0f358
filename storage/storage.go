// Package storage keeps uploaded images on local disk and resolves the
// storage-relative paths persisted on products into public URLs.
package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

type Store struct {
	Root       string // filesystem directory, e.g. ./uploads
	PublicPath string // URL prefix the files are served under, e.g. /uploads
}

func New(root, publicPath string) *Store {
	return &Store{Root: root, PublicPath: publicPath}
}

// Save writes an uploaded file under Root/subdir with a unique name and
// returns the storage-relative path to persist.
func (s *Store) Save(fh *multipart.FileHeader, subdir string) (string, error) {
	dir := filepath.Join(s.Root, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	ext := filepath.Ext(fh.Filename)
	base := strings.TrimSuffix(filepath.Base(fh.Filename), ext)
	base = strings.ReplaceAll(base, " ", "_")
	filename := fmt.Sprintf("%d_%s%s", time.Now().UnixNano(), base, ext)

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return path.Join(subdir, filename), nil
}

// URL resolves a storage-relative path to its public URL. Empty paths
// resolve to an empty URL.
func (s *Store) URL(rel string) string {
	if rel == "" {
		return ""
	}
	return path.Join(s.PublicPath, rel)
}

// Remove deletes a stored file. Callers replacing an image must call
// this only after the new file is saved and the record updated, so a
// failure never leaves a row pointing at a deleted file.
func (s *Store) Remove(rel string) error {
	if rel == "" {
		return nil
	}
	return os.Remove(filepath.Join(s.Root, filepath.FromSlash(rel)))
}
