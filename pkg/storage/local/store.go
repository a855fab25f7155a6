// Package local stores uploads on the API host's filesystem and serves them
// under a public URL prefix.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shirou/gopsutil/v3/disk"
)

const maxSlugLen = 60

// ErrInvalidKey is returned for keys that would escape the root directory.
var ErrInvalidKey = errors.New("invalid storage key")

// Store writes objects below Root; keys are slash separated relative paths.
type Store struct {
	root    string
	baseURL string
}

// FileInfo describes one stored object found by Walk.
type FileInfo struct {
	Key     string
	Size    int64
	ModTime time.Time
}

func New(root, publicBaseURL string) (*Store, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("upload directory is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve upload directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	base := strings.TrimRight(publicBaseURL, "/")
	if base == "" {
		base = "/uploads"
	}
	return &Store{root: abs, baseURL: base}, nil
}

// Root returns the absolute upload directory.
func (s *Store) Root() string {
	return s.root
}

// BuildKey derives a unique, URL-safe key such as
// media/<user>/2024/05/red-dress-3f9c2a1b.jpg from the client file name.
func BuildKey(userID uuid.UUID, originalName, ext string, now time.Time) string {
	base := strings.TrimSuffix(path.Base(filepath.ToSlash(originalName)), path.Ext(originalName))
	name := slug.Make(base)
	if len(name) > maxSlugLen {
		name = strings.Trim(name[:maxSlugLen], "-")
	}
	if name == "" {
		name = "file"
	}
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	file := fmt.Sprintf("%s-%s", name, suffix)
	if ext != "" {
		file += "." + ext
	}
	return path.Join("media", userID.String(), now.UTC().Format("2006"), now.UTC().Format("01"), file)
}

// Put writes r to key, creating parent directories. A partial file is removed on error.
func (s *Store) Put(ctx context.Context, key string, r io.Reader) (int64, error) {
	full, err := s.resolve(key)
	if err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return 0, fmt.Errorf("create directory: %w", err)
	}
	f, err := os.OpenFile(full, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, fmt.Errorf("create file: %w", err)
	}
	n, copyErr := io.Copy(f, r)
	closeErr := f.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(full)
		return 0, fmt.Errorf("write file: %w", errors.Join(copyErr, closeErr))
	}
	return n, nil
}

// Delete removes key. A missing file is not an error.
func (s *Store) Delete(_ context.Context, key string) error {
	full, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

// URL returns the public URL for key.
func (s *Store) URL(key string) string {
	return s.baseURL + "/" + strings.TrimLeft(key, "/")
}

// Walk calls fn for every regular file under the root.
func (s *Store) Walk(ctx context.Context, fn func(FileInfo) error) error {
	return filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		return fn(FileInfo{Key: filepath.ToSlash(rel), Size: info.Size(), ModTime: info.ModTime()})
	})
}

// Usage reports disk usage of the volume holding the upload root.
func (s *Store) Usage(ctx context.Context) (*disk.UsageStat, error) {
	return disk.UsageWithContext(ctx, s.root)
}

func (s *Store) resolve(key string) (string, error) {
	clean := path.Clean("/" + strings.TrimSpace(key))
	if clean == "/" || strings.Contains(key, "..") {
		return "", ErrInvalidKey
	}
	return filepath.Join(s.root, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}
