package storage

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/emiliopalmerini/adpulse/internal/util"
)

const backupExt = ".json.gz"

// BackupStorage keeps gzip-compressed snapshots in a directory.
type BackupStorage struct {
	baseDir string
}

// NewBackupStorage stores backups under the XDG data directory.
func NewBackupStorage() (*BackupStorage, error) {
	baseDir, err := util.GetXDGDataDir()
	if err != nil {
		return nil, err
	}
	return NewBackupStorageAt(filepath.Join(baseDir, "backups"))
}

// NewBackupStorageAt stores backups in dir, creating it when missing.
func NewBackupStorageAt(dir string) (*BackupStorage, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create backups directory: %w", err)
	}
	return &BackupStorage{baseDir: dir}, nil
}

// Store compresses everything read from src into the backup called name.
func (s *BackupStorage) Store(ctx context.Context, name string, src io.Reader) (string, error) {
	destPath, err := s.getPath(name)
	if err != nil {
		return "", err
	}

	dest, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("failed to create backup file: %w", err)
	}
	defer func() { _ = dest.Close() }()

	gw := gzip.NewWriter(dest)
	defer func() { _ = gw.Close() }()

	if _, err := io.Copy(gw, src); err != nil {
		return "", fmt.Errorf("failed to compress backup: %w", err)
	}

	if err := gw.Close(); err != nil {
		return "", fmt.Errorf("failed to close gzip writer: %w", err)
	}

	return destPath, nil
}

// Open returns a reader over the decompressed backup. The caller closes it.
func (s *BackupStorage) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	path, err := s.getPath(name)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open backup file: %w", err)
	}

	gr, err := gzip.NewReader(file)
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	return &gzipFile{Reader: gr, file: file}, nil
}

// List returns backup names, newest name last.
func (s *BackupStorage) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), backupExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), backupExt))
	}
	sort.Strings(names)
	return names, nil
}

func (s *BackupStorage) Delete(ctx context.Context, name string) error {
	path, err := s.getPath(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete backup: %w", err)
	}
	return nil
}

func (s *BackupStorage) Exists(ctx context.Context, name string) (bool, error) {
	path, err := s.getPath(name)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (s *BackupStorage) getPath(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("invalid backup name %q", name)
	}
	return filepath.Join(s.baseDir, name+backupExt), nil
}

type gzipFile struct {
	*gzip.Reader
	file *os.File
}

func (g *gzipFile) Close() error {
	gerr := g.Reader.Close()
	if err := g.file.Close(); err != nil {
		return err
	}
	return gerr
}
