// Package filex moves payloads between the local filesystem and the data
// room: LocalFile feeds uploads, WriteExport writes payloads back out.
package filex

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/dataroom/internal/naming"
)

// LocalFile is an upload source backed by a file on disk.
type LocalFile struct {
	path string
	size int64
}

// OpenLocal checks that path names a regular file.
func OpenLocal(path string) (*LocalFile, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("%s is not a regular file", path)
	}
	return &LocalFile{path: path, size: fi.Size()}, nil
}

func (f *LocalFile) Name() string { return filepath.Base(f.path) }

func (f *LocalFile) Size() int64 { return f.size }

func (f *LocalFile) Path() string { return f.path }

func (f *LocalFile) ReadContent() ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	return data, nil
}

// EnsureDir creates dir (relative paths resolve against the working
// directory) and returns its absolute form.
func EnsureDir(dir string) (string, error) {
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		dir = filepath.Join(cwd, dir)
	}

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// WriteExport writes data to dir under name. An existing file is never
// overwritten: the name gets a " (n)" suffix instead. It returns the path
// written.
func WriteExport(dir, name string, data []byte) (string, error) {
	dir, err := EnsureDir(dir)
	if err != nil {
		return "", err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read dir %s: %w", dir, err)
	}
	taken := make([]string, 0, len(entries))
	for _, e := range entries {
		taken = append(taken, e.Name())
	}

	for {
		target := filepath.Join(dir, naming.GenerateUniqueFileName(name, taken))
		f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o660)
		if errors.Is(err, fs.ErrExist) {
			// Created between ReadDir and here.
			taken = append(taken, filepath.Base(target))
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create %s: %w", target, err)
		}

		if _, err := f.Write(data); err != nil {
			_ = f.Close()
			return "", fmt.Errorf("write %s: %w", target, err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("close %s: %w", target, err)
		}
		return target, nil
	}
}
