// Package storage keeps uploaded bytes in a single flat directory. Names are
// generated by the caller; the directory itself carries no metadata.
package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/filehost/internal/common"
	"github.com/dmitrijs2005/filehost/internal/filex"
)

// Disk is a flat file store rooted at one directory.
type Disk struct {
	root string
}

// Entry is a regular file found in the store.
type Entry struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// NewDisk returns a store rooted at dir. The directory is not created until
// EnsureRoot is called.
func NewDisk(dir string) (*Disk, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("abs %s: %w", dir, err)
	}
	return &Disk{root: abs}, nil
}

// Root is the absolute path of the store directory.
func (d *Disk) Root() string {
	return d.root
}

// EnsureRoot creates the store directory if it is missing.
func (d *Disk) EnsureRoot() error {
	_, err := filex.EnsureDir(d.root)
	return err
}

// Path maps a stored name to its absolute location. Names that are not a
// single plain path element are rejected.
func (d *Disk) Path(name string) (string, error) {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return "", fmt.Errorf("invalid stored name %q", name)
	}
	return filepath.Join(d.root, name), nil
}

// Create opens a new file for writing. It fails if the name is already taken.
func (d *Disk) Create(name string) (*os.File, string, error) {
	path, err := d.Path(name)
	if err != nil {
		return nil, "", err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return nil, "", fmt.Errorf("create %s: %w", name, err)
	}
	return f, path, nil
}

// Open opens a stored file for reading. A missing file is reported as
// common.ErrFileNotFound.
func (d *Disk) Open(path string) (*os.File, error) {
	if !d.contains(path) {
		return nil, fmt.Errorf("%w: path outside store", common.ErrFileNotFound)
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, common.ErrFileNotFound
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

// Remove deletes a stored file. Removing a missing file succeeds.
func (d *Disk) Remove(path string) error {
	if !d.contains(path) {
		return fmt.Errorf("refusing to remove %s outside %s", path, d.root)
	}
	return filex.RemoveIfExists(path)
}

// Exists reports whether a regular file is present at path.
func (d *Disk) Exists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// List returns every regular file directly under the root. A missing root
// yields an empty list.
func (d *Disk) List() ([]Entry, error) {
	dirEntries, err := os.ReadDir(d.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read dir %s: %w", d.root, err)
	}

	result := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if !de.Type().IsRegular() {
			continue
		}
		info, err := de.Info()
		if err != nil {
			// removed between ReadDir and Info
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}
		result = append(result, Entry{Name: de.Name(), Size: info.Size(), ModTime: info.ModTime()})
	}
	return result, nil
}

func (d *Disk) contains(path string) bool {
	return filepath.Dir(filepath.Clean(path)) == d.root
}
