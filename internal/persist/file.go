package persist

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/roach88/purse/internal/account"
)

// File stores the collection as one JSON file.
//
// Saves write a temporary file in the same directory and rename it over
// the target, so a crash mid-write leaves the previous file intact.
type File struct {
	mu   sync.Mutex
	path string
}

// NewFile returns a file slot at path. The file need not exist.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the target file path.
func (f *File) Path() string {
	return f.path
}

func (f *File) Load(ctx context.Context) ([]account.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, &StorageError{Op: "load", Key: f.path, Err: err}
	}

	f.mu.Lock()
	data, err := os.ReadFile(f.path)
	f.mu.Unlock()

	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &StorageError{Op: "load", Key: f.path, Err: err}
	}
	return Decode(data)
}

func (f *File) Save(ctx context.Context, accounts []account.Account) error {
	payload, err := Encode(accounts, time.Now())
	if err != nil {
		return &StorageError{Op: "encode", Key: f.path, Err: err}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return &StorageError{Op: "save", Key: f.path, Err: err}
	}
	if err := writeAtomic(f.path, payload); err != nil {
		return &StorageError{Op: "save", Key: f.path, Err: err}
	}
	return nil
}

// writeAtomic writes data to a temp file next to path, syncs it and
// renames it into place.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
