package main

import (
	"os"
	"path/filepath"

	"github.com/absfs/absfs"
	"github.com/absfs/osfs"
)

// hostFS is the host filesystem. Files opened for creation get their parent
// directories created first, so output paths may name new directories.
type hostFS struct {
	*osfs.FileSystem
}

func newHostFS() (*hostFS, error) {
	fs, err := osfs.NewFS()
	if err != nil {
		return nil, err
	}
	return &hostFS{FileSystem: fs}, nil
}

func (fs *hostFS) OpenFile(name string, flag int, perm os.FileMode) (absfs.File, error) {
	if flag&os.O_CREATE != 0 {
		if err := fs.MkdirAll(filepath.Dir(name), 0755); err != nil {
			return nil, err
		}
	}
	return fs.FileSystem.OpenFile(name, flag, perm)
}

func (fs *hostFS) Create(name string) (absfs.File, error) {
	return fs.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0666)
}
