package stegcrypt

import (
	"fmt"
	"os"

	"github.com/absfs/absfs"
)

// PlaintextSink receives a recovered message
type PlaintextSink interface {
	WritePlaintext(text string) error
}

// FileSink writes recovered messages as UTF-8 to a fixed path, replacing
// whatever was there
type FileSink struct {
	fs   absfs.FileSystem
	path string
	perm os.FileMode
}

// NewFileSink creates a sink writing to path in fs
func NewFileSink(fs absfs.FileSystem, path string) (*FileSink, error) {
	if fs == nil {
		return nil, fmt.Errorf("filesystem cannot be nil")
	}
	if err := ValidateFilePath(path); err != nil {
		return nil, err
	}
	return &FileSink{fs: fs, path: path, perm: 0600}, nil
}

// Path returns the destination path
func (s *FileSink) Path() string {
	return s.path
}

// WritePlaintext writes text to the sink's path
func (s *FileSink) WritePlaintext(text string) error {
	f, err := s.fs.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, s.perm)
	if err != nil {
		return NewIOError("write", s.path, err)
	}
	if _, err := f.Write([]byte(text)); err != nil {
		f.Close()
		return NewIOError("write", s.path, err)
	}
	if err := f.Close(); err != nil {
		return NewIOError("write", s.path, err)
	}
	return nil
}
