package stegcrypt

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"path/filepath"
	"strings"

	"github.com/absfs/absfs"
	"golang.org/x/image/bmp"
)

// ImageStore loads and saves carrier images by path
type ImageStore interface {
	Load(path string) (*RGBImage, error)
	Save(path string, img *RGBImage) error
}

// FSImageStore is an ImageStore over an absfs.FileSystem.
// Any format registered with the image package can be loaded; only lossless
// formats (PNG, BMP) can be saved because lossy encoders destroy the LSBs.
type FSImageStore struct {
	fs absfs.FileSystem
}

// NewFSImageStore creates a store over fs
func NewFSImageStore(fs absfs.FileSystem) (*FSImageStore, error) {
	if fs == nil {
		return nil, fmt.Errorf("filesystem cannot be nil")
	}
	return &FSImageStore{fs: fs}, nil
}

// Load decodes the image at path into an RGBImage
func (s *FSImageStore) Load(path string) (*RGBImage, error) {
	if err := ValidateFilePath(path); err != nil {
		return nil, err
	}

	f, err := s.fs.Open(path)
	if err != nil {
		return nil, NewIOError("load", path, err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, NewIOError("load", path, err)
	}
	return FromImage(src), nil
}

// Save encodes img to path in the format named by its extension
func (s *FSImageStore) Save(path string, img *RGBImage) error {
	if err := ValidateFilePath(path); err != nil {
		return err
	}
	if img == nil {
		return ErrNilImage
	}

	format, err := outputFormat(path)
	if err != nil {
		return err
	}

	f, err := s.fs.Create(path)
	if err != nil {
		return NewIOError("save", path, err)
	}

	switch format {
	case "bmp":
		err = bmp.Encode(f, img.Image())
	default:
		err = png.Encode(f, img.Image())
	}
	if err != nil {
		f.Close()
		return NewIOError("save", path, err)
	}
	if err := f.Close(); err != nil {
		return NewIOError("save", path, err)
	}
	return nil
}

// outputFormat maps a file extension to a lossless encoder name
func outputFormat(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		return "png", nil
	case ".bmp":
		return "bmp", nil
	default:
		return "", &ValidationError{
			Field:   "path",
			Value:   path,
			Message: fmt.Sprintf("cannot save %q images, use .png or .bmp", ext),
			Err:     ErrUnsupportedFormat,
		}
	}
}
