package stegcrypt

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Input validation helpers

// ValidateFilePath checks if a file path is valid (not empty)
func ValidateFilePath(path string) error {
	if path == "" {
		return &ValidationError{
			Field:   "path",
			Message: "file path cannot be empty",
		}
	}
	return nil
}

// ValidateImage checks that img is non-nil and has a sane size
func ValidateImage(img Image) error {
	if img == nil {
		return ErrNilImage
	}
	if img.Width() < 0 || img.Height() < 0 {
		return &ValidationError{
			Field:   "image",
			Value:   fmt.Sprintf("%dx%d", img.Width(), img.Height()),
			Message: "image dimensions cannot be negative",
		}
	}
	return nil
}

// ValidateToken checks that every token character survives 8-bit packing and
// cannot be mistaken for the end-of-message sentinel
func ValidateToken(token Token) error {
	for i, r := range string(token) {
		var msg string
		switch {
		case r == utf8.RuneError && !strings.HasPrefix(string(token)[i:], string(utf8.RuneError)):
			msg = fmt.Sprintf("token is not valid UTF-8 at offset %d", i)
		case r == 0:
			msg = fmt.Sprintf("token contains a NUL byte at offset %d", i)
		case r > 0xFF:
			msg = fmt.Sprintf("token character %U at offset %d does not fit in 8 bits", r, i)
		default:
			continue
		}
		return &ValidationError{
			Field:   "token",
			Value:   i,
			Message: msg,
		}
	}
	return nil
}
