package stegcrypt

import (
	"errors"
	"fmt"
)

// Error types represent different categories of errors

// ValidationError represents a configuration or parameter validation error
type ValidationError struct {
	Field   string // The field or parameter that failed validation
	Value   any    // The invalid value
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// KeyDerivationError represents a failure to derive a key from a password.
// The legacy derivation never produces one.
type KeyDerivationError struct {
	Method  string // Derivation method name
	Message string // Human-readable error message
	Err     error  // Underlying error
}

func (e *KeyDerivationError) Error() string {
	if e.Method != "" {
		return fmt.Sprintf("key derivation error: %s: %s", e.Method, e.Message)
	}
	return fmt.Sprintf("key derivation error: %s", e.Message)
}

func (e *KeyDerivationError) Unwrap() error {
	return e.Err
}

// EncryptionError represents an encryption or decryption failure
type EncryptionError struct {
	Operation string // "encrypt" or "decrypt"
	Message   string // Human-readable error message
	Err       error  // Underlying error
}

func (e *EncryptionError) Error() string {
	return fmt.Sprintf("%s error: %s", e.Operation, e.Message)
}

func (e *EncryptionError) Unwrap() error {
	return e.Err
}

// CapacityError reports a token that needs more bit slots than the carrier has
type CapacityError struct {
	Required  int // Bits needed, sentinel included
	Available int // Bit slots in the carrier
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("capacity error: message needs %d bits, image holds %d", e.Required, e.Available)
}

func (e *CapacityError) Unwrap() error {
	return ErrCapacityExceeded
}

// IOError represents an image or plaintext I/O failure
type IOError struct {
	Operation string // "load", "save", "write", etc.
	Path      string // File path
	Message   string // Human-readable error message
	Err       error  // Underlying error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("io error: %s %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("io error: %s: %s", e.Operation, e.Message)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Common sentinel errors
var (
	// ErrInvalidKeyOrCorruptData covers a wrong password and garbled ciphertext alike;
	// without authentication the two cannot be told apart.
	ErrInvalidKeyOrCorruptData = errors.New("invalid key or corrupt data")
	ErrCapacityExceeded        = errors.New("message exceeds image capacity")
	ErrNilImage                = errors.New("image cannot be nil")
	ErrNilConfig               = errors.New("config cannot be nil")
	ErrNilKeyDerivation        = errors.New("key derivation cannot be nil")
	ErrNilSink                 = errors.New("plaintext sink cannot be nil")
	ErrUnsupportedFormat       = errors.New("unsupported image format")
)

// Helper functions for creating structured errors

// NewValidationError creates a new validation error
func NewValidationError(field string, value any, message string) error {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// NewEncryptionError creates a new encryption error
func NewEncryptionError(operation string, err error) error {
	return &EncryptionError{
		Operation: operation,
		Message:   err.Error(),
		Err:       err,
	}
}

// newDecryptError hides the cause of a decrypt failure behind ErrInvalidKeyOrCorruptData
func newDecryptError(cause string) error {
	return &EncryptionError{
		Operation: "decrypt",
		Message:   fmt.Sprintf("%s: %s", ErrInvalidKeyOrCorruptData.Error(), cause),
		Err:       ErrInvalidKeyOrCorruptData,
	}
}

// NewIOError creates a new I/O error
func NewIOError(operation, path string, err error) error {
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   err.Error(),
		Err:       err,
	}
}

// Error checking helpers

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsKeyDerivationError checks if an error is a key derivation error
func IsKeyDerivationError(err error) bool {
	var ke *KeyDerivationError
	return errors.As(err, &ke)
}

// IsEncryptionError checks if an error is an encryption error
func IsEncryptionError(err error) bool {
	var ee *EncryptionError
	return errors.As(err, &ee)
}

// IsCapacityError checks if an error is a capacity error
func IsCapacityError(err error) bool {
	var ce *CapacityError
	return errors.As(err, &ce)
}

// IsIOError checks if an error is an I/O error
func IsIOError(err error) bool {
	var ie *IOError
	return errors.As(err, &ie)
}

// IsWrongPassword reports whether decryption failed because of a wrong key or corrupt data
func IsWrongPassword(err error) bool {
	return errors.Is(err, ErrInvalidKeyOrCorruptData)
}
