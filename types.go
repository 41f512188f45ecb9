package stegcrypt

import (
	"crypto/sha256"
	"crypto/sha512"
	"hash"

	"github.com/hashicorp/go-hclog"
)

const (
	// KeySize is the size of a derived key in bytes (AES-128)
	KeySize = 16

	// BlockSize is the cipher block size in bytes
	BlockSize = 16

	// TagSize is the size of the optional HMAC-SHA256 tag appended to raw ciphertext
	TagSize = sha256.Size
)

// Key is a fixed-size symmetric key derived from a password
type Key [KeySize]byte

// Token is the base64 text form of raw cipher output. It is what gets embedded.
type Token string

// OverflowPolicy selects what Embed does when the token does not fit the image
type OverflowPolicy uint8

const (
	// OverflowError rejects the embed with a CapacityError before any pixel is written
	OverflowError OverflowPolicy = iota
	// OverflowTruncate writes as many bits as fit and silently drops the rest.
	// This reproduces the legacy format's behavior and should only be used for compatibility.
	OverflowTruncate
)

// String returns the string representation of the overflow policy
func (p OverflowPolicy) String() string {
	switch p {
	case OverflowError:
		return "error"
	case OverflowTruncate:
		return "truncate"
	default:
		return "unknown"
	}
}

// HashFunc represents hash function types for PBKDF2
type HashFunc uint8

const (
	// SHA256 hash function
	SHA256 HashFunc = iota
	// SHA512 hash function
	SHA512
)

// hashFuncToHash converts HashFunc to a hash constructor
func hashFuncToHash(hf HashFunc) (func() hash.Hash, bool) {
	switch hf {
	case SHA256:
		return sha256.New, true
	case SHA512:
		return sha512.New, true
	default:
		return nil, false
	}
}

// PBKDF2Params contains parameters for PBKDF2 key derivation
type PBKDF2Params struct {
	Iterations int      // Number of iterations (minimum 100,000 recommended)
	HashFunc   HashFunc // Hash function to use
	Salt       []byte   // Application salt (defaults to DefaultSalt)
}

// Argon2idParams contains parameters for Argon2id key derivation
type Argon2idParams struct {
	Memory      uint32 // Memory in KiB (e.g., 64*1024 for 64MB)
	Iterations  uint32 // Number of iterations (time parameter)
	Parallelism uint8  // Degree of parallelism
	Salt        []byte // Application salt (defaults to DefaultSalt)
}

// ScryptParams contains parameters for scrypt key derivation
type ScryptParams struct {
	N    int    // CPU/memory cost, power of two
	R    int    // Block size
	P    int    // Parallelization
	Salt []byte // Application salt (defaults to DefaultSalt)
}

// Config contains configuration for a Stego instance
type Config struct {
	// KeyDerivation turns passwords into keys. Defaults to LegacyKeyDerivation.
	KeyDerivation KeyDerivation

	// Overflow selects the behavior when a message does not fit the carrier
	Overflow OverflowPolicy

	// Authenticate appends an HMAC-SHA256 tag to the ciphertext before encoding.
	// Tokens produced with it are not readable by the legacy format.
	Authenticate bool

	// Parallel controls parallel bit extraction
	Parallel ParallelConfig

	// Logger receives debug output. Defaults to a null logger.
	Logger hclog.Logger
}

// DefaultConfig returns the configuration compatible with the legacy format,
// except that overflowing messages are rejected instead of truncated.
func DefaultConfig() *Config {
	return &Config{
		KeyDerivation: LegacyKeyDerivation{},
		Overflow:      OverflowError,
		Parallel:      DefaultParallelConfig(),
		Logger:        hclog.NewNullLogger(),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c == nil {
		return ErrNilConfig
	}
	if c.KeyDerivation == nil {
		return ErrNilKeyDerivation
	}
	if c.Overflow != OverflowError && c.Overflow != OverflowTruncate {
		return NewValidationError("overflow", c.Overflow, "unsupported overflow policy")
	}
	if err := c.Parallel.Validate(); err != nil {
		return &ValidationError{Field: "parallel", Message: err.Error(), Err: err}
	}
	return nil
}
