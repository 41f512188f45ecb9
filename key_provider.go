package stegcrypt

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/scrypt"
)

// DefaultSalt is the application salt used by the password-hashing derivations
// when none is configured. The carrier format has nowhere to store a per-message
// salt, so every message hidden with the same parameters shares it.
var DefaultSalt = []byte("stegcrypt/v1 application salt")

// KeyDerivation turns a password into a cipher key
type KeyDerivation interface {
	// DeriveKey derives a KeySize-byte key from the password
	DeriveKey(password string) (Key, error)
}

// LegacyKeyDerivation copies the UTF-8 password bytes into a zeroed 16-byte
// buffer, truncating longer passwords. It performs no hashing and no
// stretching, and an empty password yields the all-zero key. It is kept only
// to read and write the legacy format; prefer Argon2idKeyDerivation.
type LegacyKeyDerivation struct{}

// DeriveKey never fails
func (LegacyKeyDerivation) DeriveKey(password string) (Key, error) {
	return DeriveKey(password), nil
}

// DeriveKey applies the legacy zero-pad/truncate derivation
func DeriveKey(password string) Key {
	var key Key
	copy(key[:], password)
	return key
}

// Argon2idKeyDerivation implements KeyDerivation using Argon2id (recommended)
type Argon2idKeyDerivation struct {
	params Argon2idParams
}

// NewArgon2idKeyDerivation creates a new Argon2id derivation, filling in defaults
func NewArgon2idKeyDerivation(params Argon2idParams) *Argon2idKeyDerivation {
	if params.Memory == 0 {
		params.Memory = 64 * 1024 // 64 MB
	}
	if params.Iterations == 0 {
		params.Iterations = 3
	}
	if params.Parallelism == 0 {
		params.Parallelism = 4
	}
	if len(params.Salt) == 0 {
		params.Salt = DefaultSalt
	}
	return &Argon2idKeyDerivation{params: params}
}

// DeriveKey derives a key with Argon2id
func (a *Argon2idKeyDerivation) DeriveKey(password string) (Key, error) {
	var key Key
	if password == "" {
		return key, &KeyDerivationError{Method: "argon2id", Message: "password cannot be empty"}
	}
	copy(key[:], argon2.IDKey(
		[]byte(password),
		a.params.Salt,
		a.params.Iterations,
		a.params.Memory,
		a.params.Parallelism,
		KeySize,
	))
	return key, nil
}

// PBKDF2KeyDerivation implements KeyDerivation using PBKDF2
type PBKDF2KeyDerivation struct {
	params PBKDF2Params
}

// NewPBKDF2KeyDerivation creates a new PBKDF2 derivation, filling in defaults
func NewPBKDF2KeyDerivation(params PBKDF2Params) *PBKDF2KeyDerivation {
	if params.Iterations == 0 {
		params.Iterations = 100000
	}
	if len(params.Salt) == 0 {
		params.Salt = DefaultSalt
	}
	return &PBKDF2KeyDerivation{params: params}
}

// DeriveKey derives a key with PBKDF2
func (p *PBKDF2KeyDerivation) DeriveKey(password string) (Key, error) {
	var key Key
	if password == "" {
		return key, &KeyDerivationError{Method: "pbkdf2", Message: "password cannot be empty"}
	}
	hashFunc, ok := hashFuncToHash(p.params.HashFunc)
	if !ok {
		return key, &KeyDerivationError{
			Method:  "pbkdf2",
			Message: fmt.Sprintf("unsupported hash function: %v", p.params.HashFunc),
		}
	}
	copy(key[:], pbkdf2.Key([]byte(password), p.params.Salt, p.params.Iterations, KeySize, hashFunc))
	return key, nil
}

// ScryptKeyDerivation implements KeyDerivation using scrypt
type ScryptKeyDerivation struct {
	params ScryptParams
}

// NewScryptKeyDerivation creates a new scrypt derivation, filling in defaults
func NewScryptKeyDerivation(params ScryptParams) *ScryptKeyDerivation {
	if params.N == 0 {
		params.N = 1 << 15
	}
	if params.R == 0 {
		params.R = 8
	}
	if params.P == 0 {
		params.P = 1
	}
	if len(params.Salt) == 0 {
		params.Salt = DefaultSalt
	}
	return &ScryptKeyDerivation{params: params}
}

// DeriveKey derives a key with scrypt
func (s *ScryptKeyDerivation) DeriveKey(password string) (Key, error) {
	var key Key
	if password == "" {
		return key, &KeyDerivationError{Method: "scrypt", Message: "password cannot be empty"}
	}
	derived, err := scrypt.Key([]byte(password), s.params.Salt, s.params.N, s.params.R, s.params.P, KeySize)
	if err != nil {
		return key, &KeyDerivationError{Method: "scrypt", Message: err.Error(), Err: err}
	}
	copy(key[:], derived)
	return key, nil
}

// MultiKeyDerivation tries several derivations in order when revealing.
// This is useful while migrating carriers from one derivation to another.
type MultiKeyDerivation struct {
	derivations []KeyDerivation
	primary     KeyDerivation // Used for hiding new messages
}

// NewMultiKeyDerivation creates a new multi-derivation.
// The first derivation is used for hiding, all of them for revealing.
func NewMultiKeyDerivation(derivations ...KeyDerivation) (*MultiKeyDerivation, error) {
	if len(derivations) == 0 {
		return nil, errors.New("at least one key derivation required")
	}
	for i, d := range derivations {
		if d == nil {
			return nil, NewValidationError(fmt.Sprintf("derivations[%d]", i), nil, "key derivation cannot be nil")
		}
	}

	return &MultiKeyDerivation{
		derivations: derivations,
		primary:     derivations[0],
	}, nil
}

// DeriveKey uses the primary derivation
func (m *MultiKeyDerivation) DeriveKey(password string) (Key, error) {
	return m.primary.DeriveKey(password)
}

// Candidates derives one key per derivation, skipping those that fail.
// The primary key comes first.
func (m *MultiKeyDerivation) Candidates(password string) ([]Key, error) {
	keys := make([]Key, 0, len(m.derivations))
	var lastErr error
	for _, d := range m.derivations {
		key, err := d.DeriveKey(password)
		if err != nil {
			lastErr = err
			continue
		}
		keys = append(keys, key)
	}

	if len(keys) == 0 {
		return nil, fmt.Errorf("all key derivations failed: %w", lastErr)
	}
	return keys, nil
}

// candidateKeys returns every key worth trying for a reveal
func candidateKeys(kd KeyDerivation, password string) ([]Key, error) {
	if multi, ok := kd.(*MultiKeyDerivation); ok {
		return multi.Candidates(password)
	}
	key, err := kd.DeriveKey(password)
	if err != nil {
		return nil, err
	}
	return []Key{key}, nil
}
