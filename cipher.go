package stegcrypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/hkdf"
)

// macInfo separates the MAC key from the cipher key in HKDF
const macInfo = "stegcrypt mac"

// CipherEngine provides raw encryption/decryption of byte payloads
type CipherEngine interface {
	// Encrypt encrypts plaintext
	Encrypt(plaintext []byte) ([]byte, error)

	// Decrypt decrypts ciphertext
	Decrypt(ciphertext []byte) ([]byte, error)

	// Overhead returns the bytes added on top of block padding
	Overhead() int
}

// ECBEngine implements CipherEngine using AES-128 in ECB mode with PKCS#7
// padding. Identical plaintext blocks produce identical ciphertext blocks and
// nothing detects tampering; it exists for compatibility with the legacy format.
type ECBEngine struct {
	block cipher.Block
}

// NewECBEngine creates a new AES-128-ECB cipher engine
func NewECBEngine(key Key) (*ECBEngine, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}
	return &ECBEngine{block: block}, nil
}

// Encrypt pads plaintext to a whole number of blocks and encrypts each block independently
func (e *ECBEngine) Encrypt(plaintext []byte) ([]byte, error) {
	padded := pkcs7Pad(plaintext, BlockSize)
	ciphertext := make([]byte, len(padded))
	for off := 0; off < len(padded); off += BlockSize {
		e.block.Encrypt(ciphertext[off:off+BlockSize], padded[off:off+BlockSize])
	}
	return ciphertext, nil
}

// Decrypt decrypts each block and strips the padding
func (e *ECBEngine) Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) == 0 || len(ciphertext)%BlockSize != 0 {
		return nil, fmt.Errorf("ciphertext length %d is not a positive multiple of %d", len(ciphertext), BlockSize)
	}
	plaintext := make([]byte, len(ciphertext))
	for off := 0; off < len(ciphertext); off += BlockSize {
		e.block.Decrypt(plaintext[off:off+BlockSize], ciphertext[off:off+BlockSize])
	}
	return pkcs7Unpad(plaintext, BlockSize)
}

// Overhead returns 0, ECB adds only padding
func (e *ECBEngine) Overhead() int {
	return 0
}

// AuthenticatedEngine appends an HMAC-SHA256 tag to the output of another engine
type AuthenticatedEngine struct {
	inner  CipherEngine
	macKey []byte
}

// NewAuthenticatedEngine wraps inner with an HMAC-SHA256 tag keyed from key via HKDF
func NewAuthenticatedEngine(inner CipherEngine, key Key) (*AuthenticatedEngine, error) {
	if inner == nil {
		return nil, errors.New("inner cipher engine cannot be nil")
	}
	macKey := make([]byte, sha256.Size)
	if _, err := io.ReadFull(hkdf.New(sha256.New, key[:], nil, []byte(macInfo)), macKey); err != nil {
		return nil, fmt.Errorf("failed to derive MAC key: %w", err)
	}
	return &AuthenticatedEngine{inner: inner, macKey: macKey}, nil
}

// Encrypt encrypts with the inner engine and appends the tag
func (e *AuthenticatedEngine) Encrypt(plaintext []byte) ([]byte, error) {
	ciphertext, err := e.inner.Encrypt(plaintext)
	if err != nil {
		return nil, err
	}
	return append(ciphertext, e.tag(ciphertext)...), nil
}

// Decrypt verifies the tag before decrypting
func (e *AuthenticatedEngine) Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < TagSize {
		return nil, fmt.Errorf("ciphertext shorter than %d-byte tag", TagSize)
	}
	body, tag := ciphertext[:len(ciphertext)-TagSize], ciphertext[len(ciphertext)-TagSize:]
	if !hmac.Equal(tag, e.tag(body)) {
		return nil, errors.New("authentication tag mismatch")
	}
	return e.inner.Decrypt(body)
}

// Overhead returns the tag size plus the inner overhead
func (e *AuthenticatedEngine) Overhead() int {
	return TagSize + e.inner.Overhead()
}

func (e *AuthenticatedEngine) tag(data []byte) []byte {
	mac := hmac.New(sha256.New, e.macKey)
	mac.Write(data)
	return mac.Sum(nil)
}

// NewCipherEngine creates the engine for key, optionally tagged
func NewCipherEngine(key Key, authenticate bool) (CipherEngine, error) {
	ecb, err := NewECBEngine(key)
	if err != nil {
		return nil, err
	}
	if !authenticate {
		return ecb, nil
	}
	return NewAuthenticatedEngine(ecb, key)
}

// Encrypt encrypts plaintext under key and returns its base64 token
func Encrypt(plaintext string, key Key) (Token, error) {
	engine, err := NewECBEngine(key)
	if err != nil {
		return "", NewEncryptionError("encrypt", err)
	}
	return EncryptWith(engine, plaintext)
}

// Decrypt reverses Encrypt. Any failure, including a wrong key, is reported
// as ErrInvalidKeyOrCorruptData.
func Decrypt(token Token, key Key) (string, error) {
	engine, err := NewECBEngine(key)
	if err != nil {
		return "", NewEncryptionError("decrypt", err)
	}
	return DecryptWith(engine, token)
}

// EncryptWith encrypts plaintext with engine and base64-encodes the result
func EncryptWith(engine CipherEngine, plaintext string) (Token, error) {
	ciphertext, err := engine.Encrypt([]byte(plaintext))
	if err != nil {
		return "", NewEncryptionError("encrypt", err)
	}
	return Token(base64.StdEncoding.EncodeToString(ciphertext)), nil
}

// DecryptWith decodes token and decrypts it with engine. The plaintext must be valid UTF-8.
func DecryptWith(engine CipherEngine, token Token) (string, error) {
	if strings.ContainsAny(string(token), "\r\n") {
		return "", newDecryptError("token is not valid base64")
	}
	ciphertext, err := base64.StdEncoding.DecodeString(string(token))
	if err != nil {
		return "", newDecryptError("token is not valid base64")
	}
	plaintext, err := engine.Decrypt(ciphertext)
	if err != nil {
		return "", newDecryptError(err.Error())
	}
	if !utf8.Valid(plaintext) {
		return "", newDecryptError("plaintext is not valid UTF-8")
	}
	return string(plaintext), nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+n)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(n)
	}
	return padded
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, errors.New("padded data is not block aligned")
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize {
		return nil, errors.New("invalid padding")
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, errors.New("invalid padding")
		}
	}
	return data[:len(data)-n], nil
}
