package stegcrypt

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"
)

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	key := DeriveKey("secret")

	tests := []struct {
		name      string
		plaintext string
	}{
		{"empty", ""},
		{"short", "hi"},
		{"one block", "exactly16bytes!!"},
		{"multi block", "The quick brown fox jumps over the lazy dog"},
		{"unicode", "秘密のメッセージ 🔐 ünïcödé"},
		{"newlines", "line one\nline two\r\n\ttabbed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := Encrypt(tt.plaintext, key)
			if err != nil {
				t.Fatalf("Encrypt failed: %v", err)
			}

			raw, err := base64.StdEncoding.DecodeString(string(token))
			if err != nil {
				t.Fatalf("token is not standard base64: %v", err)
			}
			wantLen := (len(tt.plaintext)/BlockSize + 1) * BlockSize
			if len(raw) != wantLen {
				t.Errorf("ciphertext length = %d, want %d", len(raw), wantLen)
			}

			got, err := Decrypt(token, key)
			if err != nil {
				t.Fatalf("Decrypt failed: %v", err)
			}
			if got != tt.plaintext {
				t.Errorf("Decrypt() = %q, want %q", got, tt.plaintext)
			}
		})
	}
}

func TestEncrypt_Deterministic(t *testing.T) {
	key := DeriveKey("secret")

	a, _ := Encrypt("same message", key)
	b, _ := Encrypt("same message", key)
	if a != b {
		t.Errorf("ECB encryption should be deterministic: %q != %q", a, b)
	}

	// Identical plaintext blocks leak as identical ciphertext blocks
	token, _ := Encrypt(strings.Repeat("A", 2*BlockSize), key)
	raw, _ := base64.StdEncoding.DecodeString(string(token))
	if !bytes.Equal(raw[:BlockSize], raw[BlockSize:2*BlockSize]) {
		t.Error("expected equal ciphertext blocks for equal plaintext blocks")
	}
}

func TestDecrypt_WrongPassword(t *testing.T) {
	messages := []string{"", "hi", "attack at dawn", "秘密", strings.Repeat("x", 100)}
	passwords := [][2]string{
		{"secret", "Secret"},
		{"a", "b"},
		{"password123", "password124"},
		{"longer-password!", "longer-password?"},
	}

	for _, m := range messages {
		for _, pw := range passwords {
			token, err := Encrypt(m, DeriveKey(pw[0]))
			if err != nil {
				t.Fatalf("Encrypt failed: %v", err)
			}

			got, err := Decrypt(token, DeriveKey(pw[1]))
			if err != nil {
				if !IsWrongPassword(err) {
					t.Errorf("Decrypt with wrong key returned %v, want ErrInvalidKeyOrCorruptData", err)
				}
				if !IsEncryptionError(err) {
					t.Errorf("Decrypt error should be an EncryptionError, got %T", err)
				}
				continue
			}
			if got == m {
				t.Errorf("wrong password %q recovered message %q", pw[1], m)
			}
		}
	}
}

func TestDecrypt_CorruptToken(t *testing.T) {
	key := DeriveKey("secret")
	valid, _ := Encrypt("hello world", key)

	tests := []struct {
		name  string
		token Token
	}{
		{"empty", ""},
		{"not base64", "this is not base64!"},
		{"short block", Token(base64.StdEncoding.EncodeToString(make([]byte, 10)))},
		{"unaligned", Token(base64.StdEncoding.EncodeToString(make([]byte, BlockSize+1)))},
		{"truncated", valid[:len(valid)-4]},
		{"embedded newline", valid[:4] + "\n" + valid[4:]},
		{"embedded carriage return", valid[:4] + "\r\n" + valid[4:]},
		{"trailing newline", valid + "\n"},
		{"zero blocks", Token(base64.StdEncoding.EncodeToString(make([]byte, 2*BlockSize)))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decrypt(tt.token, key)
			if !IsWrongPassword(err) {
				t.Errorf("Decrypt(%q) error = %v, want ErrInvalidKeyOrCorruptData", tt.token, err)
			}
		})
	}
}

func TestDecrypt_InvalidUTF8(t *testing.T) {
	key := DeriveKey("secret")
	engine, err := NewECBEngine(key)
	if err != nil {
		t.Fatalf("NewECBEngine failed: %v", err)
	}

	raw, _ := engine.Encrypt([]byte{0xff, 0xfe, 0xfd})
	token := Token(base64.StdEncoding.EncodeToString(raw))

	_, err = Decrypt(token, key)
	if !IsWrongPassword(err) {
		t.Fatalf("expected ErrInvalidKeyOrCorruptData, got %v", err)
	}
	if !strings.Contains(err.Error(), "UTF-8") {
		t.Errorf("error should mention UTF-8: %v", err)
	}
}

func TestAuthenticatedEngine(t *testing.T) {
	key := DeriveKey("secret")
	engine, err := NewCipherEngine(key, true)
	if err != nil {
		t.Fatalf("NewCipherEngine failed: %v", err)
	}
	if engine.Overhead() != TagSize {
		t.Errorf("Overhead() = %d, want %d", engine.Overhead(), TagSize)
	}

	token, err := EncryptWith(engine, "tagged message")
	if err != nil {
		t.Fatalf("EncryptWith failed: %v", err)
	}
	raw, _ := base64.StdEncoding.DecodeString(string(token))
	if len(raw) != BlockSize+TagSize {
		t.Errorf("tagged ciphertext length = %d, want %d", len(raw), BlockSize+TagSize)
	}

	got, err := DecryptWith(engine, token)
	if err != nil {
		t.Fatalf("DecryptWith failed: %v", err)
	}
	if got != "tagged message" {
		t.Errorf("DecryptWith() = %q", got)
	}

	t.Run("tampered ciphertext", func(t *testing.T) {
		tampered := append([]byte(nil), raw...)
		tampered[0] ^= 0x01
		_, err := DecryptWith(engine, Token(base64.StdEncoding.EncodeToString(tampered)))
		if !IsWrongPassword(err) {
			t.Errorf("expected ErrInvalidKeyOrCorruptData, got %v", err)
		}
	})

	t.Run("wrong key", func(t *testing.T) {
		other, _ := NewCipherEngine(DeriveKey("other"), true)
		_, err := DecryptWith(other, token)
		if !IsWrongPassword(err) {
			t.Errorf("expected ErrInvalidKeyOrCorruptData, got %v", err)
		}
	})

	t.Run("too short", func(t *testing.T) {
		_, err := DecryptWith(engine, Token(base64.StdEncoding.EncodeToString(make([]byte, TagSize-1))))
		if !IsWrongPassword(err) {
			t.Errorf("expected ErrInvalidKeyOrCorruptData, got %v", err)
		}
	})

	if _, err := NewAuthenticatedEngine(nil, key); err == nil {
		t.Error("expected error for nil inner engine")
	}
}

func TestPKCS7(t *testing.T) {
	for n := 0; n <= 2*BlockSize; n++ {
		data := bytes.Repeat([]byte{0xAB}, n)
		padded := pkcs7Pad(data, BlockSize)
		if len(padded)%BlockSize != 0 || len(padded) <= n {
			t.Fatalf("pkcs7Pad(%d bytes) produced %d bytes", n, len(padded))
		}
		unpadded, err := pkcs7Unpad(padded, BlockSize)
		if err != nil {
			t.Fatalf("pkcs7Unpad failed for %d bytes: %v", n, err)
		}
		if !bytes.Equal(unpadded, data) {
			t.Fatalf("pkcs7 round trip mismatch for %d bytes", n)
		}
	}

	bad := [][]byte{
		nil,
		make([]byte, BlockSize),                            // pad byte 0
		append(bytes.Repeat([]byte{1}, BlockSize-1), 17),   // pad longer than block
		append(bytes.Repeat([]byte{9}, BlockSize-2), 3, 2), // inconsistent pad bytes
	}
	for i, b := range bad {
		if _, err := pkcs7Unpad(b, BlockSize); err == nil {
			t.Errorf("case %d: expected padding error", i)
		}
	}
}
