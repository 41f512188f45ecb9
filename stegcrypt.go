package stegcrypt

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
)

// Stego hides encrypted messages in images and recovers them.
// A Stego holds only configuration and is safe for concurrent use.
type Stego struct {
	config        *Config
	keyDerivation KeyDerivation
	logger        hclog.Logger
}

// New creates a Stego from config
func New(config *Config) (*Stego, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg := *config
	if cfg.Logger == nil {
		cfg.Logger = hclog.NewNullLogger()
	}

	return &Stego{
		config:        &cfg,
		keyDerivation: cfg.KeyDerivation,
		logger:        cfg.Logger,
	}, nil
}

// opLogger tags every log line of one call with a fresh operation id
func (s *Stego) opLogger(op string) hclog.Logger {
	return s.logger.With("op", op, "op_id", uuid.NewString())
}

// Hide encrypts message under password and embeds it in a copy of img
func (s *Stego) Hide(img Image, message, password string) (*RGBImage, error) {
	log := s.opLogger("hide")

	if err := ValidateImage(img); err != nil {
		return nil, err
	}

	key, err := s.keyDerivation.DeriveKey(password)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}

	engine, err := NewCipherEngine(key, s.config.Authenticate)
	if err != nil {
		return nil, NewEncryptionError("encrypt", err)
	}

	token, err := EncryptWith(engine, message)
	if err != nil {
		return nil, err
	}

	required, available := RequiredBits(token), Capacity(img)
	log.Debug("embedding token",
		"token_len", len(token),
		"required_bits", required,
		"capacity", available,
		"authenticated", s.config.Authenticate)

	out, err := Embed(img, token, s.config.Overflow)
	if err != nil {
		return nil, err
	}
	if required > available {
		log.Warn("message truncated to fit image", "dropped_bits", required-available)
	}
	return out, nil
}

// Reveal extracts the token from img and decrypts it with password.
// With a MultiKeyDerivation every candidate key is tried in order.
func (s *Stego) Reveal(img Image, password string) (string, error) {
	log := s.opLogger("reveal")

	token, err := ExtractWith(img, s.config.Parallel)
	if err != nil {
		return "", err
	}
	log.Debug("extracted token", "token_len", len(token), "capacity", Capacity(img))

	keys, err := candidateKeys(s.keyDerivation, password)
	if err != nil {
		return "", fmt.Errorf("failed to derive key: %w", err)
	}

	var lastErr error
	for i, key := range keys {
		engine, err := NewCipherEngine(key, s.config.Authenticate)
		if err != nil {
			lastErr = NewEncryptionError("decrypt", err)
			continue
		}
		plaintext, err := DecryptWith(engine, token)
		if err != nil {
			lastErr = err
			continue
		}
		if i > 0 {
			log.Info("message revealed with fallback key derivation", "index", i)
		}
		return plaintext, nil
	}

	log.Debug("decryption failed", "error", lastErr)
	return "", lastErr
}

// HideFile loads src, hides message in it and saves the result to dst
func (s *Stego) HideFile(store ImageStore, src, dst, message, password string) error {
	if store == nil {
		return NewValidationError("store", nil, "image store cannot be nil")
	}

	img, err := store.Load(src)
	if err != nil {
		return err
	}

	out, err := s.Hide(img, message, password)
	if err != nil {
		return err
	}

	if err := store.Save(dst, out); err != nil {
		return err
	}
	s.logger.Debug("hidden message saved", "src", src, "dst", dst)
	return nil
}

// RevealFile loads src, reveals its message and hands it to sink
func (s *Stego) RevealFile(store ImageStore, src, password string, sink PlaintextSink) (string, error) {
	if store == nil {
		return "", NewValidationError("store", nil, "image store cannot be nil")
	}
	if sink == nil {
		return "", ErrNilSink
	}

	img, err := store.Load(src)
	if err != nil {
		return "", err
	}

	plaintext, err := s.Reveal(img, password)
	if err != nil {
		return "", err
	}

	if err := sink.WritePlaintext(plaintext); err != nil {
		return "", err
	}
	return plaintext, nil
}
