// Package stegcrypt hides password-encrypted text in the least significant
// bits of an image's pixels and recovers it.
//
// # Overview
//
// A message travels through three layers:
//
//   - Key derivation turns a password into a 16-byte key (KeyDerivation)
//   - The cipher layer encrypts the message with AES-128 and base64-encodes
//     the result into a Token
//   - The pixel codec writes the Token into the blue channel of the carrier
//     image, one bit per pixel, and reads it back
//
// Stego ties the layers together:
//
//	s, err := stegcrypt.New(stegcrypt.DefaultConfig())
//	if err != nil {
//	    panic(err)
//	}
//
//	out, err := s.Hide(carrier, "meet at noon", "secret")
//	...
//	msg, err := s.Reveal(out, "secret")
//
// # Carrier Format
//
// Each token character is written as eight bits, most significant first,
// into the least significant bit of the blue channel. Pixels are visited in
// raster order: left to right, then top to bottom. A zero byte ends the
// message. Red and green, and every pixel after the message, are copied
// unchanged. An image therefore holds width*height bits, and a token of n
// characters needs 8*(n+1).
//
// Packing eight bits per character is only lossless because base64 tokens
// are plain ASCII. The codec is not a general byte-stream codec, and a token
// containing a NUL byte is rejected.
//
// When a token does not fit, Embed returns a *CapacityError and writes
// nothing. OverflowTruncate restores the legacy behavior of writing as many
// bits as fit; the result cannot be revealed.
//
// # Security Considerations
//
// The default configuration reads and writes the legacy format, which is weak:
//   - LegacyKeyDerivation zero-pads or truncates the password to 16 bytes,
//     with no hashing, salt or stretching
//   - AES is used in ECB mode, so equal plaintext blocks leak as equal
//     ciphertext blocks
//   - Nothing authenticates the ciphertext. A wrong password is only
//     detected when padding or UTF-8 validation fails, and corrupt data that
//     happens to pass is returned as a wrong message
//
// Argon2idKeyDerivation, PBKDF2KeyDerivation or ScryptKeyDerivation can be
// substituted without touching the other layers. MultiKeyDerivation reveals
// carriers written with older derivations during a migration. Setting
// Config.Authenticate appends an HMAC-SHA256 tag to the ciphertext; such
// tokens are not readable with Authenticate off.
//
// Not protected against:
//   - Steganalysis: LSB embedding in raster order is easy to detect
//   - Lossy recompression: saving the carrier as JPEG destroys the message
package stegcrypt
