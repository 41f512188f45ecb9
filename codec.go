package stegcrypt

import (
	"strings"
	"unicode/utf8"
)

// Bits per token character. Each character is packed as its 8-bit code point,
// so only characters up to U+00FF can be carried.
const bitsPerChar = 8

// Capacity returns the number of bit slots in img: one per pixel
func Capacity(img Image) int {
	if img == nil {
		return 0
	}
	return img.Width() * img.Height()
}

// RequiredBits returns the slots needed to embed token, sentinel included.
// Every character costs eight slots whatever its UTF-8 length.
func RequiredBits(token Token) int {
	return bitsPerChar * (utf8.RuneCountInString(string(token)) + 1)
}

// Bits expands token to its bit stream: the eight-bit code point of every
// character, most-significant bit first, followed by eight zero bits marking
// the end of the message. Characters above U+00FF do not fit in eight bits;
// Embed rejects them through ValidateToken.
func Bits(token Token) []byte {
	bits := make([]byte, 0, RequiredBits(token))
	for _, r := range string(token) {
		c := byte(r)
		for j := bitsPerChar - 1; j >= 0; j-- {
			bits = append(bits, (c>>j)&1)
		}
	}
	for j := 0; j < bitsPerChar; j++ {
		bits = append(bits, 0)
	}
	return bits
}

// DecodeBits packs bits into 8-bit code points and stops at the first zero,
// which is not included. A trailing partial group is dropped.
func DecodeBits(bits []byte) Token {
	var sb strings.Builder
	for i := 0; i+bitsPerChar <= len(bits); i += bitsPerChar {
		var c byte
		for j := 0; j < bitsPerChar; j++ {
			c = c<<1 | bits[i+j]&1
		}
		if c == 0 {
			break
		}
		sb.WriteRune(rune(c))
	}
	return Token(sb.String())
}

// Embed writes token into the blue-channel LSBs of a copy of img, one bit per
// pixel in raster order. Red, green and the pixels after the message are
// copied unchanged. img itself is never modified.
//
// With OverflowError a token that does not fit returns a *CapacityError and no
// image. With OverflowTruncate the write stops at the last pixel.
func Embed(img Image, token Token, policy OverflowPolicy) (*RGBImage, error) {
	if err := ValidateImage(img); err != nil {
		return nil, err
	}
	if err := ValidateToken(token); err != nil {
		return nil, err
	}

	bits := Bits(token)
	available := Capacity(img)
	if len(bits) > available {
		switch policy {
		case OverflowTruncate:
			bits = bits[:available]
		case OverflowError:
			return nil, &CapacityError{Required: len(bits), Available: available}
		default:
			return nil, NewValidationError("overflow", policy, "unsupported overflow policy")
		}
	}

	width, height := img.Width(), img.Height()
	out := NewRGBImage(width, height)
	i := 0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			p := img.GetPixel(x, y)
			if i < len(bits) {
				p.B = p.B&^1 | bits[i]
				i++
			}
			out.SetPixel(x, y, p)
		}
	}
	return out, nil
}

// Extract reads the blue-channel LSB of every pixel in raster order and
// decodes the bytes before the first zero byte.
func Extract(img Image) (Token, error) {
	return ExtractWith(img, ParallelConfig{})
}

// ExtractWith is Extract with a parallel scan configuration
func ExtractWith(img Image, cfg ParallelConfig) (Token, error) {
	if err := ValidateImage(img); err != nil {
		return "", err
	}
	bits, err := extractBits(img, cfg)
	if err != nil {
		return "", err
	}
	return DecodeBits(bits), nil
}
