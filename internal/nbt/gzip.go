package nbt

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// Gzip stream magic bytes. Detection looks at these two bytes only; anything
// else is treated as a raw NBT document.
const (
	gzipMagic0 = 0x1f
	gzipMagic1 = 0x8b
)

// IsGzip reports whether the buffer starts with the gzip magic pair.
func IsGzip(data []byte) bool {
	return len(data) >= 2 && data[0] == gzipMagic0 && data[1] == gzipMagic1
}

// Decompress inflates a gzip-compressed buffer. Data without the gzip magic
// passes through unchanged. A malformed stream fails with ErrCorrupt; no
// fallback decompression is attempted.
func Decompress(data []byte) ([]byte, error) {
	if !IsGzip(data) {
		return data, nil
	}
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("gzip header: %v: %w", err, ErrCorrupt)
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("gzip inflate: %v: %w", err, ErrCorrupt)
	}
	return out, nil
}
