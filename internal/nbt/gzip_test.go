package nbt

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/klauspost/compress/gzip"
)

func gzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}

func TestIsGzipMagicOnly(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want bool
	}{
		{"real gzip", gzipBytes(t, []byte("x")), true},
		{"magic then garbage", []byte{0x1F, 0x8B, 0xDE, 0xAD}, true},
		{"raw nbt", []byte{0x0A, 0x00, 0x00, 0x00}, false},
		{"one byte", []byte{0x1F}, false},
		{"empty", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsGzip(tc.data); got != tc.want {
				t.Fatalf("IsGzip: got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDecompressPassthrough(t *testing.T) {
	raw := []byte{0x0A, 0x00, 0x00, 0x00}
	out, err := Decompress(raw)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if !bytes.Equal(out, raw) {
		t.Fatal("raw data was not passed through unchanged")
	}
}

func TestDecompressCorrupt(t *testing.T) {
	_, err := Decompress([]byte{0x1F, 0x8B, 0xDE, 0xAD, 0xBE, 0xEF})
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("got %v, want ErrCorrupt", err)
	}
}

func TestDecodeGzippedDocument(t *testing.T) {
	want := allKindsRoot()
	raw := encodeRoot(t, "s", want)

	got, err := Parse(gzipBytes(t, raw))
	if err != nil {
		t.Fatalf("decode gzipped: %v", err)
	}
	if !reflect.DeepEqual(got.Tag, want) {
		t.Fatal("gzipped round trip mismatch")
	}
}

func TestDecodeGzippedEmptyDocument(t *testing.T) {
	if _, err := Parse(gzipBytes(t, nil)); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("got %v, want ErrEmptyInput", err)
	}
}
