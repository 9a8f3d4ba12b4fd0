package zframe

import (
	"bytes"
	"errors"
	"testing"
)

func TestWrapUnwrap(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"short", []byte{0x00, 0x10, 0x00}},
		{"repetitive", bytes.Repeat([]byte{0x28, 0xA2, 0x8A}, 1000)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			framed := Wrap(nil, tt.data)
			if !IsFrame(framed) {
				t.Fatalf("Wrap output does not start with zstd magic: % x", framed[:4])
			}
			got, err := Unwrap(framed)
			if err != nil {
				t.Fatalf("Unwrap: %v", err)
			}
			if !bytes.Equal(got, tt.data) {
				t.Errorf("round trip mismatch: got %d bytes, want %d", len(got), len(tt.data))
			}
		})
	}
}

func TestWrapAppends(t *testing.T) {
	prefix := []byte("hdr")
	out := Wrap(append([]byte(nil), prefix...), []byte("payload"))
	if !bytes.HasPrefix(out, prefix) {
		t.Fatalf("Wrap dropped dst prefix")
	}
	got, err := Unwrap(out[len(prefix):])
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "payload" {
		t.Errorf("got %q", got)
	}
}

func TestMaybe(t *testing.T) {
	raw := []byte{0xFF, 0x08, 0x00}
	got, err := Maybe(raw)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, raw) {
		t.Errorf("Maybe altered unframed data")
	}

	got, err = Maybe(Wrap(nil, raw))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, raw) {
		t.Errorf("Maybe did not unwrap frame")
	}
}

func TestUnwrapErrors(t *testing.T) {
	if _, err := Unwrap([]byte{1, 2, 3, 4, 5}); !errors.Is(err, ErrNotFrame) {
		t.Errorf("want ErrNotFrame, got %v", err)
	}
	bad := append([]byte(magic), 0xFF, 0xFF, 0xFF)
	if _, err := Unwrap(bad); err == nil {
		t.Error("want error for truncated frame")
	}
}

func TestIsFrame(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want bool
	}{
		{"magic", []byte{0x28, 0xB5, 0x2F, 0xFD, 0x00}, true},
		{"wrapped", Wrap(nil, []byte("x")), true},
		{"short", []byte{0x28, 0xB5, 0x2F}, false},
		{"big endian", []byte{0xFD, 0x2F, 0xB5, 0x28}, false},
		{"empty", nil, false},
	}
	for _, tt := range tests {
		if got := IsFrame(tt.data); got != tt.want {
			t.Errorf("%s: IsFrame() = %v, want %v", tt.name, got, tt.want)
		}
	}
}
