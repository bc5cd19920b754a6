package bech32

import (
	"bytes"
	"testing"
)

func TestEncodeDecodeAddress(t *testing.T) {
	addr := bytes.Repeat([]byte{0x42}, 20)

	raw, err := Encode("tflow", addr)
	if err != nil {
		t.Fatalf("cannot encode: %s", err)
	}
	if !bytes.HasPrefix(raw, []byte("tflow1")) {
		t.Fatalf("unexpected prefix: %q", raw)
	}

	hrp, payload, err := Decode(string(raw))
	if err != nil {
		t.Fatalf("cannot decode: %s", err)
	}
	if hrp != "tflow" {
		t.Fatalf("want tflow, got %q", hrp)
	}
	if !bytes.Equal(addr, payload) {
		t.Fatalf("want %X, got %X", addr, payload)
	}
}

func TestDecodeBrokenChecksum(t *testing.T) {
	raw, err := Encode("tflow", []byte("payload"))
	if err != nil {
		t.Fatalf("cannot encode: %s", err)
	}
	broken := append([]byte{}, raw...)
	last := len(broken) - 1
	if broken[last] == 'q' {
		broken[last] = 'p'
	} else {
		broken[last] = 'q'
	}
	if _, _, err := Decode(string(broken)); err == nil {
		t.Fatal("broken checksum must not decode")
	}
}
