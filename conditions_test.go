package flow

import (
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/iov-one/flow/crypto/bech32"
	"github.com/iov-one/flow/errors"
)

func TestConditionParse(t *testing.T) {
	cases := map[string]struct {
		cond    Condition
		wantExt string
		wantTyp string
		wantErr *errors.Error
	}{
		"stream escrow": {
			cond:    NewCondition("stream", "seq", []byte{0, 0, 0, 0, 0, 0, 0, 7}),
			wantExt: "stream",
			wantTyp: "seq",
		},
		"newline in data": {
			cond:    NewCondition("sigs", "ed25519", []byte("a\nb")),
			wantExt: "sigs",
			wantTyp: "ed25519",
		},
		"extension too short": {
			cond:    NewCondition("ab", "seq", []byte{1}),
			wantErr: errors.ErrInput,
		},
		"no data": {
			cond:    Condition("stream/seq/"),
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			ext, typ, _, err := tc.cond.Parse()
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if !tc.wantErr.Is(tc.cond.Validate()) {
				t.Fatalf("parse and validate disagree")
			}
			if err != nil {
				return
			}
			if ext != tc.wantExt || typ != tc.wantTyp {
				t.Fatalf("want %s/%s, got %s/%s", tc.wantExt, tc.wantTyp, ext, typ)
			}
		})
	}
}

func TestConditionJSON(t *testing.T) {
	cond := NewCondition("stream", "seq", []byte{0xCA, 0xFE})
	raw, err := json.Marshal(cond)
	if err != nil {
		t.Fatalf("marshal: %s", err)
	}
	if string(raw) != `"stream/seq/CAFE"` {
		t.Fatalf("unexpected json: %s", raw)
	}
	var got Condition
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %s", err)
	}
	if !got.Equals(cond) {
		t.Fatalf("want %s, got %s", cond, got)
	}
}

func TestAddressUnmarshalJSON(t *testing.T) {
	cond := NewCondition("stream", "seq", []byte{0xCA, 0xFE})
	addr := cond.Address()

	b32, err := bech32.Encode("tflow", addr)
	if err != nil {
		t.Fatalf("bech32: %s", err)
	}

	cases := map[string]struct {
		json     string
		wantAddr Address
		wantErr  *errors.Error
	}{
		"plain hex": {
			json:     `"` + hex.EncodeToString(addr) + `"`,
			wantAddr: addr,
		},
		"prefixed hex": {
			json:     `"hex:` + hex.EncodeToString(addr) + `"`,
			wantAddr: addr,
		},
		"condition": {
			json:     `"cond:stream/seq/CAFE"`,
			wantAddr: addr,
		},
		"bech32": {
			json:     `"bech32:` + string(b32) + `"`,
			wantAddr: addr,
		},
		"empty": {
			json:     `""`,
			wantAddr: nil,
		},
		"too short": {
			json:    `"CAFE"`,
			wantErr: errors.ErrInput,
		},
		"unknown format": {
			json:    `"base64:CAFE"`,
			wantErr: errors.ErrType,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var got Address
			err := json.Unmarshal([]byte(tc.json), &got)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if err == nil && !got.Equals(tc.wantAddr) {
				t.Fatalf("want %s, got %s", tc.wantAddr, got)
			}
		})
	}
}
