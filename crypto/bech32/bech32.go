// Package bech32 converts between raw address bytes and their bech32
// representation.
package bech32

import (
	"github.com/btcsuite/btcutil/bech32"

	"github.com/iov-one/flow/errors"
)

// Decode returns the human readable part and the 8 bit payload of text.
func Decode(text string) (hrp string, payload []byte, err error) {
	hrp, data, err := bech32.Decode(text)
	if err != nil {
		return "", nil, invalid(err)
	}
	if payload, err = bech32.ConvertBits(data, 5, 8, false); err != nil {
		return "", nil, invalid(err)
	}
	return hrp, payload, nil
}

// Encode writes payload with the human readable part hrp.
func Encode(hrp string, payload []byte) ([]byte, error) {
	data, err := bech32.ConvertBits(payload, 8, 5, true)
	if err != nil {
		return nil, invalid(err)
	}
	text, err := bech32.Encode(hrp, data)
	if err != nil {
		return nil, invalid(err)
	}
	return []byte(text), nil
}

func invalid(err error) error {
	return errors.Wrapf(errors.ErrInput, "bech32: %s", err)
}
