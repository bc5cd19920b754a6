package sigs

import (
	"testing"

	"github.com/iov-one/flow/errors"
)

func TestErrorCodes(t *testing.T) {
	cases := map[uint32]*errors.Error{
		120: ErrIncorrectNonceForInvoker,
		121: ErrIncorrectNonce,
		122: ErrInvalidSequence,
	}
	for code, err := range cases {
		if got := err.ABCICode(); got != code {
			t.Errorf("%q: want code %d, got %d", err, code, got)
		}
	}
}
