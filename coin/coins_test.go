package coin

import (
	"testing"

	"github.com/iov-one/flow/errors"
	"github.com/iov-one/flow/flowtest/assert"
)

func TestCombineCoins(t *testing.T) {
	cs, err := CombineCoins(NewCoin(5, "FLW"), NewCoin(2, "ETH"), NewCoin(3, "FLW"))
	assert.Nil(t, err)
	assert.Equal(t, Coins{NewCoinp(2, "ETH"), NewCoinp(8, "FLW")}, cs)
	assert.Equal(t, "2 ETH, 8 FLW", cs.String())

	_, err = CombineCoins(NewCoin(5, "flw"))
	assert.IsErr(t, errors.ErrCurrency, err)
}

func TestCoinsAddSubtract(t *testing.T) {
	orig, err := CombineCoins(NewCoin(10, "FLW"))
	assert.Nil(t, err)

	more, err := orig.Add(NewCoin(4, "BTC"))
	assert.Nil(t, err)
	assert.Equal(t, 2, len(more))
	// receiver is left untouched
	assert.Equal(t, 1, len(orig))

	less, err := more.Subtract(NewCoin(10, "FLW"))
	assert.Nil(t, err)
	assert.Equal(t, Coins{NewCoinp(4, "BTC")}, less)
	assert.Equal(t, NewCoin(0, "FLW"), less.Get("FLW"))

	if !more.Contains(NewCoin(10, "FLW")) {
		t.Fatal("must contain exact amount")
	}
	if more.Contains(NewCoin(11, "FLW")) {
		t.Fatal("must not contain more than held")
	}

	neg, err := less.Subtract(NewCoin(5, "BTC"))
	assert.Nil(t, err)
	if neg.IsNonNegative() {
		t.Fatal("negative holdings not detected")
	}
}

func TestCoinsValidate(t *testing.T) {
	cases := map[string]struct {
		coins   Coins
		wantErr *errors.Error
	}{
		"empty":      {coins: nil},
		"normalized": {coins: Coins{NewCoinp(1, "BTC"), NewCoinp(2, "FLW")}},
		"unsorted": {
			coins:   Coins{NewCoinp(2, "FLW"), NewCoinp(1, "BTC")},
			wantErr: errors.ErrCurrency,
		},
		"duplicate": {
			coins:   Coins{NewCoinp(2, "FLW"), NewCoinp(1, "FLW")},
			wantErr: errors.ErrCurrency,
		},
		"zero": {
			coins:   Coins{NewCoinp(0, "FLW")},
			wantErr: errors.ErrCurrency,
		},
		"nil entry": {
			coins:   Coins{nil},
			wantErr: errors.ErrEmpty,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.IsErr(t, tc.wantErr, tc.coins.Validate())
		})
	}
}
