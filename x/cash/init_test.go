package cash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/flow"
	"github.com/iov-one/flow/coin"
	"github.com/iov-one/flow/store"
)

func TestInitState(t *testing.T) {
	addr := flow.Address{1, 2, 3, 4, 5, 6, 7, 8, 9, 0, 0x21, 0x22, 0x23, 0x24, 0x25, 0x26, 0x27, 0x28, 0x29, 0x30}
	genesis := []byte(`[{"address":"0102030405060708090021222324252627282930",
		"coins":["50 FOO", {"Ticker": "BAR", "Amount": 7}]}]`)

	cases := map[string]struct {
		opts    flow.Options
		wantErr bool
		acct    flow.Address
		coins   []coin.Coin
	}{
		"no data": {
			opts: flow.Options{},
		},
		"other extension": {
			opts: flow.Options{"foo": []byte(`"bar"`)},
		},
		"bad address": {
			opts:    flow.Options{"cash": []byte(`[{"address": "1234", "coins": ["1 FOO"]}]`)},
			wantErr: true,
		},
		"bad format": {
			opts:    flow.Options{"cash": []byte(`[{"coins": 123}]`)},
			wantErr: true,
		},
		"negative balance": {
			opts:    flow.Options{"cash": []byte(`[{"address":"0102030405060708090021222324252627282930", "coins": ["-1 FOO"]}]`)},
			wantErr: true,
		},
		"real account": {
			opts:  flow.Options{"cash": genesis},
			acct:  addr,
			coins: []coin.Coin{coin.NewCoin(7, "BAR"), coin.NewCoin(50, "FOO")},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			kv := store.MemStore()
			err := Initializer{}.FromGenesis(tc.opts, kv)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			if tc.acct != nil {
				w := getWallet(kv, tc.acct)
				require.NotNil(t, w)
				want, err := coin.CombineCoins(tc.coins...)
				require.NoError(t, err)
				assert.Equal(t, want, w.Coins())
			}
		})
	}
}
