package coin

import (
	"sort"
	"strings"

	"github.com/iov-one/flow/errors"
)

// Coins holds amounts of several tickers. A normalized set is ordered by
// ticker and has exactly one non zero entry per ticker. All operations keep
// a normalized set normalized and never modify the receiver.
type Coins []*Coin

// CombineCoins builds a normalized set from coins given in any order.
func CombineCoins(cs ...Coin) (Coins, error) {
	var (
		set Coins
		err error
	)
	for _, c := range cs {
		if set, err = set.Add(c); err != nil {
			return nil, err
		}
	}
	return set, set.Validate()
}

func (cs Coins) Clone() Coins {
	if cs == nil {
		return nil
	}
	cp := make(Coins, len(cs))
	for i := range cs {
		cp[i] = cs[i].Clone()
	}
	return cp
}

// Add returns a copy of the set with c added. An entry that drops to zero
// is removed.
func (cs Coins) Add(c Coin) (Coins, error) {
	out := cs.Clone()
	if c.IsZero() {
		return out, nil
	}
	i := out.position(c.Ticker)
	if i == len(out) || out[i].Ticker != c.Ticker {
		out = append(out, nil)
		copy(out[i+1:], out[i:])
		out[i] = &c
		return out, nil
	}
	sum, err := out[i].Add(c)
	if err != nil {
		return nil, err
	}
	if sum.IsZero() {
		return append(out[:i], out[i+1:]...), nil
	}
	out[i] = &sum
	return out, nil
}

func (cs Coins) Subtract(c Coin) (Coins, error) {
	return cs.Add(c.Negative())
}

// Get returns the amount held of ticker. Missing tickers read as zero.
func (cs Coins) Get(ticker string) Coin {
	if i := cs.position(ticker); i < len(cs) && cs[i].Ticker == ticker {
		return *cs[i]
	}
	return Coin{Ticker: ticker}
}

// Contains is true when the set holds at least c.
func (cs Coins) Contains(c Coin) bool {
	return cs.Get(c.Ticker).IsGTE(c)
}

func (cs Coins) IsEmpty() bool {
	return len(cs) == 0
}

func (cs Coins) IsNonNegative() bool {
	for _, c := range cs {
		if c.Amount < 0 {
			return false
		}
	}
	return true
}

// Validate requires a normalized set of valid coins.
func (cs Coins) Validate() error {
	for i, c := range cs {
		switch {
		case c == nil:
			return errors.Wrapf(errors.ErrEmpty, "coin %d", i)
		case c.IsZero():
			return errors.Wrapf(errors.ErrCurrency, "zero %s", c.Ticker)
		case i > 0 && cs[i-1] != nil && cs[i-1].Ticker >= c.Ticker:
			return errors.Wrapf(errors.ErrCurrency, "%s after %s", c.Ticker, cs[i-1].Ticker)
		}
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (cs Coins) String() string {
	parts := make([]string, 0, len(cs))
	for _, c := range cs {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, ", ")
}

// position is the index of ticker in the set, or where it would be inserted.
func (cs Coins) position(ticker string) int {
	return sort.Search(len(cs), func(i int) bool { return cs[i].Ticker >= ticker })
}
