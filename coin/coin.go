// Package coin implements amounts of a named asset and the arithmetic
// needed to move them between accounts.
package coin

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/iov-one/flow/codec"
	"github.com/iov-one/flow/errors"
)

// IsCC reports whether s is a valid ticker: three or four upper case
// letters.
var IsCC = regexp.MustCompile(`^[A-Z]{3,4}$`).MatchString

var humanFormat = regexp.MustCompile(`^(-?\d+)\s*([A-Z]{3,4})$`)

// Coin is a whole amount of a single asset. The amount may be negative
// while computing a difference but is never stored that way.
type Coin struct {
	Ticker string
	Amount int64
}

func NewCoin(amount int64, ticker string) Coin {
	return Coin{Ticker: ticker, Amount: amount}
}

func NewCoinp(amount int64, ticker string) *Coin {
	return &Coin{Ticker: ticker, Amount: amount}
}

// IsEmpty is true for nil and for a zero amount.
func IsEmpty(c *Coin) bool {
	return c == nil || c.Amount == 0
}

// Add sums two coins of the same ticker. A zero coin without a ticker is
// the neutral element. ErrCurrency is returned for differing tickers and
// ErrOverflow when the sum leaves the int64 range.
func (c Coin) Add(o Coin) (Coin, error) {
	switch {
	case c.Ticker == "" && c.Amount == 0:
		return o, nil
	case o.Ticker == "" && o.Amount == 0:
		return c, nil
	case c.Ticker != o.Ticker:
		return Coin{}, errors.Wrapf(errors.ErrCurrency, "%s + %s", c.Ticker, o.Ticker)
	}
	if (o.Amount > 0 && c.Amount > math.MaxInt64-o.Amount) ||
		(o.Amount < 0 && c.Amount < math.MinInt64-o.Amount) {
		return Coin{}, errors.Wrapf(errors.ErrOverflow, "%d + %d", c.Amount, o.Amount)
	}
	c.Amount += o.Amount
	return c, nil
}

// Subtract is Add with the amount of o negated.
func (c Coin) Subtract(o Coin) (Coin, error) {
	if o.Amount == math.MinInt64 {
		return Coin{}, errors.Wrapf(errors.ErrOverflow, "-(%d)", o.Amount)
	}
	return c.Add(o.Negative())
}

func (c Coin) Negative() Coin {
	c.Amount = -c.Amount
	return c
}

func (c Coin) IsZero() bool        { return c.Amount == 0 }
func (c Coin) IsPositive() bool    { return c.Amount > 0 }
func (c Coin) IsNonNegative() bool { return c.Amount >= 0 }

// IsGTE is true when c has the ticker of o and at least its amount.
func (c Coin) IsGTE(o Coin) bool {
	return c.Ticker == o.Ticker && c.Amount >= o.Amount
}

func (c Coin) Equals(o Coin) bool {
	return c == o
}

func (c *Coin) Clone() *Coin {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

// Validate checks the ticker only. Callers decide which sign is acceptable.
func (c Coin) Validate() error {
	if !IsCC(c.Ticker) {
		return errors.Wrapf(errors.ErrCurrency, "ticker %q", c.Ticker)
	}
	return nil
}

func (c *Coin) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.String(1, c.Ticker)
	e.Int64(2, c.Amount)
	return e.Result()
}

func (c *Coin) Unmarshal(raw []byte) error {
	*c = Coin{}
	return codec.Decode(raw, func(f codec.Field) (err error) {
		switch f.Num {
		case 1:
			c.Ticker, err = f.String()
		case 2:
			c.Amount, err = f.Int64()
		}
		return err
	})
}

// UnmarshalJSON reads "<amount> <ticker>" strings as well as
// {"ticker": ..., "amount": ...} objects.
func (c *Coin) UnmarshalJSON(raw []byte) error {
	var text string
	if json.Unmarshal(raw, &text) == nil {
		parsed, err := ParseHumanFormat(text)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}
	type plain Coin
	var p plain
	if err := json.Unmarshal(raw, &p); err != nil {
		return errors.Wrapf(errors.ErrInput, "coin: %s", err)
	}
	*c = Coin(p)
	return nil
}

func (c Coin) String() string {
	if c.Ticker == "" {
		return strconv.FormatInt(c.Amount, 10)
	}
	return fmt.Sprintf("%d %s", c.Amount, c.Ticker)
}

// ParseHumanFormat reads "<amount> <ticker>", for example "120 IOV".
func ParseHumanFormat(text string) (Coin, error) {
	m := humanFormat.FindStringSubmatch(text)
	if m == nil {
		return Coin{}, errors.Wrapf(errors.ErrInput, "coin %q", text)
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return Coin{}, errors.Wrapf(errors.ErrInput, "amount %q", m[1])
	}
	return NewCoin(n, m[2]), nil
}
