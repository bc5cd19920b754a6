package cash

import (
	"github.com/iov-one/flow"
	"github.com/iov-one/flow/codec"
	"github.com/iov-one/flow/coin"
	"github.com/iov-one/flow/errors"
	"github.com/iov-one/flow/orm"
)

// BucketName prefixes every wallet key.
const BucketName = "cash"

// Holdings is the stored value of a wallet: at most one coin per ticker,
// sorted by ticker, none negative.
type Holdings struct {
	Coins coin.Coins `json:"coins"`
}

var _ orm.Model = (*Holdings)(nil)

func (h *Holdings) Validate() error {
	if err := h.Coins.Validate(); err != nil {
		return err
	}
	if !h.Coins.IsNonNegative() {
		return errors.Wrap(errors.ErrAmount, "negative balance")
	}
	return nil
}

func (h *Holdings) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	for _, c := range h.Coins {
		e.Message(1, c)
	}
	return e.Result()
}

func (h *Holdings) Unmarshal(raw []byte) error {
	*h = Holdings{}
	return codec.Decode(raw, func(f codec.Field) error {
		if f.Num != 1 {
			return nil
		}
		c := new(coin.Coin)
		if err := f.Message(c); err != nil {
			return err
		}
		h.Coins = append(h.Coins, c)
		return nil
	})
}

// Wallet is the holdings of one address. It implements orm.Object so that
// the bucket returns wallets without type assertions at call sites.
type Wallet struct {
	addr     []byte
	holdings *Holdings
}

var _ orm.Object = (*Wallet)(nil)

// NewWallet returns an empty wallet of addr.
func NewWallet(addr flow.Address) *Wallet {
	return &Wallet{addr: addr, holdings: new(Holdings)}
}

// FundedWallet returns a wallet of addr holding coins. Nil coins are
// skipped and the result must be a valid, non-negative balance.
func FundedWallet(addr flow.Address, coins ...*coin.Coin) (*Wallet, error) {
	w := NewWallet(addr)
	for _, c := range coins {
		if c == nil {
			continue
		}
		if err := w.Add(*c); err != nil {
			return nil, err
		}
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w Wallet) Key() []byte {
	return w.addr
}

func (w *Wallet) SetKey(key []byte) {
	w.addr = key
}

func (w Wallet) Value() flow.Persistent {
	return w.holdings
}

func (w Wallet) Validate() error {
	if len(w.addr) == 0 {
		return errors.Wrap(errors.ErrEmpty, "wallet address")
	}
	return w.holdings.Validate()
}

func (w *Wallet) Clone() orm.Object {
	c := &Wallet{holdings: &Holdings{Coins: w.holdings.Coins.Clone()}}
	if len(w.addr) != 0 {
		c.addr = append([]byte(nil), w.addr...)
	}
	return c
}

func (w Wallet) Coins() coin.Coins {
	return w.holdings.Coins
}

// Add credits c. A negative c debits.
func (w *Wallet) Add(c coin.Coin) error {
	sum, err := w.holdings.Coins.Add(c)
	if err != nil {
		return err
	}
	w.holdings.Coins = sum
	return nil
}

func (w *Wallet) Subtract(c coin.Coin) error {
	return w.Add(c.Negative())
}

// Bucket stores wallets by address.
type Bucket struct {
	orm.Bucket
}

func NewBucket() Bucket {
	return Bucket{Bucket: orm.NewBucket(BucketName, NewWallet(nil))}
}

// Get returns nil when addr has no wallet.
func (b Bucket) Get(db flow.ReadOnlyKVStore, addr flow.Address) (*Wallet, error) {
	obj, err := b.Bucket.Get(db, addr)
	if err != nil || obj == nil {
		return nil, err
	}
	return obj.(*Wallet), nil
}

// GetOrCreate returns an empty wallet when addr has none stored.
func (b Bucket) GetOrCreate(db flow.ReadOnlyKVStore, addr flow.Address) (*Wallet, error) {
	w, err := b.Get(db, addr)
	if err != nil {
		return nil, err
	}
	if w == nil {
		w = NewWallet(addr)
	}
	return w, nil
}

// Save writes w, or deletes it once it holds nothing.
func (b Bucket) Save(db flow.KVStore, w *Wallet) error {
	if w.Coins().IsEmpty() {
		return b.Bucket.Delete(db, w.Key())
	}
	return b.Bucket.Save(db, w)
}
