package app

import (
	"encoding/json"
	"fmt"

	"github.com/iov-one/flow"
	"github.com/iov-one/flow/coin"
	"github.com/iov-one/flow/crypto"
	"github.com/iov-one/flow/errors"
	"github.com/iov-one/flow/x/stream"
)

const (
	devTicker = "IOV"
	devFunds  = 123456789
)

// devGenesis is the app_state written by `flowd init`.
type devGenesis struct {
	Cash []devWallet `json:"cash"`
	Conf struct {
		Stream stream.Configuration `json:"stream"`
	} `json:"conf"`
}

type devWallet struct {
	Address flow.Address `json:"address"`
	Coins   []string     `json:"coins"`
}

// GenInitOptions builds a development genesis with a single funded wallet.
// Optional args are the ticker and the wallet address. Without an address
// a fresh key pair is created and printed to stdout.
func GenInitOptions(args []string) (json.RawMessage, error) {
	ticker := devTicker
	if len(args) > 0 {
		ticker = args[0]
	}
	if !coin.IsCC(ticker) {
		return nil, errors.Wrapf(errors.ErrCurrency, "ticker %q", ticker)
	}

	var owner flow.Address
	if len(args) > 1 {
		addr, err := flow.ParseAddress(args[1])
		if err != nil {
			return nil, err
		}
		owner = addr
	} else {
		addr, keys, err := GenerateCoinKey()
		if err != nil {
			return nil, err
		}
		fmt.Println(keys)
		owner = addr
	}

	var gen devGenesis
	gen.Cash = []devWallet{{
		Address: owner,
		Coins:   []string{fmt.Sprintf("%d %s", devFunds, ticker)},
	}}
	gen.Conf.Stream = stream.Configuration{
		Metadata: &flow.Metadata{Schema: 1},
		MaxTicks: stream.DefaultMaxTicks,
	}
	raw, err := json.MarshalIndent(gen, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return raw, nil
}

type keyPair struct {
	Pubkey *crypto.PublicKey  `json:"pub_key"`
	Secret *crypto.PrivateKey `json:"secret"`
}

// GenerateCoinKey creates an ed25519 key. It returns the address to fund
// and the key pair as json, ready to import into a client.
func GenerateCoinKey() (flow.Address, string, error) {
	secret := crypto.GenPrivKeyEd25519()
	pub := secret.PublicKey()
	keys, err := json.MarshalIndent(keyPair{Pubkey: pub, Secret: secret}, "", "  ")
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrInput, err.Error())
	}
	return pub.Address(), string(keys), nil
}
