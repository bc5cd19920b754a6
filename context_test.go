package flow

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

func TestContextLogger(t *testing.T) {
	bg := context.Background()
	assert.Equal(t, DefaultLogger, GetLogger(bg))

	custom := log.NewTMLogger(os.Stdout)
	ctx := WithLogger(bg, custom)
	assert.Equal(t, custom, GetLogger(ctx))

	tagged := WithLogInfo(ctx, "stream", 4)
	assert.NotEqual(t, GetLogger(ctx), GetLogger(tagged))
}

func TestContextHeight(t *testing.T) {
	ctx := context.Background()
	_, ok := GetHeight(ctx)
	assert.False(t, ok)

	ctx = WithHeight(ctx, 7)
	h, ok := GetHeight(WithLogInfo(ctx, "k", "v"))
	assert.True(t, ok)
	assert.Equal(t, int64(7), h)

	assert.Panics(t, func() { WithHeight(ctx, 8) }, "height is set once")
}

func TestContextChainID(t *testing.T) {
	ctx := context.Background()
	assert.Panics(t, func() { GetChainID(ctx) })

	ctx = WithChainID(ctx, "vesting-1")
	assert.Equal(t, "vesting-1", GetChainID(ctx))
	assert.Panics(t, func() { WithChainID(ctx, "vesting-2") }, "chain id is set once")
}

func TestIsValidChainID(t *testing.T) {
	cases := map[string]bool{
		"":                                false,
		"abc":                             false,
		"vesting":                         true,
		"test-NET_3.x":                    false,
		"wish-YOU-88":                     true,
		"with spaces":                     false,
		"a-chain-id-that-is-far-too-long": false,
	}
	for id, want := range cases {
		assert.Equal(t, want, IsValidChainID(id), id)
	}
}

func TestBlockTime(t *testing.T) {
	bg := context.Background()
	_, err := BlockTime(bg)
	assert.Error(t, err)
	assert.Panics(t, func() { IsExpired(bg, 1) })

	header := time.Unix(1000, 0)
	ctx := WithHeader(bg, abci.Header{Height: 3, Time: header})
	now, err := BlockTime(ctx)
	require.NoError(t, err)
	assert.Equal(t, header.UTC(), now)

	ctx = WithBlockTime(ctx, time.Unix(2000, 0))
	now, err = BlockTime(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), now.Unix(), "explicit time wins over the header")

	assert.True(t, IsExpired(ctx, 1999))
	assert.True(t, IsExpired(ctx, 2000))
	assert.False(t, IsExpired(ctx, 2001))
}
