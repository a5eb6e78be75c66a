package memcache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/swap-explorer/business/tokens/domain"
)

func TestStore_IsolatesCallerMaps(t *testing.T) {
	ctx := context.Background()
	s := New()

	catalog := domain.Catalog{"a": {Address: "a", Symbol: "A", Decimals: 6}}
	require.NoError(t, s.Store(ctx, "k", catalog))
	catalog["b"] = domain.TokenInfo{Address: "b"}

	got, ok, err := s.Load(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, got, 1)

	require.NoError(t, s.Close())
	_, ok, _ = s.Load(ctx, "k")
	assert.False(t, ok)
}
