package querycache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch_ServesFreshValueAndRefetchesStale(t *testing.T) {
	c := New()
	clock := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }

	calls := 0
	fetch := func(context.Context) ([]string, error) {
		calls++
		return []string{"svc-1"}, nil
	}

	for i := 0; i < 3; i++ {
		v, err := Fetch(context.Background(), c, "s1/br-1/services", time.Minute, fetch)
		require.NoError(t, err)
		assert.Equal(t, []string{"svc-1"}, v)
	}
	assert.Equal(t, 1, calls)

	clock = clock.Add(2 * time.Minute)
	_, err := Fetch(context.Background(), c, "s1/br-1/services", time.Minute, fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestFetch_DoesNotCacheErrors(t *testing.T) {
	c := New()
	boom := errors.New("boom")

	_, err := Fetch(context.Background(), c, "k", time.Minute, func(context.Context) (int, error) { return 0, boom })

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())
}

func TestInvalidate_DropsPrefixOnly(t *testing.T) {
	c := New()
	c.Set(Key("s1", "br-1", "services"), 1)
	c.Set(Key("s1", "br-1", "services", "svc-1"), 2)
	c.Set(Key("s1", "br-10", "services"), 3)
	c.Set(Key("s2", "br-1", "services"), 4)

	n := c.Invalidate(Key("s1", "br-1"))

	assert.Equal(t, 2, n)
	_, _, ok := c.Get(Key("s1", "br-10", "services"))
	assert.True(t, ok)
	_, _, ok = c.Get(Key("s2", "br-1", "services"))
	assert.True(t, ok)
}

func TestSet_LastWriteWins(t *testing.T) {
	c := New()
	c.Set("k", "poll")
	c.Set("k", "user")

	v, _, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "user", v)
}
