package cachemanager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type countingSource struct {
	calls int
	err   error
}

func (s *countingSource) lineCount(_ context.Context, text string) (int, error) {
	s.calls++
	if s.err != nil {
		return 0, s.err
	}
	return len(text), nil
}

func newCache() *InMemoryCacheManager[string, int] {
	return NewInMemoryCacheManager[string, int]("test", DefaultExpiration, DefaultCleanupInterval)
}

func TestReadThroughCache_Get_ComputesOnceThenHits(t *testing.T) {
	src := &countingSource{}
	rt := NewReadThroughCache[string, int, string](newCache(), src.lineCount, false)

	for i := 0; i < 3; i++ {
		got, err := rt.Get(context.Background(), "k", "abcd", time.Minute)
		require.NoError(t, err)
		require.Equal(t, 4, got)
	}
	require.Equal(t, 1, src.calls)
}

func TestReadThroughCache_Get_Bypass(t *testing.T) {
	src := &countingSource{}
	cache := newCache()
	rt := NewReadThroughCache[string, int, string](cache, src.lineCount, true)

	_, _ = rt.Get(context.Background(), "k", "ab", time.Minute)
	_, _ = rt.Get(context.Background(), "k", "ab", time.Minute)

	require.Equal(t, 2, src.calls)
	require.Equal(t, 0, cache.Len())
}

func TestReadThroughCache_Get_ErrorIsNotCached(t *testing.T) {
	src := &countingSource{err: errors.New("parse failed")}
	cache := newCache()
	rt := NewReadThroughCache[string, int, string](cache, src.lineCount, false)

	_, err := rt.Get(context.Background(), "k", "ab", time.Minute)
	require.EqualError(t, err, "parse failed")
	require.Equal(t, 0, cache.Len())

	src.err = nil
	got, err := rt.Get(context.Background(), "k", "ab", time.Minute)
	require.NoError(t, err)
	require.Equal(t, 2, got)
	require.Equal(t, 2, src.calls)
}

func TestReadThroughCache_GetWithRefresh(t *testing.T) {
	src := &countingSource{}
	rt := NewReadThroughCache[string, int, string](newCache(), src.lineCount, false)

	got, err := rt.GetWithRefresh(context.Background(), "k", "abc", time.Minute)
	require.NoError(t, err)
	require.Equal(t, 3, got)

	got, err = rt.GetWithRefresh(context.Background(), "k", "ignored", time.Minute)
	require.NoError(t, err)
	require.Equal(t, 3, got)
	require.Equal(t, 1, src.calls)
}
