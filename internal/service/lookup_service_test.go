package service

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurlyy/course_ui/pkg/auth"
	"github.com/nurlyy/course_ui/pkg/logger"
)

func TestLookupService_CachesPerToken(t *testing.T) {
	var calls atomic.Int32
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/api/groups/all", r.URL.Path)
		reply(w, http.StatusOK, `{"items":[{"id":1,"name":"P101"},{"id":2,"name":"P102"}]}`)
	})

	cache := newFakeCache()
	svc := NewLookupService(c, cache, time.Minute, logger.NewNopLogger())

	alice := auth.WithToken(context.Background(), "alice")
	bob := auth.WithToken(context.Background(), "bob")

	groups, err := svc.Groups(alice)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	_, err = svc.Groups(alice)
	require.NoError(t, err)
	assert.EqualValues(t, 1, calls.Load())

	_, err = svc.Groups(bob)
	require.NoError(t, err)
	assert.EqualValues(t, 2, calls.Load())

	for key := range cache.data {
		assert.NotContains(t, key, "alice")
	}

	svc.Invalidate(alice)
	_, err = svc.Groups(alice)
	require.NoError(t, err)
	assert.EqualValues(t, 3, calls.Load())
}

func TestLookupService_CacheErrorFallsBackToBackend(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, `{"items":[{"id":1,"name":"P101"}]}`)
	})

	cache := newFakeCache()
	cache.err = errBoom
	svc := NewLookupService(c, cache, time.Minute, logger.NewNopLogger())

	groups, err := svc.Groups(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "P101", groups[0].Name)
}

func TestLookupService_CorruptedEntryIgnored(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, `{"items":[{"id":5,"name":"Fresh"}]}`)
	})

	cache := newFakeCache()
	ctx := context.Background()
	cache.data[groupsCacheKey(ctx)] = "not json"

	svc := NewLookupService(c, cache, time.Minute, logger.NewNopLogger())
	groups, err := svc.Groups(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Fresh", groups[0].Name)
}

func TestLookupService_WithoutCache(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	svc := NewLookupService(c, nil, time.Minute, logger.NewNopLogger())
	_, err := svc.Groups(context.Background())
	require.Error(t, err)
	assert.NotPanics(t, func() { svc.Invalidate(context.Background()) })
}
