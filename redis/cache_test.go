package redis_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/breeze/mock"
	"github.com/fwojciec/breeze/redis"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory Store. Errors injected via getErr and setErr are
// returned instead of touching the map.
type memStore struct {
	mu     sync.Mutex
	data   map[string]string
	ttls   map[string]time.Duration
	getErr error
	setErr error
}

func newMemStore() *memStore {
	return &memStore{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (s *memStore) Get(ctx context.Context, key string) *goredis.StringCmd {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return goredis.NewStringResult("", s.getErr)
	}
	v, ok := s.data[key]
	if !ok {
		return goredis.NewStringResult("", goredis.Nil)
	}
	return goredis.NewStringResult(v, nil)
}

func (s *memStore) Set(ctx context.Context, key string, value any, expiration time.Duration) *goredis.StatusCmd {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return goredis.NewStatusResult("", s.setErr)
	}
	s.data[key] = string(value.([]byte))
	s.ttls[key] = expiration
	return goredis.NewStatusResult("OK", nil)
}

func (s *memStore) Ping(ctx context.Context) *goredis.StatusCmd {
	return goredis.NewStatusResult("PONG", s.getErr)
}

func countingService(calls *int, err error) *mock.WeatherService {
	return &mock.WeatherService{
		WeatherFn: func(ctx context.Context, city string) (json.RawMessage, error) {
			*calls++
			if err != nil {
				return nil, err
			}
			return json.RawMessage(`{"name":"` + city + `"}`), nil
		},
	}
}

func TestCache_MissThenHit(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	var calls int
	c := redis.NewCache(store, countingService(&calls, nil), redis.WithTTL(time.Minute))

	doc, err := c.Weather(context.Background(), "Beijing")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Beijing"}`, string(doc))

	doc, err = c.Weather(context.Background(), "  BEIJING ")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Beijing"}`, string(doc))

	assert.Equal(t, 1, calls)
	assert.Equal(t, time.Minute, store.ttls[c.Key("beijing")])
}

func TestCache_ErrorsAreNotCached(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	var calls int
	wantErr := errors.New("HTTP error: 404")
	c := redis.NewCache(store, countingService(&calls, wantErr))

	for range 2 {
		_, err := c.Weather(context.Background(), "Atlantis")
		assert.ErrorIs(t, err, wantErr)
	}
	assert.Equal(t, 2, calls)
	assert.Empty(t, store.data)
}

func TestCache_RedisFailuresAreBypassed(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	store.getErr = errors.New("connection refused")
	store.setErr = errors.New("connection refused")
	var calls int
	c := redis.NewCache(store, countingService(&calls, nil))

	doc, err := c.Weather(context.Background(), "Oslo")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Oslo"}`, string(doc))
	assert.Equal(t, 1, calls)
	assert.Error(t, c.Ping(context.Background()))
}

func TestCache_InvalidCachedValueIsRefetched(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	var calls int
	c := redis.NewCache(store, countingService(&calls, nil))
	store.data[c.Key("Lima")] = "not json"

	doc, err := c.Weather(context.Background(), "Lima")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Lima"}`, string(doc))
	assert.Equal(t, 1, calls)
}

func TestCache_KeyPrefix(t *testing.T) {
	t.Parallel()

	c := redis.NewCache(newMemStore(), &mock.WeatherService{}, redis.WithKeyPrefix("w:en:"))
	assert.Equal(t, "w:en:new york", c.Key(" New York "))
}

func TestOpen(t *testing.T) {
	t.Parallel()

	client, err := redis.Open("redis://localhost:6379/2")
	require.NoError(t, err)
	defer client.Close()
	assert.Equal(t, 2, client.Options().DB)

	_, err = redis.Open("http://not-redis")
	assert.Error(t, err)
}
