package bookql

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"github.com/coocood/freecache"
	"github.com/dgraph-io/ristretto"
	"github.com/eko/gocache/v2/marshaler"
	"github.com/eko/gocache/v2/store"
	"github.com/go-redis/redis/v8"
)

var (
	cachingStoreFactories   = make(map[string]CachingStoreFactory)
	cachingStoreFactoriesMu sync.RWMutex
)

func init() {
	RegisterCachingStoreFactory("redis", RedisCachingStoreFactory)
	RegisterCachingStoreFactory("freecache", FreeCacheStoreFactory)
	RegisterCachingStoreFactory("ristretto", RistrettoCachingStoreFactory)
}

type CachingStore struct {
	*marshaler.Marshaler
	close func() error
}

type CachingStoreFactory = func(u *url.URL) (*CachingStore, error)

func RegisterCachingStoreFactory(schema string, factory CachingStoreFactory) {
	cachingStoreFactoriesMu.Lock()
	defer cachingStoreFactoriesMu.Unlock()

	cachingStoreFactories[schema] = factory
}

func NewCachingStore(u *url.URL) (*CachingStore, error) {
	cachingStoreFactoriesMu.RLock()
	factory, ok := cachingStoreFactories[u.Scheme]
	cachingStoreFactoriesMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("caching store schema: %s is not support", u.Scheme)
	}

	return factory(u)
}

func FreeCacheStoreFactory(u *url.URL) (*CachingStore, error) {
	cacheSize := u.Query().Get("cache_size")

	if cacheSize == "" {
		return nil, errors.New("cache_size must be set explicit")
	}

	cacheSizeInt, err := strconv.Atoi(cacheSize)

	if err != nil {
		return nil, fmt.Errorf("`cache_size` param should be numeric string, %s given", cacheSize)
	}

	client := freecache.NewCache(cacheSizeInt)

	return &CachingStore{
		Marshaler: marshaler.New(store.NewFreecache(client, nil)),
		close: func() error {
			client.Clear()

			return nil
		},
	}, nil
}

func RedisCachingStoreFactory(u *url.URL) (*CachingStore, error) {
	opts := &redis.Options{
		Addr: u.Host,
	}

	if v := u.Query().Get("db"); v != "" {
		db, err := strconv.Atoi(v)

		if err != nil {
			return nil, fmt.Errorf("`db` param should be numeric string, %s given", v)
		}

		opts.DB = db
	}

	user := u.User.Username()
	password, hasPassword := u.User.Password()

	if !hasPassword {
		opts.Password = user
	} else {
		opts.Username = user
		opts.Password = password
	}

	client := redis.NewClient(opts)

	return &CachingStore{
		Marshaler: marshaler.New(store.NewRedis(client, nil)),
		close:     client.Close,
	}, nil
}

// RistrettoCachingStoreFactory creates an in process admission based store,
// num_counters and max_cost are required, buffer_items defaults to 64.
func RistrettoCachingStoreFactory(u *url.URL) (*CachingStore, error) {
	q := u.Query()
	config := &ristretto.Config{
		BufferItems: 64,
	}

	params := []struct {
		name     string
		required bool
		set      func(int64)
	}{
		{"num_counters", true, func(v int64) { config.NumCounters = v }},
		{"max_cost", true, func(v int64) { config.MaxCost = v }},
		{"buffer_items", false, func(v int64) { config.BufferItems = v }},
	}

	for _, p := range params {
		raw := q.Get(p.name)

		if raw == "" {
			if p.required {
				return nil, fmt.Errorf("%s must be set explicit", p.name)
			}

			continue
		}

		v, err := strconv.ParseInt(raw, 10, 64)

		if err != nil {
			return nil, fmt.Errorf("`%s` param should be numeric string, %s given", p.name, raw)
		}

		p.set(v)
	}

	client, err := ristretto.NewCache(config)

	if err != nil {
		return nil, err
	}

	return &CachingStore{
		Marshaler: marshaler.New(store.NewRistretto(client, nil)),
		close: func() error {
			client.Close()

			return nil
		},
	}, nil
}
