package bridge

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// fakeList is an in-memory Redis list implementing ListPusher and ListPopper.
type fakeList struct {
	mu      sync.Mutex
	items   map[string][]string
	notify  chan struct{}
	pushErr error
}

func newFakeList() *fakeList {
	return &fakeList{
		items:  make(map[string][]string),
		notify: make(chan struct{}),
	}
}

func (f *fakeList) RPush(_ context.Context, key string, values ...interface{}) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.pushErr != nil {
		return redis.NewIntResult(0, f.pushErr)
	}
	for _, v := range values {
		switch v := v.(type) {
		case []byte:
			f.items[key] = append(f.items[key], string(v))
		case string:
			f.items[key] = append(f.items[key], v)
		}
	}
	close(f.notify)
	f.notify = make(chan struct{})
	return redis.NewIntResult(int64(len(f.items[key])), nil)
}

func (f *fakeList) BLPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd {
	deadline := time.After(timeout)
	for {
		f.mu.Lock()
		for _, key := range keys {
			if list := f.items[key]; len(list) > 0 {
				f.items[key] = list[1:]
				f.mu.Unlock()
				return redis.NewStringSliceResult([]string{key, list[0]}, nil)
			}
		}
		notify := f.notify
		f.mu.Unlock()

		select {
		case <-notify:
		case <-deadline:
			return redis.NewStringSliceResult(nil, redis.Nil)
		case <-ctx.Done():
			return redis.NewStringSliceResult(nil, ctx.Err())
		}
	}
}

func (f *fakeList) snapshot(key string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.items[key]...)
}

func (f *fakeList) failPushes(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pushErr = err
}
