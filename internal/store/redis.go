package store

import (
	"context"
	"errors"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// changeChannel is the Pub/Sub channel carrying key-change signals between
// processes.  The message body is the key name only; consumers re-read the
// key rather than trusting a payload, the same contract browsers give the
// cross-tab storage event.
const changeChannel = "cottage.store.changed"

// keyPrefix namespaces all store keys inside Redis.
const keyPrefix = "cottage:"

// Redis is a Store backed by a Redis server.  Values are plain JSON blobs
// written with SET (last writer wins, no TTL).  Each Set publishes the key
// name on changeChannel so that other processes holding a subscription
// re-pull the affected key.
type Redis struct {
	client *redis.Client

	subMu   sync.Mutex
	subs    map[string]map[int]func(string)
	next    int
	started bool
	cancel  context.CancelFunc
}

// NewRedis wraps an already-connected client.  The client must not be nil.
func NewRedis(client *redis.Client) *Redis {
	if client == nil {
		panic("nil redis client passed to store.NewRedis")
	}
	return &Redis{
		client: client,
		subs:   make(map[string]map[int]func(string)),
	}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := r.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, keyPrefix+key, value, 0).Err(); err != nil {
		return err
	}
	// Best effort: a lost signal only delays observers until their next
	// read, it never corrupts state.
	if err := r.client.Publish(ctx, changeChannel, key).Err(); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("store: change signal publish failed")
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return err
	}
	if err := r.client.Publish(ctx, changeChannel, key).Err(); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("store: change signal publish failed")
	}
	return nil
}

// Subscribe registers fn for changes of key.  The first subscription
// starts a background Pub/Sub listener; callbacks fire for signals
// published by this or any other process.
func (r *Redis) Subscribe(key string, fn func(string)) func() {
	r.subMu.Lock()
	defer r.subMu.Unlock()
	if !r.started {
		ctx, cancel := context.WithCancel(context.Background())
		r.cancel = cancel
		go r.listen(ctx)
		r.started = true
	}
	if r.subs[key] == nil {
		r.subs[key] = make(map[int]func(string))
	}
	id := r.next
	r.next++
	r.subs[key][id] = fn
	return func() {
		r.subMu.Lock()
		defer r.subMu.Unlock()
		delete(r.subs[key], id)
	}
}

// Close stops the background listener, if one was started.
func (r *Redis) Close() {
	r.subMu.Lock()
	defer r.subMu.Unlock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
		r.started = false
	}
}

func (r *Redis) listen(ctx context.Context) {
	sub := r.client.Subscribe(ctx, changeChannel)
	defer func() { _ = sub.Close() }()
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			r.dispatch(msg.Payload)
		}
	}
}

func (r *Redis) dispatch(key string) {
	r.subMu.Lock()
	fns := make([]func(string), 0, len(r.subs[key]))
	for _, fn := range r.subs[key] {
		fns = append(fns, fn)
	}
	r.subMu.Unlock()
	for _, fn := range fns {
		fn(key)
	}
}
