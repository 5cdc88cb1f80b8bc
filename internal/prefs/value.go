package prefs

import (
	"context"
	"log/slog"
	"sync"
)

// Codec converts a preference to and from its stored string form.
type Codec[T any] struct {
	// Decode parses a stored string. ok=false falls back to the default.
	Decode func(s string) (v T, ok bool)
	// Encode renders v for storage. ok=false removes the key instead.
	Encode func(v T) (s string, ok bool)
}

type listener[T any] struct {
	id int
	fn func(T)
}

// Value is one persisted preference with an in-memory cache and a list of
// subscribers.
//
// The cached value is authoritative for the running process. It is loaded
// from the KV on first use; afterwards reads never touch storage. Set
// persists on a best-effort basis: a failed write is logged and the new
// value is kept and published anyway.
//
// Listeners run synchronously on the caller's goroutine, in registration
// order, outside the internal lock, so a listener may call Get or Set.
type Value[T any] struct {
	kv     KV
	key    string
	def    T
	codec  Codec[T]
	logger *slog.Logger

	mu        sync.Mutex
	loaded    bool
	current   T
	nextID    int
	listeners []listener[T]
}

// NewValue returns a Value stored under key, reading def until something
// else is loaded or set.
func NewValue[T any](kv KV, key string, def T, codec Codec[T], logger *slog.Logger) *Value[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Value[T]{
		kv:      kv,
		key:     key,
		def:     def,
		codec:   codec,
		logger:  logger,
		current: def,
	}
}

// Key returns the storage key.
func (v *Value[T]) Key() string {
	return v.key
}

// Get returns the cached value, loading it on first use. Storage errors and
// undecodable values yield the default.
func (v *Value[T]) Get(ctx context.Context) T {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.loadLocked(ctx)
	return v.current
}

// Set caches val, persists it, then notifies every subscriber with val.
func (v *Value[T]) Set(ctx context.Context, val T) {
	v.mu.Lock()
	v.loaded = true
	v.current = val
	fns := v.snapshotLocked()
	v.mu.Unlock()

	v.persist(ctx, val)

	for _, fn := range fns {
		fn(val)
	}
}

// Subscribe registers fn and calls it immediately with the current value.
// fn is called again after every Set until the returned function is called.
func (v *Value[T]) Subscribe(ctx context.Context, fn func(T)) (unsubscribe func()) {
	v.mu.Lock()
	v.loadLocked(ctx)
	id := v.nextID
	v.nextID++
	v.listeners = append(v.listeners, listener[T]{id: id, fn: fn})
	cur := v.current
	v.mu.Unlock()

	fn(cur)

	var once sync.Once
	return func() {
		once.Do(func() {
			v.mu.Lock()
			defer v.mu.Unlock()
			for i, l := range v.listeners {
				if l.id == id {
					v.listeners = append(v.listeners[:i:i], v.listeners[i+1:]...)
					break
				}
			}
		})
	}
}

func (v *Value[T]) loadLocked(ctx context.Context) {
	if v.loaded {
		return
	}
	v.loaded = true

	s, ok, err := v.kv.Get(ctx, v.key)
	if err != nil {
		v.logger.Warn("preference load failed, using default", "key", v.key, "error", err)
		return
	}
	if !ok {
		return
	}
	val, ok := v.codec.Decode(s)
	if !ok {
		v.logger.Warn("preference value unreadable, using default", "key", v.key, "value", s)
		return
	}
	v.current = val
}

func (v *Value[T]) snapshotLocked() []func(T) {
	fns := make([]func(T), len(v.listeners))
	for i, l := range v.listeners {
		fns[i] = l.fn
	}
	return fns
}

func (v *Value[T]) persist(ctx context.Context, val T) {
	s, ok := v.codec.Encode(val)
	var err error
	if ok {
		err = v.kv.Set(ctx, v.key, s)
	} else {
		err = v.kv.Delete(ctx, v.key)
	}
	if err != nil {
		v.logger.Warn("preference not persisted", "key", v.key, "error", err)
	}
}
