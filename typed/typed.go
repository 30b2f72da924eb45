// Package typed layers a structured-value cache over the string-keyed core
// by composition: a codec turns values into bytes, the bytes are framed as
// base64 so the shared JSON document stays valid UTF-8, and everything else
// delegates verbatim to the core.
package typed

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/unkn0wn-root/filecache"
	"github.com/unkn0wn-root/filecache/codec"
)

// Cache stores values of type V in a filecache.Cache.
type Cache[V any] struct {
	core  filecache.Cache
	codec codec.Codec[V]
}

func New[V any](core filecache.Cache, c codec.Codec[V]) (*Cache[V], error) {
	if core == nil {
		return nil, fmt.Errorf("typed: core cache is required")
	}
	if c == nil {
		return nil, fmt.Errorf("typed: codec is required")
	}
	return &Cache[V]{core: core, codec: c}, nil
}

func (t *Cache[V]) Set(ctx context.Context, key string, v V, exp filecache.Expiry) error {
	b, err := t.codec.Encode(v)
	if err != nil {
		return fmt.Errorf("typed: encode %q: %w", key, err)
	}
	return t.core.Set(ctx, key, base64.StdEncoding.EncodeToString(b), exp)
}

func (t *Cache[V]) Get(ctx context.Context, key string) (V, bool, error) {
	var zero V
	s, ok, err := t.core.Get(ctx, key)
	if err != nil || !ok {
		return zero, false, err
	}
	v, err := t.decode(key, s)
	if err != nil {
		return zero, false, err
	}
	return v, true, nil
}

func (t *Cache[V]) GetAll(ctx context.Context) (map[string]V, error) {
	raw, err := t.core.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]V, len(raw))
	for k, s := range raw {
		v, err := t.decode(k, s)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

func (t *Cache[V]) Remove(ctx context.Context, key string) error {
	return t.core.Remove(ctx, key)
}

func (t *Cache[V]) Reset(ctx context.Context) error {
	return t.core.Reset(ctx)
}

func (t *Cache[V]) decode(key, s string) (V, error) {
	var zero V
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return zero, fmt.Errorf("typed: unframe %q: %w", key, err)
	}
	v, err := t.codec.Decode(b)
	if err != nil {
		return zero, fmt.Errorf("typed: decode %q: %w", key, err)
	}
	return v, nil
}
