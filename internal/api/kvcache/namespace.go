package kvcache

import (
	"context"
	"log/slog"
)

// Namespace scopes a Store under a versioned key prefix. Every operation is
// best-effort: store failures are logged and read as a miss or a no-op.
// Bumping the prefix is the only way to invalidate old entries.
type Namespace struct {
	store  Store
	prefix string
	logger *slog.Logger
}

func NewNamespace(store Store, prefix string, logger *slog.Logger) *Namespace {
	if logger == nil {
		logger = slog.Default()
	}
	return &Namespace{store: store, prefix: prefix, logger: logger}
}

func (n *Namespace) Key(id string) string {
	return n.prefix + id
}

func (n *Namespace) Prefix() string {
	return n.prefix
}

func (n *Namespace) Get(ctx context.Context, id string) (string, bool) {
	if n == nil || n.store == nil {
		return "", false
	}
	key := n.Key(id)
	v, found, err := n.store.Get(ctx, key)
	if err != nil {
		n.logger.WarnContext(ctx, "Cache read failed, treating as miss", slog.String("key", key), slog.Any("error", err))
		return "", false
	}
	return v, found
}

func (n *Namespace) Set(ctx context.Context, id, value string) {
	if n == nil || n.store == nil {
		return
	}
	key := n.Key(id)
	if err := n.store.Set(ctx, key, value); err != nil {
		n.logger.WarnContext(ctx, "Cache write failed", slog.String("key", key), slog.Any("error", err))
	}
}

func (n *Namespace) Delete(ctx context.Context, id string) {
	if n == nil || n.store == nil {
		return
	}
	key := n.Key(id)
	if err := n.store.Delete(ctx, key); err != nil {
		n.logger.WarnContext(ctx, "Cache delete failed", slog.String("key", key), slog.Any("error", err))
	}
}
