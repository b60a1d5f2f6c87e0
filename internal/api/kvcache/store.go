// Package kvcache provides the string key-value stores the enrichment
// pipeline caches generated data in, plus the versioned, best-effort
// Namespace the pipeline actually talks to.
package kvcache

import "context"

// Store is a durable string store. Get reports found=false for a missing key
// without an error.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
