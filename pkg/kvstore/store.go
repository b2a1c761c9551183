// Package kvstore holds short-lived values that expire on their own, such as OTP secrets.
package kvstore

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable wraps every failure to reach the backing store.
var ErrUnavailable = errors.New("kv store unavailable")

type Store interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Get reports found=false for missing or expired keys; err is reserved for store failures.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Delete(ctx context.Context, key string) error
	// DeleteIfEqual removes key only while it still holds value, as one atomic step.
	DeleteIfEqual(ctx context.Context, key, value string) (bool, error)
	Close() error
}
