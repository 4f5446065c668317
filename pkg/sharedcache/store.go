// Package sharedcache is the distributed key/value store every worker of a validation report shares.
//
// Values are plain strings; typed values are serialised by their owners. Scalar keys, hashes and sets
// all carry a TTL so that state of a report whose cleanup never runs eventually expires.
package sharedcache

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("key not found in shared cache")

type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key string, value string, ttl time.Duration) error

	// Merge writes every field of values into the hash at key. Existing fields not named in values are
	// kept; fields named in values are overwritten (last write wins per field).
	Merge(ctx context.Context, key string, values map[string]string, ttl time.Duration) error
	HashGet(ctx context.Context, key string, field string) (string, error)
	// HashGetAll returns ErrNotFound when the hash does not exist
	HashGetAll(ctx context.Context, key string) (map[string]string, error)

	SetAdd(ctx context.Context, key string, members []string, ttl time.Duration) error
	SetMembers(ctx context.Context, key string) ([]string, error)
	SetIntersect(ctx context.Context, keys ...string) ([]string, error)

	// Apply performs every write or none of them
	Apply(ctx context.Context, writes []Write, ttl time.Duration) error

	Exists(ctx context.Context, key string) (bool, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// DeletePrefix removes every key starting with prefix
	DeletePrefix(ctx context.Context, prefix string) error
}

type writeKind int

const (
	setWrite writeKind = iota
	valueWrite
)

// Write is one change applied by Store.Apply
type Write struct {
	kind    writeKind
	key     string
	members []string
	value   string
}

// SetWrite adds members to the set at key. Without members it changes nothing.
func SetWrite(key string, members []string) Write {
	return Write{kind: setWrite, key: key, members: members}
}

// ValueWrite stores value at key
func ValueWrite(key string, value string) Write {
	return Write{kind: valueWrite, key: key, value: value}
}
