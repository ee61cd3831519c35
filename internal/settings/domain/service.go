package domain

import (
	"context"
	"encoding/json"
	"errors"
)

var (
	ErrEmptyKey    = errors.New("settings: empty key")
	ErrKeyTooLong  = errors.New("settings: key exceeds limit")
	ErrValueTooBig = errors.New("settings: value exceeds limit")
)

const (
	MaxKeyLen   = 128
	MaxValueLen = 64 << 10
)

// ProjectCounterKey holds the sequence number used when a project is
// created without a caller-assigned id.
const ProjectCounterKey = "projectIdCounter"

type Service interface {
	// Get returns the whole settings bag as a key to raw JSON map.
	Get(ctx context.Context) (map[string]json.RawMessage, error)

	// Upsert merges the given keys into the bag. Keys absent from the
	// request are left untouched.
	Upsert(ctx context.Context, values map[string]json.RawMessage) (map[string]json.RawMessage, error)

	// NextProjectID increments the project counter and returns a
	// formatted identifier such as "P-0001".
	NextProjectID(ctx context.Context) (string, error)
}
