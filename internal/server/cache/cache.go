// Package cache provides the shared byte-oriented cache contract used by the
// read-through paths, with redis and in-memory drivers. Entries carry a dual
// expiration policy: an absolute deadline fixed at write time and a sliding
// window re-armed on every read. The entry is gone at whichever bound is
// reached first.
package cache

import (
	"context"
	"encoding/json"
	"time"
)

// EntryOptions describes the expiration policy of one entry.
type EntryOptions struct {
	// Absolute is the hard lifetime from write time, independent of access.
	Absolute time.Duration
	// Sliding is the idle lifetime since the most recent read.
	Sliding time.Duration
}

// Store is the cache contract. Get reports a miss as (nil, false, nil);
// errors are reserved for transport failures.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, opts EntryOptions) error
	Delete(ctx context.Context, key string) error
}

// envelope is the stored representation: the payload together with the
// expiration metadata needed to enforce the dual policy on read.
type envelope struct {
	Payload  []byte        `json:"payload"`
	Deadline time.Time     `json:"deadline"`
	Sliding  time.Duration `json:"sliding"`
}

func encodeEnvelope(value []byte, deadline time.Time, sliding time.Duration) ([]byte, error) {
	return json.Marshal(envelope{Payload: value, Deadline: deadline, Sliding: sliding})
}

func decodeEnvelope(data []byte) (envelope, error) {
	var e envelope
	err := json.Unmarshal(data, &e)
	return e, err
}

// entryTTL picks the next expiry the backing store should enforce: the
// sliding window, capped by the time left until the absolute deadline.
func entryTTL(now, deadline time.Time, sliding time.Duration) time.Duration {
	untilDeadline := deadline.Sub(now)
	if sliding <= 0 || sliding > untilDeadline {
		return untilDeadline
	}
	return sliding
}
