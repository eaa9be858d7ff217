// Package seqstore allocates sentence sequence identifiers from Redis so
// several encoder processes feeding the same transponder never reuse an
// identifier that is still in flight.
package seqstore

import (
	"context"
	"fmt"
	"log"

	"github.com/go-redis/redis/v8"
)

// DefaultPrefix is prepended to the channel to form the counter key.
const DefaultPrefix = "aisasm:seq:"

// Redis is a sentence.SequenceSource backed by INCR on one key per
// channel. Identifiers cycle 1..9.
type Redis struct {
	Client *redis.Client
	Prefix string
	Debug  bool
}

// New connects to addr and checks the server answers.
func New(ctx context.Context, addr string, db int) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to Redis at %s: %w", addr, err)
	}
	return &Redis{Client: client, Prefix: DefaultPrefix}, nil
}

// Key returns the counter key for channel.
func (r *Redis) Key(channel string) string {
	prefix := r.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if channel == "" {
		channel = "-"
	}
	return prefix + channel
}

// Next returns the next identifier for channel.
func (r *Redis) Next(ctx context.Context, channel string) (int, error) {
	n, err := r.Client.Incr(ctx, r.Key(channel)).Result()
	if err != nil {
		return 0, fmt.Errorf("seqstore incr %s: %w", r.Key(channel), err)
	}
	id := Cycle(n)
	if r.Debug {
		log.Printf("[DEBUG] seqstore %s -> %d (counter %d)", r.Key(channel), id, n)
	}
	return id, nil
}

// Close releases the client.
func (r *Redis) Close() error {
	return r.Client.Close()
}

// Cycle maps a monotonically increasing counter onto 1..9.
func Cycle(n int64) int {
	if n <= 0 {
		return 1
	}
	return int((n-1)%9) + 1
}
