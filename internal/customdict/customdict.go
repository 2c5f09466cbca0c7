package customdict

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// DefaultKey is the Redis hash holding the entries.
const DefaultKey = "custom_corrections"

// ErrEmpty reports a missing word or an empty alternative list.
var ErrEmpty = errors.New("word and alternatives are required")

// CustomDict wraps a Redis client to store user-added corrections: each hash
// field is a word, each value the JSON list of its alternatives.
type CustomDict struct {
	client *redis.Client
	key    string
}

// New creates a new CustomDict with the provided Redis client. An empty key
// selects DefaultKey.
func New(client *redis.Client, key string) *CustomDict {
	if key == "" {
		key = DefaultKey
	}
	return &CustomDict{client: client, key: key}
}

// Ping checks the connection.
func (cd *CustomDict) Ping(ctx context.Context) error {
	return cd.client.Ping(ctx).Err()
}

// Put stores the alternatives for word, replacing earlier ones.
func (cd *CustomDict) Put(ctx context.Context, word string, alternatives []string) error {
	value, err := encode(word, alternatives)
	if err != nil {
		return err
	}
	return cd.client.HSet(ctx, cd.key, word, value).Err()
}

// Remove deletes a word. Removing an unknown word is not an error.
func (cd *CustomDict) Remove(ctx context.Context, word string) error {
	return cd.client.HDel(ctx, cd.key, word).Err()
}

// Get returns the alternatives stored for word, or nil.
func (cd *CustomDict) Get(ctx context.Context, word string) ([]string, error) {
	value, err := cd.client.HGet(ctx, cd.key, word).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decode(word, value)
}

// All returns every stored entry.
func (cd *CustomDict) All(ctx context.Context) (map[string][]string, error) {
	raw, err := cd.client.HGetAll(ctx, cd.key).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[string][]string, len(raw))
	for word, value := range raw {
		alts, err := decode(word, value)
		if err != nil {
			return nil, err
		}
		out[word] = alts
	}
	return out, nil
}

func encode(word string, alternatives []string) (string, error) {
	if strings.TrimSpace(word) == "" {
		return "", ErrEmpty
	}
	clean := make([]string, 0, len(alternatives))
	for _, a := range alternatives {
		if a = strings.TrimSpace(a); a != "" {
			clean = append(clean, a)
		}
	}
	if len(clean) == 0 {
		return "", ErrEmpty
	}
	b, err := json.Marshal(clean)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decode(word, value string) ([]string, error) {
	var alts []string
	if err := json.Unmarshal([]byte(value), &alts); err != nil {
		return nil, fmt.Errorf("entry %q: %w", word, err)
	}
	return alts, nil
}
