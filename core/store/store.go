// Package store keeps analysis results between the analyze and render
// requests. A result is addressed by its ID and expires after a TTL; an
// unknown or expired ID reports core.ErrMissingSections.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gaurav-prasanna/termscan/core/pipeline"
)

// DefaultTTL is how long a result stays retrievable.
const DefaultTTL = 30 * time.Minute

// Store persists pipeline results by ID.
type Store interface {
	Put(ctx context.Context, res *pipeline.Result) error
	Get(ctx context.Context, id string) (*pipeline.Result, error)
	Delete(ctx context.Context, id string) error
}

// Key generates the namespaced key for a result ID.
func Key(id string) string {
	return "termscan:v1:result:" + id
}

func encode(res *pipeline.Result) ([]byte, error) {
	data, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("encoding result %s: %w", res.ID, err)
	}
	return data, nil
}

func decode(id string, data []byte) (*pipeline.Result, error) {
	var res pipeline.Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("decoding result %s: %w", id, err)
	}
	return &res, nil
}
