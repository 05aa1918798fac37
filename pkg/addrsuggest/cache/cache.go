// Package cache holds primary lookup results for a short time so repeated
// keystrokes do not hit the dataset again.
package cache

import (
	"context"
	"strings"
	"time"

	"github.com/nekruzvatanshoev/addrsuggest/pkg/addrsuggest/dal"
)

// DefaultTTL is how long a primary lookup may be reused.
const DefaultTTL = 60 * time.Second

const keyPrefix = "addrsuggest:primary:"

// Cache stores primary lookup rows by query. Failures are misses.
type Cache interface {
	Get(ctx context.Context, query string) ([]dal.Record, bool)
	Set(ctx context.Context, query string, records []dal.Record)
}

// Key is case-insensitive because the primary lookup uppercases the query.
func Key(query string) string {
	return keyPrefix + strings.ToUpper(query)
}

// Nop never hits.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]dal.Record, bool) { return nil, false }

func (Nop) Set(context.Context, string, []dal.Record) {}
