// Package autocomplete turns a partial address into a short list of
// normalized property suggestions.
package autocomplete

import (
	"context"
	"unicode/utf8"

	"github.com/nekruzvatanshoev/addrsuggest/pkg/addrsuggest/cache"
	"github.com/nekruzvatanshoev/addrsuggest/pkg/addrsuggest/dal"
	"github.com/nekruzvatanshoev/addrsuggest/pkg/addrsuggest/logger"
)

const (
	// MinQueryLength is the shortest query sent upstream.
	MinQueryLength = 2
	// MaxSuggestions caps the response.
	MaxSuggestions = 8
)

// Lookup is the dataset API.
type Lookup interface {
	Primary(ctx context.Context, query string) ([]dal.Record, error)
	Fallback(ctx context.Context, query string) ([]dal.Record, error)
}

// Service answers autocomplete queries.
type Service struct {
	lookup Lookup
	cache  cache.Cache
	log    *logger.Logger
}

// NewService wires a lookup and an optional cache. A nil cache disables caching.
func NewService(lookup Lookup, c cache.Cache, log *logger.Logger) *Service {
	if c == nil {
		c = cache.Nop{}
	}
	return &Service{lookup: lookup, cache: c, log: log}
}

// Suggest never fails: lookup errors are logged and yield an empty list.
func (s *Service) Suggest(ctx context.Context, query string) []dal.Suggestion {
	if utf8.RuneCountInString(query) < MinQueryLength {
		return []dal.Suggestion{}
	}

	records, err := s.records(ctx, query)
	if err != nil {
		s.log.WithContext(ctx).Error("autocomplete lookup failed", "query", query, "error", err)
		return []dal.Suggestion{}
	}

	return Build(records)
}

// records tries the address match first and only falls back to full-text
// search when it comes back empty.
func (s *Service) records(ctx context.Context, query string) ([]dal.Record, error) {
	records, ok := s.cache.Get(ctx, query)
	if !ok {
		var err error
		records, err = s.lookup.Primary(ctx, query)
		if err != nil {
			return nil, err
		}
		if len(records) > 0 {
			s.cache.Set(ctx, query, records)
		}
	}

	if len(records) > 0 {
		return records, nil
	}

	s.log.WithContext(ctx).Debug("primary lookup empty, using full-text search", "query", query)
	return s.lookup.Fallback(ctx, query)
}

// Build filters, normalizes, deduplicates by address and truncates rows.
func Build(records []dal.Record) []dal.Suggestion {
	suggestions := make([]dal.Suggestion, 0, MaxSuggestions)
	seen := make(map[string]struct{}, len(records))

	for _, record := range records {
		if len(suggestions) == MaxSuggestions {
			break
		}

		address := record.Address.String()
		if address == "" || record.BBL == "" {
			continue
		}

		bbl := dal.PadBBL(record.BBL.String())
		if len(bbl) != dal.BBLLength {
			continue
		}

		if _, ok := seen[address]; ok {
			continue
		}
		seen[address] = struct{}{}

		zipcode := record.Zipcode.String()
		suggestions = append(suggestions, dal.Suggestion{
			BBL:          bbl,
			Address:      address,
			Borough:      dal.BoroughName(record.Borough.String()),
			Zipcode:      zipcode,
			Neighborhood: dal.Neighborhood(zipcode),
			Units:        dal.Units(record.UnitsRes.String()),
		})
	}

	return suggestions
}
