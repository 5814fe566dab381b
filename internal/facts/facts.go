// Package facts supplies short educational facts about the birds in the game.
package facts

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/Garsondee/Bird-Sense/internal/logging"
)

// ErrEmptyFact is returned when a source answers with no usable text.
var ErrEmptyFact = errors.New("facts: empty response")

// Source produces a fact about a bird.
type Source interface {
	Fact(ctx context.Context, birdName string) (string, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, birdName string) (string, error)

func (f SourceFunc) Fact(ctx context.Context, birdName string) (string, error) {
	return f(ctx, birdName)
}

// Fallback texts used when a source fails or returns nothing.
const (
	FallbackFailure = "Keeping glass clean and adding bird-safe window markers saves countless lives."
	FallbackEmpty   = "Protecting migrating birds is everyone's job."
)

var staticFacts = []string{
	"Most window strikes happen below the fourth floor, where glass reflects trees and sky.",
	"Night migrants navigate by the stars; a single floodlit tower can pull in whole flocks.",
	"Markers spaced no more than 5 cm apart vertically and 10 cm horizontally stop most collisions.",
	"Power lines are hardest to see at dusk; bright spiral markers cut collisions sharply.",
	"Discarded kite string tangles wings and legs long after the kite is gone.",
	"Turning off decorative lighting during peak migration nights is one of the cheapest fixes a city has.",
}

// StaticSource rotates through a fixed list of facts. It never fails.
type StaticSource struct {
	mu   sync.Mutex
	next int
}

// Fact returns the next canned fact, prefixed with the bird name.
func (s *StaticSource) Fact(_ context.Context, birdName string) (string, error) {
	s.mu.Lock()
	fact := staticFacts[s.next%len(staticFacts)]
	s.next++
	s.mu.Unlock()
	if birdName == "" {
		return fact, nil
	}
	return birdName + ": " + fact, nil
}

// Fetcher wraps a Source so callers always get displayable text.
type Fetcher struct {
	src     Source
	log     logging.Logger
	timeout time.Duration
}

// NewFetcher wraps src. A nil src falls back to a StaticSource.
func NewFetcher(src Source, log logging.Logger, timeout time.Duration) *Fetcher {
	if src == nil {
		src = &StaticSource{}
	}
	if log == nil {
		log = logging.Noop()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Fetcher{src: src, log: log, timeout: timeout}
}

// Fetch asks the source for a fact and substitutes fallback text on any
// failure. It never returns an empty string.
func (f *Fetcher) Fetch(ctx context.Context, birdName string) string {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	fact, err := f.src.Fact(ctx, birdName)
	if err != nil {
		if errors.Is(err, ErrEmptyFact) {
			return FallbackEmpty
		}
		f.log.Warn(ctx, "bird fact unavailable", logging.String("bird", birdName), logging.Err(err))
		return FallbackFailure
	}
	fact = strings.TrimSpace(fact)
	if fact == "" {
		return FallbackEmpty
	}
	return fact
}

// FetchAsync runs Fetch on its own goroutine and delivers the result on the
// returned channel, which receives exactly one value.
func (f *Fetcher) FetchAsync(ctx context.Context, birdName string) <-chan string {
	out := make(chan string, 1)
	go func() {
		out <- f.Fetch(ctx, birdName)
	}()
	return out
}
