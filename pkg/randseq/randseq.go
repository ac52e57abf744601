// Package randseq generates integer sequences used to feed the tree and the
// sort routines.
package randseq

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
)

// Defaults match the historical generator.
const (
	DefaultMin = 0
	DefaultMax = 100
)

// Sentinel errors.
var (
	ErrNegativeLength = errors.New("negative sequence length")
	ErrInvalidRange   = errors.New("invalid value range")
	ErrUnknownPattern = errors.New("unknown sequence pattern")
)

// Pattern controls the order of the generated values.
type Pattern string

// Supported patterns.
const (
	PatternRandom     Pattern = "random"
	PatternAscending  Pattern = "ascending"
	PatternDescending Pattern = "descending"
)

// Patterns lists every supported pattern.
func Patterns() []Pattern {
	return []Pattern{PatternRandom, PatternAscending, PatternDescending}
}

// ParsePattern converts a name into a Pattern.
func ParsePattern(name string) (Pattern, error) {
	pattern := Pattern(name)
	if !slices.Contains(Patterns(), pattern) {
		return "", fmt.Errorf("%w: %q", ErrUnknownPattern, name)
	}

	return pattern, nil
}

// Option configures Generate.
type Option func(g *generator)

type generator struct {
	low, high int
	seed      uint64
	pattern   Pattern
}

// WithRange sets the inclusive bounds of the generated values.
func WithRange(low, high int) Option {
	return func(g *generator) {
		g.low, g.high = low, high
	}
}

// WithSeed makes the output deterministic. Zero picks a random seed.
func WithSeed(seed uint64) Option {
	return func(g *generator) {
		g.seed = seed
	}
}

// WithPattern sets the order of the values.
func WithPattern(pattern Pattern) Option {
	return func(g *generator) {
		g.pattern = pattern
	}
}

// Generate returns n values drawn uniformly from the configured range.
func Generate(n int, opts ...Option) ([]int, error) {
	g := generator{low: DefaultMin, high: DefaultMax, pattern: PatternRandom}
	for _, opt := range opts {
		opt(&g)
	}

	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeLength, n)
	}

	if g.low > g.high {
		return nil, fmt.Errorf("%w: min %d is greater than max %d", ErrInvalidRange, g.low, g.high)
	}

	if !slices.Contains(Patterns(), g.pattern) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPattern, g.pattern)
	}

	seed := g.seed
	if seed == 0 {
		seed = rand.Uint64() //nolint:gosec // not used for security.
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) //nolint:gosec // not used for security.

	// Modular arithmetic keeps the span correct even for the full int range,
	// where it wraps to zero.
	span := uint64(g.high) - uint64(g.low) + 1 //nolint:gosec // wrapping is intended.

	values := make([]int, n)

	for i := range values {
		var offset uint64
		if span == 0 {
			offset = rng.Uint64()
		} else {
			offset = rng.Uint64N(span)
		}

		values[i] = g.low + int(offset) //nolint:gosec // wraps back into [low, high].
	}

	switch g.pattern {
	case PatternAscending:
		slices.Sort(values)
	case PatternDescending:
		slices.Sort(values)
		slices.Reverse(values)
	case PatternRandom:
	}

	return values, nil
}
