package invoice

import (
	"fmt"
	"math/rand"
	"time"
)

// DefaultPrefix is the invoice number prefix used when none is configured.
const DefaultPrefix = "EL"

// NumberGenerator produces PREFIX-YYYYMM-RRRR identifiers where RRRR is
// uniform in 1000-9999. Numbers are neither persisted nor checked, so two
// invoices in the same month can collide.
type NumberGenerator struct {
	prefix string
	now    func() time.Time
	intn   func(n int) int
}

// NewNumberGenerator returns a generator using the wall clock and math/rand.
func NewNumberGenerator(prefix string) *NumberGenerator {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &NumberGenerator{
		prefix: prefix,
		now:    time.Now,
		intn:   rand.Intn,
	}
}

// WithClock replaces the time source.
func (g *NumberGenerator) WithClock(now func() time.Time) *NumberGenerator {
	g.now = now
	return g
}

// WithRand replaces the random source; intn must return a value in [0, n).
func (g *NumberGenerator) WithRand(intn func(n int) int) *NumberGenerator {
	g.intn = intn
	return g
}

// Next returns a new invoice number.
func (g *NumberGenerator) Next() string {
	now := g.now()
	return fmt.Sprintf("%s-%04d%02d-%d", g.prefix, now.Year(), int(now.Month()), 1000+g.intn(9000))
}
