package meal

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// IDGenerator produces primary keys for new meals.
type IDGenerator interface {
	Generate(now time.Time) string
}

// TimestampIDGenerator builds ids from the epoch-millisecond timestamp
// followed by a random hex suffix, e.g. "1736064000000" + "9f86d081884c".
//
// The random part comes from a v4 UUID, so two ids minted in the same
// millisecond still differ.
//
// Thread-safety: TimestampIDGenerator is stateless and safe for concurrent use.
type TimestampIDGenerator struct{}

// Generate returns a new id for a meal created at now.
func (TimestampIDGenerator) Generate(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strconv.FormatInt(now.UnixMilli(), 10) + suffix[:12]
}

// FixedIDGenerator returns predetermined ids for testing.
//
// Thread-safety: FixedIDGenerator is safe for concurrent use via internal mutex.
type FixedIDGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedIDGenerator creates a generator that returns ids in order.
func NewFixedIDGenerator(ids ...string) *FixedIDGenerator {
	return &FixedIDGenerator{ids: ids}
}

// Generate returns the next predetermined id.
//
// Panics if all ids have been consumed, which means a test created more
// meals than it planned for.
func (g *FixedIDGenerator) Generate(time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.ids) {
		panic("FixedIDGenerator: all ids exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}

// StripSpace removes every whitespace rune from an id.
func StripSpace(id string) string {
	return strings.Join(strings.Fields(id), "")
}
