package taxonomy

import (
	"strings"
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestSummaryDigestShape(t *testing.T) {
	tree := newHeatingFixture().build(t)
	s := NewSummarizer(func() *Tree { return tree }, 0, nil)

	digest := s.Summary()
	for _, want := range []string{
		"HEATING (2 types)",
		"  Boiler (2 categories)",
		"    Gas Boiler (2 subcategories)",
		"    Oil Boiler (1 subcategories)",
		"ELEVATORS (1 types)",
	} {
		if !strings.Contains(digest, want) {
			t.Fatalf("digest missing %q:\n%s", want, digest)
		}
	}
	// Subcategories are counted, never listed.
	if strings.Contains(digest, "Wall-mounted") {
		t.Fatalf("digest lists individual subcategories:\n%s", digest)
	}
}

func TestSummaryCacheWithinTTL(t *testing.T) {
	tree := newHeatingFixture().build(t)
	clock := &fakeClock{t: time.Unix(1700000000, 0)}

	builds := 0
	s := NewSummarizer(func() *Tree { builds++; return tree }, 5*time.Minute, clock.now)

	first := s.Summary()
	clock.advance(4 * time.Minute)
	second := s.Summary()
	if builds != 1 {
		t.Fatalf("tree read %d times within TTL, want 1", builds)
	}
	if first != second {
		t.Fatalf("cached digest changed within TTL")
	}
}

func TestSummaryRebuildsAfterTTL(t *testing.T) {
	tree := newHeatingFixture().build(t)
	clock := &fakeClock{t: time.Unix(1700000000, 0)}

	builds := 0
	s := NewSummarizer(func() *Tree { builds++; return tree }, 5*time.Minute, clock.now)

	s.Summary()
	clock.advance(5*time.Minute + time.Second)
	s.Summary()
	if builds != 2 {
		t.Fatalf("tree read %d times across TTL boundary, want 2", builds)
	}
}

func TestSummaryStaleUntilTTLOrInvalidate(t *testing.T) {
	b := newHeatingFixture()
	tree := b.build(t)
	clock := &fakeClock{t: time.Unix(1700000000, 0)}

	current := tree
	s := NewSummarizer(func() *Tree { return current }, 5*time.Minute, clock.now)

	before := s.Summary()

	// Swap the tree without invalidating: reads inside the TTL stay stale.
	current = b.add("COOLING", LevelDomain, "").build(t)
	clock.advance(time.Minute)
	if got := s.Summary(); got != before {
		t.Fatalf("digest rebuilt within TTL without invalidation")
	}

	s.Invalidate()
	after := s.Summary()
	if !strings.Contains(after, "COOLING") {
		t.Fatalf("digest missing new domain after Invalidate:\n%s", after)
	}
}

func TestSummaryEmptyTree(t *testing.T) {
	empty, err := NewTree(nil)
	if err != nil {
		t.Fatalf("NewTree(nil): %v", err)
	}
	s := NewSummarizer(func() *Tree { return empty }, 0, nil)
	if got := s.Summary(); !strings.Contains(got, "empty") {
		t.Fatalf("empty-tree digest = %q", got)
	}
}
