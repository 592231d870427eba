package taxonomy

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

const DefaultSummaryTTL = 5 * time.Minute

// Summarizer renders a condensed digest of the type tree for classifier
// prompts: every domain with its type-child count, every type with its
// category-child count, every category with its subcategory-child count.
// Individual subcategories are not listed, which keeps the digest bounded.
//
// The digest is held in a single read-through cache slot with a TTL. Tree
// reloads do not invalidate the slot by themselves; callers that swap the
// tree should call Invalidate. Staleness within one TTL window is accepted.
type Summarizer struct {
	tree func() *Tree
	ttl  time.Duration
	now  func() time.Time

	mu      sync.Mutex
	cached  string
	builtAt time.Time
}

// NewSummarizer builds a Summarizer over the tree returned by treeFn. A
// non-positive ttl falls back to DefaultSummaryTTL; a nil clock falls back
// to time.Now.
func NewSummarizer(treeFn func() *Tree, ttl time.Duration, now func() time.Time) *Summarizer {
	if ttl <= 0 {
		ttl = DefaultSummaryTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Summarizer{tree: treeFn, ttl: ttl, now: now}
}

// Summary returns the cached digest when it is younger than the TTL and
// rebuilds it from the live tree otherwise.
func (s *Summarizer) Summary() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cached != "" && s.now().Sub(s.builtAt) < s.ttl {
		return s.cached
	}
	s.cached = renderDigest(s.tree())
	s.builtAt = s.now()
	return s.cached
}

// Invalidate drops the cached digest so the next Summary call rebuilds.
func (s *Summarizer) Invalidate() {
	s.mu.Lock()
	s.cached = ""
	s.builtAt = time.Time{}
	s.mu.Unlock()
}

func renderDigest(t *Tree) string {
	if t == nil || t.Len() == 0 {
		return "(empty hierarchy)\n"
	}
	var b strings.Builder
	for _, domain := range t.Roots() {
		types := t.Children(domain.ID)
		fmt.Fprintf(&b, "%s (%d types)\n", domain.Name, len(types))
		for _, typ := range types {
			categories := t.Children(typ.ID)
			fmt.Fprintf(&b, "  %s (%d categories)\n", typ.Name, len(categories))
			for _, cat := range categories {
				fmt.Fprintf(&b, "    %s (%d subcategories)\n", cat.Name, len(t.Children(cat.ID)))
			}
		}
	}
	return b.String()
}
