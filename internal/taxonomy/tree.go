// Package taxonomy implements the equipment-type hierarchy engine: path
// resolution over the 4-level type tree, a TTL-cached hierarchy digest for
// classifier prompts, keyword relevance filtering, strict top-down validation
// of untrusted classifier output, and the cascading selection state machine.
package taxonomy

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("taxonomy: node not found")

type Level int

const (
	LevelDomain Level = iota + 1
	LevelType
	LevelCategory
	LevelSubcategory
)

const MaxDepth = int(LevelSubcategory)

func (l Level) String() string {
	switch l {
	case LevelDomain:
		return "domain"
	case LevelType:
		return "type"
	case LevelCategory:
		return "category"
	case LevelSubcategory:
		return "subcategory"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Node is one immutable taxonomy entry. ParentID is nil iff Level is
// LevelDomain.
type Node struct {
	ID       uuid.UUID
	Name     string
	Level    Level
	ParentID *uuid.UUID
}

// Tree is a flat arena of nodes indexed by id, with a derived ordered
// children index. Built once from a flat record list and never mutated;
// reloading the taxonomy swaps in a whole new Tree.
type Tree struct {
	nodes    map[uuid.UUID]*Node
	children map[uuid.UUID][]uuid.UUID
	roots    []uuid.UUID
	byLevel  map[Level][]uuid.UUID
}

// NewTree indexes the given records and enforces the structural invariants:
// levels are 1..4, a root has no parent, and a level-k node's parent exists
// at level k-1.
func NewTree(records []Node) (*Tree, error) {
	t := &Tree{
		nodes:    make(map[uuid.UUID]*Node, len(records)),
		children: make(map[uuid.UUID][]uuid.UUID),
		byLevel:  make(map[Level][]uuid.UUID),
	}
	for i := range records {
		n := records[i]
		if n.Level < LevelDomain || Level(MaxDepth) < n.Level {
			return nil, fmt.Errorf("taxonomy: node %q has invalid level %d", n.Name, n.Level)
		}
		if (n.ParentID == nil) != (n.Level == LevelDomain) {
			return nil, fmt.Errorf("taxonomy: node %q level %d has inconsistent parent reference", n.Name, n.Level)
		}
		if _, dup := t.nodes[n.ID]; dup {
			return nil, fmt.Errorf("taxonomy: duplicate node id %s", n.ID)
		}
		t.nodes[n.ID] = &n
		t.byLevel[n.Level] = append(t.byLevel[n.Level], n.ID)
		if n.ParentID == nil {
			t.roots = append(t.roots, n.ID)
		} else {
			t.children[*n.ParentID] = append(t.children[*n.ParentID], n.ID)
		}
	}
	for _, n := range t.nodes {
		if n.ParentID == nil {
			continue
		}
		parent, ok := t.nodes[*n.ParentID]
		if !ok {
			return nil, fmt.Errorf("taxonomy: node %q references missing parent %s", n.Name, *n.ParentID)
		}
		if parent.Level != n.Level-1 {
			return nil, fmt.Errorf("taxonomy: node %q at level %d has parent %q at level %d", n.Name, n.Level, parent.Name, parent.Level)
		}
	}
	return t, nil
}

func (t *Tree) Node(id uuid.UUID) (*Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

func (t *Tree) Len() int { return len(t.nodes) }

// Roots returns all domain nodes in insertion order.
func (t *Tree) Roots() []*Node {
	return t.resolveIDs(t.roots)
}

// Children returns the ordered children of id. Unknown ids yield nil.
func (t *Tree) Children(id uuid.UUID) []*Node {
	return t.resolveIDs(t.children[id])
}

// AtLevel returns every node at the given level in insertion order.
func (t *Tree) AtLevel(l Level) []*Node {
	return t.resolveIDs(t.byLevel[l])
}

// All returns every node, shallowest level first.
func (t *Tree) All() []*Node {
	out := make([]*Node, 0, len(t.nodes))
	for l := LevelDomain; int(l) <= MaxDepth; l++ {
		out = append(out, t.resolveIDs(t.byLevel[l])...)
	}
	return out
}

func (t *Tree) resolveIDs(ids []uuid.UUID) []*Node {
	out := make([]*Node, 0, len(ids))
	for _, id := range ids {
		out = append(out, t.nodes[id])
	}
	return out
}

// GetPath walks parent references from id up to its domain root and returns
// the node names ordered domain first, the given node last. The slice length
// always equals the node's level.
func (t *Tree) GetPath(id uuid.UUID) ([]string, error) {
	n, ok := t.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	names := make([]string, n.Level)
	for {
		names[n.Level-1] = n.Name
		if n.ParentID == nil {
			break
		}
		n = t.nodes[*n.ParentID]
	}
	return names, nil
}

// PartialPath is a possibly-incomplete hierarchy path. Empty fields are
// absent.
type PartialPath struct {
	Domain      string `json:"domain,omitempty"`
	Type        string `json:"type,omitempty"`
	Category    string `json:"category,omitempty"`
	Subcategory string `json:"subcategory,omitempty"`
}

func (p PartialPath) at(l Level) string {
	switch l {
	case LevelDomain:
		return p.Domain
	case LevelType:
		return p.Type
	case LevelCategory:
		return p.Category
	case LevelSubcategory:
		return p.Subcategory
	default:
		return ""
	}
}

// DeepestLevel returns the deepest level carrying a value, or 0 when the
// path is empty.
func (p PartialPath) DeepestLevel() Level {
	for l := Level(MaxDepth); l >= LevelDomain; l-- {
		if p.at(l) != "" {
			return l
		}
	}
	return 0
}

// PathFromNames converts an ordered domain-first name slice (as returned by
// GetPath) into a PartialPath.
func PathFromNames(names []string) PartialPath {
	var p PartialPath
	for i, name := range names {
		if i >= MaxDepth {
			break
		}
		switch Level(i + 1) {
		case LevelDomain:
			p.Domain = name
		case LevelType:
			p.Type = name
		case LevelCategory:
			p.Category = name
		case LevelSubcategory:
			p.Subcategory = name
		}
	}
	return p
}

// ResolveIDFromPath resolves a possibly-partial path to the id of a node at
// the deepest supplied level whose ancestor chain matches every shallower
// supplied field. It never falls back to a shallower level on failure; that
// policy belongs to the caller.
func (t *Tree) ResolveIDFromPath(p PartialPath) (uuid.UUID, bool) {
	deepest := p.DeepestLevel()
	if deepest == 0 {
		return uuid.Nil, false
	}
	want := p.at(deepest)
	for _, id := range t.byLevel[deepest] {
		n := t.nodes[id]
		if n.Name != want {
			continue
		}
		if t.chainMatches(n, p) {
			return n.ID, true
		}
	}
	return uuid.Nil, false
}

// chainMatches walks n's ancestors and checks every supplied shallower field
// against the ancestor name at that level. Absent fields match anything.
func (t *Tree) chainMatches(n *Node, p PartialPath) bool {
	cur := n
	for cur.ParentID != nil {
		cur = t.nodes[*cur.ParentID]
		if want := p.at(cur.Level); want != "" && want != cur.Name {
			return false
		}
	}
	return true
}
