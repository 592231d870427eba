package taxonomy

import (
	"fmt"

	"github.com/google/uuid"
)

// Selection is a snapshot of the four cascade slots plus the leaf-most
// resolvable node id, nil when nothing is selected.
type Selection struct {
	Domain      string     `json:"domain,omitempty"`
	Type        string     `json:"type,omitempty"`
	Category    string     `json:"category,omitempty"`
	Subcategory string     `json:"subcategory,omitempty"`
	NodeID      *uuid.UUID `json:"node_id,omitempty"`
}

// CascadeController holds four mutually dependent selection slots over the
// tree. Selecting a level clears every deeper slot and re-scopes its
// options; Hydrate sets all four slots atomically from a node id so no
// observer sees a transient intermediate state.
type CascadeController struct {
	tree  func() *Tree
	slots [MaxDepth]*Node
}

func NewCascadeController(treeFn func() *Tree) *CascadeController {
	return &CascadeController{tree: treeFn}
}

// Options returns the selectable nodes for a level: all domains for
// LevelDomain, otherwise the children of the selection one level up. An
// unselected parent slot means no options.
func (c *CascadeController) Options(l Level) []*Node {
	t := c.tree()
	if t == nil || l < LevelDomain || int(l) > MaxDepth {
		return nil
	}
	if l == LevelDomain {
		return t.Roots()
	}
	parent := c.slots[l-2]
	if parent == nil {
		return nil
	}
	return t.Children(parent.ID)
}

// Select sets the slot at level l to the option named value and clears every
// deeper slot. The value must be among the level's current options.
func (c *CascadeController) Select(l Level, value string) error {
	node := findByName(c.Options(l), value)
	if node == nil {
		return fmt.Errorf("%w: %q is not an option at %s", ErrNotFound, value, l)
	}
	c.slots[l-1] = node
	for i := int(l); i < MaxDepth; i++ {
		c.slots[i] = nil
	}
	return nil
}

// Hydrate sets all slots from the ancestor path of nodeID in one step,
// bypassing the cascade-reset sequence. Slots deeper than the node's level
// are cleared.
func (c *CascadeController) Hydrate(nodeID uuid.UUID) error {
	t := c.tree()
	if t == nil {
		return ErrNotFound
	}
	n, ok := t.Node(nodeID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, nodeID)
	}
	var next [MaxDepth]*Node
	for cur := n; ; {
		next[cur.Level-1] = cur
		if cur.ParentID == nil {
			break
		}
		cur, _ = t.Node(*cur.ParentID)
	}
	c.slots = next
	return nil
}

// Clear resets every slot.
func (c *CascadeController) Clear() {
	c.slots = [MaxDepth]*Node{}
}

// CurrentSelection snapshots the slots and recomputes the leaf-most
// resolvable node id via ResolveIDFromPath.
func (c *CascadeController) CurrentSelection() Selection {
	var sel Selection
	var path PartialPath
	for i, n := range c.slots {
		if n == nil {
			continue
		}
		switch Level(i + 1) {
		case LevelDomain:
			sel.Domain, path.Domain = n.Name, n.Name
		case LevelType:
			sel.Type, path.Type = n.Name, n.Name
		case LevelCategory:
			sel.Category, path.Category = n.Name, n.Name
		case LevelSubcategory:
			sel.Subcategory, path.Subcategory = n.Name, n.Name
		}
	}
	if t := c.tree(); t != nil {
		if id, ok := t.ResolveIDFromPath(path); ok {
			sel.NodeID = &id
		}
	}
	return sel
}
