package taxonomy

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrParse marks a classifier response that is not well-formed structured
// data. It signals "classification unavailable" to the caller; it never
// covers field-level mismatches, which are dropped structurally.
var ErrParse = errors.New("taxonomy: unparseable classification candidate")

// Candidate is an untrusted classification proposed by the external
// classifier. Nothing in it is believed until Validate has checked it
// against the tree.
type Candidate struct {
	Domain      *string            `json:"domain"`
	Type        *string            `json:"type"`
	Category    *string            `json:"category"`
	Subcategory *string            `json:"subcategory"`
	Confidence  map[string]float64 `json:"confidence"`
	Reasoning   string             `json:"reasoning"`
}

func (c *Candidate) at(l Level) string {
	var v *string
	switch l {
	case LevelDomain:
		v = c.Domain
	case LevelType:
		v = c.Type
	case LevelCategory:
		v = c.Category
	case LevelSubcategory:
		v = c.Subcategory
	}
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}

// DeepestSupplied returns the deepest level the candidate carries a value
// for, or 0 for an empty candidate.
func (c *Candidate) DeepestSupplied() Level {
	for l := Level(MaxDepth); l >= LevelDomain; l-- {
		if c.at(l) != "" {
			return l
		}
	}
	return 0
}

// ParseCandidate decodes raw classifier output. Any shape other than a JSON
// object with the expected field types yields ErrParse.
func ParseCandidate(raw []byte) (*Candidate, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty response", ErrParse)
	}
	var c Candidate
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return &c, nil
}

type VerificationStatus string

const (
	StatusVerified     VerificationStatus = "verified"
	StatusPartial      VerificationStatus = "partially_verified"
	StatusUnverifiable VerificationStatus = "unverifiable"
)

// Validated is the subset of a candidate proven structurally consistent with
// the tree. Path holds only accepted fields; Confidence and Reasoning pass
// through unvalidated, informational only.
type Validated struct {
	Path       PartialPath        `json:"path"`
	Status     VerificationStatus `json:"status"`
	Confidence map[string]float64 `json:"confidence,omitempty"`
	Reasoning  string             `json:"reasoning,omitempty"`
}

// Validator checks untrusted candidates against the authoritative tree with
// strict top-down chaining: a level is accepted only when its name exists at
// exactly that level under the node accepted at the previous level. Once any
// level fails, every deeper level is dropped regardless of whether its name
// exists validly elsewhere in the tree.
type Validator struct {
	tree func() *Tree
}

func NewValidator(treeFn func() *Tree) *Validator {
	return &Validator{tree: treeFn}
}

// Validate never fails: invalid fields are silently dropped, and the best
// verified prefix wins. Status reports whether the whole candidate, a
// prefix, or nothing survived.
func (v *Validator) Validate(c *Candidate) Validated {
	out := Validated{
		Status:     StatusUnverifiable,
		Confidence: c.Confidence,
		Reasoning:  c.Reasoning,
	}
	t := v.tree()
	supplied := c.DeepestSupplied()
	if t == nil || supplied == 0 {
		return out
	}

	var parent *Node
	accepted := Level(0)
	for l := LevelDomain; int(l) <= MaxDepth; l++ {
		name := c.at(l)
		if name == "" {
			break
		}
		var pool []*Node
		if l == LevelDomain {
			pool = t.Roots()
		} else {
			pool = t.Children(parent.ID)
		}
		node := findByName(pool, name)
		if node == nil {
			break
		}
		switch l {
		case LevelDomain:
			out.Path.Domain = node.Name
		case LevelType:
			out.Path.Type = node.Name
		case LevelCategory:
			out.Path.Category = node.Name
		case LevelSubcategory:
			out.Path.Subcategory = node.Name
		}
		parent = node
		accepted = l
	}

	switch {
	case accepted == 0:
		out.Status = StatusUnverifiable
	case accepted == supplied:
		out.Status = StatusVerified
	default:
		out.Status = StatusPartial
	}
	return out
}

func findByName(pool []*Node, name string) *Node {
	for _, n := range pool {
		if n.Name == name {
			return n
		}
	}
	return nil
}
