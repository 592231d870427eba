package taxonomy

import (
	"testing"

	"github.com/google/uuid"
)

// testTreeBuilder assembles a tree from (name, parent name) pairs so tests
// can describe fixtures by names instead of ids.
type testTreeBuilder struct {
	records []Node
	byName  map[string]uuid.UUID
}

func newTestTreeBuilder() *testTreeBuilder {
	return &testTreeBuilder{byName: map[string]uuid.UUID{}}
}

func (b *testTreeBuilder) add(name string, level Level, parentName string) *testTreeBuilder {
	id := uuid.New()
	n := Node{ID: id, Name: name, Level: level}
	if parentName != "" {
		pid, ok := b.byName[parentName]
		if !ok {
			panic("unknown parent " + parentName)
		}
		n.ParentID = &pid
	}
	b.records = append(b.records, n)
	b.byName[name] = id
	return b
}

func (b *testTreeBuilder) build(t *testing.T) *Tree {
	t.Helper()
	tree, err := NewTree(b.records)
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}
	return tree
}

func (b *testTreeBuilder) id(name string) uuid.UUID {
	return b.byName[name]
}

// newHeatingFixture builds the shared fixture used across the package tests.
// "Standard" appears as a subcategory under two different categories to
// exercise parent-chain disambiguation.
func newHeatingFixture() *testTreeBuilder {
	return newTestTreeBuilder().
		add("HEATING", LevelDomain, "").
		add("Boiler", LevelType, "HEATING").
		add("Gas Boiler", LevelCategory, "Boiler").
		add("Wall-mounted Gas Boiler", LevelSubcategory, "Gas Boiler").
		add("Floor-standing Gas Boiler", LevelSubcategory, "Gas Boiler").
		add("Oil Boiler", LevelCategory, "Boiler").
		add("Standard", LevelSubcategory, "Oil Boiler").
		add("Heat Pump", LevelType, "HEATING").
		add("Air-source Heat Pump", LevelCategory, "Heat Pump").
		add("Standard ASHP", LevelSubcategory, "Air-source Heat Pump").
		add("PLUMBING", LevelDomain, "").
		add("Pump", LevelType, "PLUMBING").
		add("Circulation Pump", LevelCategory, "Pump").
		add("Standard", LevelSubcategory, "Circulation Pump").
		add("ELEVATORS", LevelDomain, "").
		add("Elevator", LevelType, "ELEVATORS")
}

func strp(s string) *string { return &s }
