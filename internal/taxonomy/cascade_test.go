package taxonomy

import (
	"errors"
	"testing"
)

func newCascade(t *testing.T) (*testTreeBuilder, *CascadeController) {
	t.Helper()
	b := newHeatingFixture()
	tree := b.build(t)
	return b, NewCascadeController(func() *Tree { return tree })
}

func TestCascadeSelectClearsDeeperSlots(t *testing.T) {
	b, c := newCascade(t)

	for _, step := range []struct {
		level Level
		value string
	}{
		{LevelDomain, "HEATING"},
		{LevelType, "Boiler"},
		{LevelCategory, "Gas Boiler"},
		{LevelSubcategory, "Wall-mounted Gas Boiler"},
	} {
		if err := c.Select(step.level, step.value); err != nil {
			t.Fatalf("Select(%s, %q): %v", step.level, step.value, err)
		}
	}

	sel := c.CurrentSelection()
	if sel.Subcategory != "Wall-mounted Gas Boiler" {
		t.Fatalf("subcategory = %q after full selection", sel.Subcategory)
	}
	if sel.NodeID == nil || *sel.NodeID != b.id("Wall-mounted Gas Boiler") {
		t.Fatalf("node id = %v, want %s", sel.NodeID, b.id("Wall-mounted Gas Boiler"))
	}

	// A new domain resets everything below it.
	if err := c.Select(LevelDomain, "PLUMBING"); err != nil {
		t.Fatalf("Select(domain, PLUMBING): %v", err)
	}
	sel = c.CurrentSelection()
	if sel.Type != "" || sel.Category != "" || sel.Subcategory != "" {
		t.Fatalf("deeper slots survived domain change: %+v", sel)
	}
	if sel.NodeID == nil || *sel.NodeID != b.id("PLUMBING") {
		t.Fatalf("node id after domain change = %v, want %s", sel.NodeID, b.id("PLUMBING"))
	}
}

func TestCascadeMidLevelSelectClearsOnlyDeeper(t *testing.T) {
	_, c := newCascade(t)

	mustSelect := func(l Level, v string) {
		t.Helper()
		if err := c.Select(l, v); err != nil {
			t.Fatalf("Select(%s, %q): %v", l, v, err)
		}
	}
	mustSelect(LevelDomain, "HEATING")
	mustSelect(LevelType, "Boiler")
	mustSelect(LevelCategory, "Gas Boiler")
	mustSelect(LevelSubcategory, "Floor-standing Gas Boiler")

	mustSelect(LevelType, "Heat Pump")
	sel := c.CurrentSelection()
	if sel.Domain != "HEATING" || sel.Type != "Heat Pump" {
		t.Fatalf("selection = %+v", sel)
	}
	if sel.Category != "" || sel.Subcategory != "" {
		t.Fatalf("category/subcategory survived type change: %+v", sel)
	}
}

func TestCascadeOptionsScopedToParent(t *testing.T) {
	_, c := newCascade(t)

	if opts := c.Options(LevelType); len(opts) != 0 {
		t.Fatalf("type options before domain selection = %d, want 0", len(opts))
	}
	if err := c.Select(LevelDomain, "HEATING"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	opts := c.Options(LevelType)
	if len(opts) != 2 {
		t.Fatalf("type options under HEATING = %d, want 2", len(opts))
	}
	for _, o := range opts {
		if o.Name != "Boiler" && o.Name != "Heat Pump" {
			t.Fatalf("unexpected type option %q", o.Name)
		}
	}
}

func TestCascadeSelectRejectsNonOptions(t *testing.T) {
	_, c := newCascade(t)

	if err := c.Select(LevelDomain, "HEATING"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	// "Elevator" exists in the tree but not under HEATING.
	if err := c.Select(LevelType, "Elevator"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Select(type, Elevator) error = %v, want ErrNotFound", err)
	}
	// Selection untouched on rejection.
	if sel := c.CurrentSelection(); sel.Domain != "HEATING" || sel.Type != "" {
		t.Fatalf("selection changed on rejected select: %+v", sel)
	}
}

func TestCascadeHydrateMatchesGetPath(t *testing.T) {
	b, c := newCascade(t)
	tree := b.build(t)

	for _, name := range []string{"Wall-mounted Gas Boiler", "Gas Boiler", "Boiler", "HEATING"} {
		id := b.id(name)
		if err := c.Hydrate(id); err != nil {
			t.Fatalf("Hydrate(%s): %v", name, err)
		}
		want, err := tree.GetPath(id)
		if err != nil {
			t.Fatalf("GetPath(%s): %v", name, err)
		}
		sel := c.CurrentSelection()
		got := []string{}
		for _, v := range []string{sel.Domain, sel.Type, sel.Category, sel.Subcategory} {
			if v != "" {
				got = append(got, v)
			}
		}
		if len(got) != len(want) {
			t.Fatalf("Hydrate(%s) selection %v, want path %v", name, got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("Hydrate(%s) selection %v, want path %v", name, got, want)
			}
		}
		if sel.NodeID == nil || *sel.NodeID != id {
			t.Fatalf("Hydrate(%s) node id = %v, want %s", name, sel.NodeID, id)
		}
	}
}

func TestCascadeHydrateOverwritesDeeperSlots(t *testing.T) {
	b, c := newCascade(t)

	mustSelect := func(l Level, v string) {
		t.Helper()
		if err := c.Select(l, v); err != nil {
			t.Fatalf("Select(%s, %q): %v", l, v, err)
		}
	}
	mustSelect(LevelDomain, "PLUMBING")
	mustSelect(LevelType, "Pump")
	mustSelect(LevelCategory, "Circulation Pump")
	mustSelect(LevelSubcategory, "Standard")

	if err := c.Hydrate(b.id("Boiler")); err != nil {
		t.Fatalf("Hydrate: %v", err)
	}
	sel := c.CurrentSelection()
	if sel.Domain != "HEATING" || sel.Type != "Boiler" {
		t.Fatalf("selection after hydrate = %+v", sel)
	}
	if sel.Category != "" || sel.Subcategory != "" {
		t.Fatalf("stale deep slots after hydrate: %+v", sel)
	}
}

func TestCascadeHydrateUnknownID(t *testing.T) {
	b, c := newCascade(t)
	if err := c.Select(LevelDomain, "HEATING"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	bad := b.id("does-not-exist")
	if err := c.Hydrate(bad); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Hydrate(unknown) error = %v, want ErrNotFound", err)
	}
	// Existing selection stays intact on failure.
	if sel := c.CurrentSelection(); sel.Domain != "HEATING" {
		t.Fatalf("selection lost on failed hydrate: %+v", sel)
	}
}

func TestCascadeClear(t *testing.T) {
	_, c := newCascade(t)
	if err := c.Select(LevelDomain, "HEATING"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	c.Clear()
	sel := c.CurrentSelection()
	if sel.Domain != "" || sel.NodeID != nil {
		t.Fatalf("selection after Clear = %+v", sel)
	}
}
