package github

import "sort"

// ValueChange carries the observed and desired values of an item that needs
// an update.
type ValueChange[V any] struct {
	Old V `json:"old"`
	New V `json:"new"`
}

// Diff classifies desired-vs-observed items into three disjoint sets. Items
// present in observed but absent from desired are ignored entirely: deletion
// is out of scope and observed-only state is never surfaced.
type Diff[V any] struct {
	ToCreate  map[string]V              `json:"to_create"`
	ToUpdate  map[string]ValueChange[V] `json:"to_update"`
	Unchanged []string                  `json:"unchanged"`
}

// Compare classifies every desired item against the observed state. A name
// absent from observed is to-create; present and equal is unchanged; present
// and different is to-update, carrying both values. Pure function, no I/O.
func Compare[V any](desired, observed map[string]V, equals func(a, b V) bool) Diff[V] {
	d := Diff[V]{
		ToCreate: make(map[string]V),
		ToUpdate: make(map[string]ValueChange[V]),
	}

	for name, want := range desired {
		have, exists := observed[name]
		switch {
		case !exists:
			d.ToCreate[name] = want
		case equals(have, want):
			d.Unchanged = append(d.Unchanged, name)
		default:
			d.ToUpdate[name] = ValueChange[V]{Old: have, New: want}
		}
	}

	sort.Strings(d.Unchanged)
	return d
}

// HasChanges reports whether the diff contains anything to create or update.
func (d Diff[V]) HasChanges() bool {
	return len(d.ToCreate) > 0 || len(d.ToUpdate) > 0
}

// CreateNames returns the to-create names in sorted order for deterministic
// processing and report output.
func (d Diff[V]) CreateNames() []string {
	names := make([]string, 0, len(d.ToCreate))
	for name := range d.ToCreate {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UpdateNames returns the to-update names in sorted order.
func (d Diff[V]) UpdateNames() []string {
	names := make([]string, 0, len(d.ToUpdate))
	for name := range d.ToUpdate {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// stringEquals is the equality function for scalar-valued resource kinds.
func stringEquals(a, b string) bool { return a == b }
