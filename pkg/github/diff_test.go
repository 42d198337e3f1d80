package github

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompareClassifiesDesiredItems(t *testing.T) {
	desired := map[string]string{
		"A": "1",
		"B": "2",
		"C": "3",
	}
	observed := map[string]string{
		"B": "2",
		"C": "old",
		"D": "ignored",
	}

	diff := Compare(desired, observed, stringEquals)

	assert.Equal(t, map[string]string{"A": "1"}, diff.ToCreate)
	assert.Equal(t, []string{"B"}, diff.Unchanged)
	assert.Equal(t, ValueChange[string]{Old: "old", New: "3"}, diff.ToUpdate["C"])
	assert.Len(t, diff.ToUpdate, 1)
}

func TestCompareIgnoresObservedOnlyItems(t *testing.T) {
	desired := map[string]string{"A": "1"}
	observed := map[string]string{"A": "1", "EXTRA": "x", "OTHER": "y"}

	diff := Compare(desired, observed, stringEquals)

	assert.Empty(t, diff.ToCreate)
	assert.Empty(t, diff.ToUpdate)
	assert.Equal(t, []string{"A"}, diff.Unchanged)
}

func TestComparePartitionsEveryDesiredName(t *testing.T) {
	desired := map[string]string{"a": "1", "b": "2", "c": "3", "d": "4"}
	observed := map[string]string{"b": "2", "c": "x"}

	diff := Compare(desired, observed, stringEquals)

	total := len(diff.ToCreate) + len(diff.ToUpdate) + len(diff.Unchanged)
	assert.Equal(t, len(desired), total)

	seen := make(map[string]bool)
	for name := range diff.ToCreate {
		seen[name] = true
	}
	for name := range diff.ToUpdate {
		assert.False(t, seen[name], "name in two sets: %s", name)
		seen[name] = true
	}
	for _, name := range diff.Unchanged {
		assert.False(t, seen[name], "name in two sets: %s", name)
		seen[name] = true
	}
}

func TestCompareEmptyObserved(t *testing.T) {
	desired := map[string]string{"A": "1", "B": "2"}

	diff := Compare(desired, map[string]string{}, stringEquals)

	assert.Len(t, diff.ToCreate, 2)
	assert.Empty(t, diff.ToUpdate)
	assert.Empty(t, diff.Unchanged)
	assert.True(t, diff.HasChanges())
}

func TestCompareEmptyDesired(t *testing.T) {
	observed := map[string]string{"A": "1"}

	diff := Compare(map[string]string{}, observed, stringEquals)

	assert.False(t, diff.HasChanges())
	assert.Empty(t, diff.Unchanged)
}

func TestCompareStructuredValues(t *testing.T) {
	desired := map[string]BranchProtection{
		"main": {RequiredReviews: 2, DismissStaleReviews: true},
		"dev":  {RequiredReviews: 1},
	}
	observed := map[string]BranchProtection{
		"main": {RequiredReviews: 2, DismissStaleReviews: true},
		"dev":  {RequiredReviews: 3},
	}

	diff := Compare(desired, observed, BranchProtection.Equal)

	assert.Equal(t, []string{"main"}, diff.Unchanged)
	assert.Equal(t, []string{"dev"}, diff.UpdateNames())
}

func TestDiffSortedNames(t *testing.T) {
	desired := map[string]string{"z": "1", "a": "2", "m": "3"}

	diff := Compare(desired, map[string]string{}, stringEquals)

	assert.Equal(t, []string{"a", "m", "z"}, diff.CreateNames())
}
