package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projectindex/internal/model"
)

// newFixture builds a small dependency graph shaped like spec.md §8
// scenario C: target <- y <- z <- w, plus an orphan file and a test file
// that imports the target.
func newFixture() *model.ProjectIndex {
	idx := &model.ProjectIndex{
		Files: map[string]model.FileRecord{
			"target.go":       {},
			"y.go":            {},
			"z.go":            {},
			"w.go":            {},
			"orphan.go":       {},
			"target.test.go":  {},
		},
		SymbolIndex: map[string]string{
			"Target":   "target.go:10",
			"helperFn": "y.go:20",
			"Zebra":    "z.go:5",
		},
		DependencyGraph: map[string]model.DependencyEdges{
			"target.go":      {ImportedBy: []string{"y.go"}},
			"y.go":           {Imports: []string{"target.go"}, ImportedBy: []string{"z.go"}},
			"z.go":           {Imports: []string{"y.go"}, ImportedBy: []string{"w.go"}},
			"w.go":           {Imports: []string{"z.go"}},
			"orphan.go":      {},
			"target.test.go": {Imports: []string{"target.go"}},
		},
	}
	return idx
}

func TestSearch_SubstringCaseInsensitive(t *testing.T) {
	t.Parallel()
	idx := newFixture()
	hits := Search(idx, "zeb", false)
	require.Len(t, hits, 1)
	assert.Equal(t, "Zebra", hits[0].Name)
}

func TestSearch_ExactMatch(t *testing.T) {
	t.Parallel()
	idx := newFixture()
	hits := Search(idx, "Target", true)
	require.Len(t, hits, 1)
	assert.Equal(t, "target.go:10", hits[0].Location)

	none := Search(idx, "targe", true)
	assert.Empty(t, none)
}

func TestDependencies_ForwardAndReverse(t *testing.T) {
	t.Parallel()
	idx := newFixture()

	forward, err := Dependencies(idx, "z.go", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"y.go"}, forward)

	reverse, err := Dependencies(idx, "z.go", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"w.go"}, reverse)
}

func TestDependencies_UnknownPath(t *testing.T) {
	t.Parallel()
	idx := newFixture()
	_, err := Dependencies(idx, "nope.go", false)
	assert.Error(t, err)
}

func TestOrphans(t *testing.T) {
	t.Parallel()
	idx := newFixture()
	assert.Equal(t, []string{"orphan.go"}, Orphans(idx))
}

func TestImpact_SeverityBucketsByDepth(t *testing.T) {
	t.Parallel()
	idx := newFixture()

	items, tests, err := Impact(idx, "target.go")
	require.NoError(t, err)
	require.Len(t, items, 3)

	byPath := map[string]ImpactItem{}
	for _, it := range items {
		byPath[it.Path] = it
	}
	assert.Equal(t, SeverityHigh, byPath["y.go"].Severity)
	assert.Equal(t, 1, byPath["y.go"].Depth)
	assert.Equal(t, SeverityMedium, byPath["z.go"].Severity)
	assert.Equal(t, 2, byPath["z.go"].Depth)
	assert.Equal(t, SeverityLow, byPath["w.go"].Severity)
	assert.Equal(t, 3, byPath["w.go"].Depth)

	assert.Equal(t, []string{"target.test.go"}, tests)
}

func TestImpact_UnknownTarget(t *testing.T) {
	t.Parallel()
	idx := newFixture()
	_, _, err := Impact(idx, "missing.go")
	assert.Error(t, err)
}

func TestDeadCode_ExcludesCalledSymbols(t *testing.T) {
	t.Parallel()
	idx := &model.ProjectIndex{
		Files: map[string]model.FileRecord{
			"a.go": {Symbols: []model.SymbolNode{
				{Name: "Main", Calls: []string{"Helper"}},
				{Name: "Helper"},
				{Name: "Unused"},
			}},
		},
		SymbolIndex: map[string]string{
			"Main":   "a.go:1",
			"Helper": "a.go:2",
			"Unused": "a.go:3",
		},
	}
	dead := DeadCode(idx, false)
	assert.Equal(t, []string{"Main", "Unused"}, dead)
}

func TestDeadCode_PrivateNamesExcludedUnlessRequested(t *testing.T) {
	t.Parallel()
	idx := &model.ProjectIndex{
		Files: map[string]model.FileRecord{
			"a.go": {Symbols: []model.SymbolNode{{Name: "_private"}}},
		},
		SymbolIndex: map[string]string{"_private": "a.go:1"},
	}
	assert.Empty(t, DeadCode(idx, false))
	assert.Equal(t, []string{"_private"}, DeadCode(idx, true))
}

func TestSuggest_RanksBySubstringAndCategory(t *testing.T) {
	t.Parallel()
	idx := &model.ProjectIndex{
		SymbolIndex: map[string]string{
			"LoginHandler":     "auth.go:1",
			"AuthTokenStore":   "auth.go:20",
			"UnrelatedWidget":  "ui.go:1",
		},
	}
	primary, related := Suggest(idx, "handle user login auth token")
	all := append(append([]Suggestion{}, primary...), related...)

	names := make([]string, len(all))
	for i, s := range all {
		names[i] = s.Name
	}
	assert.Contains(t, names, "LoginHandler")
	assert.Contains(t, names, "AuthTokenStore")
	assert.NotContains(t, names, "UnrelatedWidget")
	assert.LessOrEqual(t, len(primary), 3)
}
