package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWildcard(t *testing.T) {
	assert.Equal(t, "%C9300L%-%48T%-%4G%-%E%", wildcard("C9300L-48T-4G-E"))
	assert.Equal(t, "%C9300X%", wildcard("C9300X"))
	assert.Equal(t, "C9300X", pattern("C9300X", false))
}

func TestPlan(t *testing.T) {
	tests := []struct {
		name   string
		model  string
		fuzzy  bool
		expand bool
		want   []stage
	}{
		{"no expand exact", "MS120-8", false, false, []stage{{}}},
		{"no expand fuzzy", "MS120-8", true, false, []stage{{fuzzy: true}}},
		{"catalyst", "C9300L-48T", false, true, []stage{{}, {fuzzy: true}}},
		{"meraki", "MS120-8", false, true, []stage{{}, {hwSuffix: true}, {fuzzy: true}, {fuzzy: true, hwSuffix: true}}},
		{"meraki lower case", "ms120-8", false, true, []stage{{}, {hwSuffix: true}, {fuzzy: true}, {fuzzy: true, hwSuffix: true}}},
		{"meraki with suffix", "MS120-8-HW", false, true, []stage{{}, {fuzzy: true}}},
		{"fuzzy meraki", "MS120-8", true, true, []stage{{fuzzy: true}, {fuzzy: true, hwSuffix: true}}},
		{"no model", "", false, true, []stage{{}, {fuzzy: true}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, plan(Query{Model: tt.model}, tt.fuzzy, tt.expand))
		})
	}
}

func TestSearchExactID(t *testing.T) {
	store := newCatalog(t)

	for _, id := range []string{"C9300L-48T-4G-E", "MS120-8-HW", "C9300X-12Y-2Q"} {
		rows := search(t, store, Query{ID: id}, false, false)
		assert.Equal(t, []string{id}, ids(rows))
	}
	assert.Empty(t, search(t, store, Query{ID: "C9300L"}, false, false))
}

func TestSearchIsCaseSensitiveWhenExact(t *testing.T) {
	store := newCatalog(t)

	assert.Empty(t, search(t, store, Query{Model: "c9300l-48t-4g-e"}, false, false))
	assert.Len(t, search(t, store, Query{Model: "C9300L-48T-4G-E"}, false, false), 1)
}

func TestSearchRelaxation(t *testing.T) {
	store := newCatalog(t)

	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{"exact model", Query{Model: "C9300L-48T-4G-E"}, []string{"C9300L-48T-4G-E"}},
		{"partial family", Query{Model: "C9300L-48T"}, []string{"C9300L-48T-4G-E"}},
		{"family prefix", Query{Model: "C9300L"}, []string{"C9300L-48T-4G-E", "C9300L-24T-4G-E"}},
		{"modular model", Query{Model: "C9300X"}, []string{"C9300X-12Y-2Q", "C9300X-24Y-2Q"}},
		{"modular with module", Query{Model: "C9300X", NetworkModule: "C9300X-NM-8Y"}, []string{"C9300X-24Y-2Q"}},
		{"modular with partial module", Query{Model: "C9300X", NetworkModule: "8Y"}, []string{"C9300X-24Y-2Q"}},
		{"meraki hw suffix", Query{Model: "MS120-8"}, []string{"MS120-8-HW"}},
		{"meraki family prefix", Query{Model: "MS125"}, []string{"MS125-48-HW"}},
		{"not real", Query{Model: "ZZ-NOTREAL"}, nil},
		{"empty query", Query{}, []string{
			"C9300L-48T-4G-E", "C9300L-24T-4G-E", "C9300X-12Y-2Q", "C9300X-24Y-2Q", "C9200-24T",
			"MS120-8-HW", "MS120-48-HW", "MS125-48-HW", "MS390-24-HW",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := search(t, store, tt.query, false, true)
			if tt.want == nil {
				assert.Empty(t, rows)
				return
			}
			assert.Equal(t, tt.want, ids(rows))
		})
	}
}

func TestSearchWithoutExpandDoesNotRelax(t *testing.T) {
	store := newCatalog(t)

	assert.Empty(t, search(t, store, Query{Model: "MS120-8"}, false, false))
	assert.Empty(t, search(t, store, Query{Model: "C9300L-48T"}, false, false))
}

func TestFuzzyNeverFindsFewerThanExact(t *testing.T) {
	store := newCatalog(t)

	queries := []Query{
		{Model: "C9300L-48T-4G-E"},
		{Model: "C9300X"},
		{Model: "C9300X", NetworkModule: "C9300X-NM-2Q"},
		{ID: "MS120-8-HW"},
		{Model: "MS120-8"},
		{ID: "ZZ-NOTREAL"},
	}
	for _, q := range queries {
		exact := search(t, store, q, false, false)
		fuzzy := search(t, store, q, true, false)
		assert.GreaterOrEqual(t, len(fuzzy), len(exact), "query %+v", q)
	}
}
