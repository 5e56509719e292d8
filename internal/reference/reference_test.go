package reference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegions(t *testing.T) {
	names := StateNames()
	require.Len(t, names, 36)
	assert.Equal(t, "Andhra Pradesh", names[0])
	assert.Equal(t, "Lakshadweep", names[35])

	var states, uts int
	for _, r := range Regions() {
		switch r.Kind {
		case RegionState:
			states++
		case RegionUnionTerritory:
			uts++
		}
	}
	assert.Equal(t, 28, states)
	assert.Equal(t, 8, uts)

	assert.True(t, IsKnownState("tamil nadu"))
	assert.False(t, IsKnownState("Atlantis"))
}

func TestLanguages(t *testing.T) {
	require.Len(t, Languages(), 12)

	l, ok := LanguageByCode(" HI ")
	require.True(t, ok)
	assert.Equal(t, "Hindi", l.Name)
	assert.Equal(t, "हिंदी", l.Native)

	_, ok = LanguageByCode("fr")
	assert.False(t, ok)

	_, ok = LanguageByCode(DefaultLanguage)
	assert.True(t, ok)
}

func TestExplore(t *testing.T) {
	tests := []struct {
		name          string
		query         ExplorerQuery
		wantItems     int
		wantMatched   int
		wantTotal     int
		wantTruncated bool
		wantFirst     string
	}{
		{
			name:          "categories default limit",
			query:         ExplorerQuery{Tab: TabCategories},
			wantItems:     10,
			wantMatched:   15,
			wantTotal:     15,
			wantTruncated: true,
			wantFirst:     "Agriculture, Rural & Environment",
		},
		{
			name:        "categories show all",
			query:       ExplorerQuery{Tab: TabCategories, ShowAll: true},
			wantItems:   15,
			wantMatched: 15,
			wantTotal:   15,
			wantFirst:   "Agriculture, Rural & Environment",
		},
		{
			name:          "states default limit",
			query:         ExplorerQuery{Tab: TabStates},
			wantItems:     12,
			wantMatched:   36,
			wantTotal:     36,
			wantTruncated: true,
			wantFirst:     "Andhra Pradesh",
		},
		{
			name:        "filter shows every match",
			query:       ExplorerQuery{Tab: TabStates, Filter: "PRADESH"},
			wantItems:   5,
			wantMatched: 5,
			wantTotal:   36,
			wantFirst:   "Andhra Pradesh",
		},
		{
			name:          "central ministries default limit",
			query:         ExplorerQuery{Tab: TabCentral},
			wantItems:     9,
			wantMatched:   len(ministries),
			wantTotal:     len(ministries),
			wantTruncated: true,
			wantFirst:     "Ministry of Agriculture and Farmers Welfare",
		},
		{
			name:        "no match",
			query:       ExplorerQuery{Tab: TabCategories, Filter: "zzz"},
			wantItems:   0,
			wantMatched: 0,
			wantTotal:   15,
		},
		{
			name:          "empty tab defaults to categories",
			query:         ExplorerQuery{},
			wantItems:     10,
			wantMatched:   15,
			wantTotal:     15,
			wantTruncated: true,
			wantFirst:     "Agriculture, Rural & Environment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := Explore(tt.query)
			require.NoError(t, err)
			assert.Len(t, page.Items, tt.wantItems)
			assert.Equal(t, tt.wantMatched, page.Matched)
			assert.Equal(t, tt.wantTotal, page.Total)
			assert.Equal(t, tt.wantTruncated, page.Truncated)
			if tt.wantFirst != "" {
				assert.Equal(t, tt.wantFirst, page.Items[0])
			}
		})
	}
}

func TestExplore_UnknownTab(t *testing.T) {
	_, err := Explore(ExplorerQuery{Tab: "districts"})
	assert.Error(t, err)
}

func TestAccessorsReturnCopies(t *testing.T) {
	c := Categories()
	c[0] = "mutated"
	assert.Equal(t, "Agriculture, Rural & Environment", Categories()[0])
}
