package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHighlightWrapsEveryCaseInsensitiveOccurrence(t *testing.T) {
	got := Highlight("Red shirt, RED cap, red", "red")
	assert.Equal(t, "<mark>Red</mark> shirt, <mark>RED</mark> cap, <mark>red</mark>", got)
}

func TestHighlightEscapesRegexMetacharacters(t *testing.T) {
	assert.Equal(t, "Size <mark>(XL)</mark> only", Highlight("Size (XL) only", "(XL)"))
	assert.Equal(t, "a.b", Highlight("a.b", "a*"))
	assert.Equal(t, "price <mark>$9.99</mark>", Highlight("price $9.99", "$9.99"))
}

func TestHighlightLeavesTextUntouchedWithoutExactMatch(t *testing.T) {
	assert.Equal(t, "Red T-Shirt", Highlight("Red T-Shirt", "redshrt"))
	assert.Equal(t, "Red T-Shirt", Highlight("Red T-Shirt", "   "))
	assert.Equal(t, "", Highlight("", "red"))
}

func TestHighlightRoundTrip(t *testing.T) {
	texts := []string{"Red T-Shirt", "Blue Jeans", "Café au lait mug", "100% cotton (organic)", ""}
	queries := []string{"red", "e", "caf", "%", "(organic)", "zzz", ""}
	for _, text := range texts {
		for _, q := range queries {
			assert.Equal(t, text, StripHighlights(Highlight(text, q)), "%q / %q", text, q)
		}
	}
}

func TestHighlightEntriesSetsNameAndDescription(t *testing.T) {
	desc := "Bright red cotton"
	entries := []ScoredEntry{
		{CatalogEntry: CatalogEntry{Name: "Red Tee", Description: &desc}},
		{CatalogEntry: CatalogEntry{Name: "Navy Tee"}},
	}

	highlightEntries(entries, "red")

	assert.Equal(t, "<mark>Red</mark> Tee", *entries[0].HighlightedName)
	assert.Equal(t, "Bright <mark>red</mark> cotton", *entries[0].HighlightedDescription)
	assert.Equal(t, "Navy Tee", *entries[1].HighlightedName)
	assert.Nil(t, entries[1].HighlightedDescription)
}
