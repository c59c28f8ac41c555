package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSortKeyAliases(t *testing.T) {
	key, err := ParseSortKey("created_desc")
	require.NoError(t, err)
	assert.Equal(t, SortCreatedAtDesc, key)

	key, err = ParseSortKey(" Price_Asc ")
	require.NoError(t, err)
	assert.Equal(t, SortPriceAsc, key)

	_, err = ParseSortKey("popularity")
	assert.Error(t, err)
}

func TestParseSearchType(t *testing.T) {
	typ, err := ParseSearchType("autocomplete")
	require.NoError(t, err)
	assert.True(t, typ.IsValid())

	_, err = ParseSearchType("orders")
	assert.Error(t, err)
}

func TestProductStatus(t *testing.T) {
	status, err := ParseProductStatus("active")
	require.NoError(t, err)
	assert.Equal(t, ProductStatusActive, status)
	assert.False(t, ProductStatus("deleted").IsValid())
}

func TestParseProductStatus(t *testing.T) {
	status, err := ParseProductStatus("active")
	require.NoError(t, err)
	assert.Equal(t, ProductStatusActive, status)
	assert.True(t, status.IsValid())
	assert.Equal(t, "active", status.String())

	_, err = ParseProductStatus("deleted")
	assert.Error(t, err)
	assert.False(t, ProductStatus("deleted").IsValid())
}
