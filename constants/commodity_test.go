package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupIDShape(t *testing.T) {
	assert.True(t, IsGroupIDShape("001"))
	assert.True(t, IsGroupIDShape("050"))
	assert.False(t, IsGroupIDShape("1"))
	assert.False(t, IsGroupIDShape("0011"))
	assert.False(t, IsGroupIDShape("ab1"))
	assert.False(t, IsGroupIDShape(""))
}

func TestCommodityGroupsSeed(t *testing.T) {
	require.Len(t, CommodityGroups, 50)

	seen := map[string]bool{}
	for _, g := range CommodityGroups {
		assert.True(t, IsGroupIDShape(g.ID), "id %q", g.ID)
		assert.False(t, seen[g.ID], "duplicate id %q", g.ID)
		seen[g.ID] = true
		assert.NotEmpty(t, g.Category)
		assert.NotEmpty(t, g.Name)
	}

	g, ok := FindGroup("001")
	require.True(t, ok)
	assert.Equal(t, "Accommodation Rentals", g.Name)

	_, ok = FindGroup("999")
	assert.False(t, ok)
}

func TestStatusValues(t *testing.T) {
	assert.True(t, IsValidStatus("Open"))
	assert.True(t, IsValidStatus("In Progress"))
	assert.True(t, IsValidStatus("Closed"))
	assert.False(t, IsValidStatus("open"))
	assert.False(t, IsValidStatus("Done"))
}

func TestOfferExtensions(t *testing.T) {
	assert.True(t, IsAllowedOfferExt(NormalizeExt(".PDF")))
	assert.True(t, IsAllowedOfferExt(NormalizeExt("txt")))
	assert.False(t, IsAllowedOfferExt(NormalizeExt(".docx")))
}
