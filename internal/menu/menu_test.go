package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeScanMenu(t *testing.T) {
	scanMenu := &ScanMenu{
		Categories: []ScanCategory{
			{
				CategoryID: "cat-1",
				Name:       "Starters",
				Items: []ScanMenuItem{
					{ItemID: "i-1", Name: "Soup", Price: 80, Variants: []Option{{ID: "v1", Name: "Large", Price: 120}}},
					{ItemID: "i-2", Name: "Salad", Price: 110},
				},
			},
			{
				CategoryID: "cat-2",
				Name:       "Mains",
				Items:      []ScanMenuItem{{ItemID: "i-3", Name: "Curry", Price: 240}},
			},
		},
	}

	normalized := NormalizeScanMenu(scanMenu)
	require.NotNil(t, normalized)
	require.Len(t, normalized.Categories, 2)
	assert.Equal(t, "cat-1", normalized.Categories[0].ID)
	assert.Equal(t, "Soup", normalized.Categories[0].Items[0].Name)
	assert.Equal(t, "v1", normalized.Categories[0].Items[0].Variants[0].ID)
	assert.Len(t, normalized.Items, 3, "items flattened across categories")
}

func TestNormalizeScanMenuEmpty(t *testing.T) {
	assert.Nil(t, NormalizeScanMenu(nil))
	assert.Nil(t, NormalizeScanMenu(&ScanMenu{}))
}
