package cart

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SantaTabla/Shop-Backend/internal/catalog"
)

func fakeFinder(prices map[string]float64) func(pid string) (catalog.Product, error) {
	return func(pid string) (catalog.Product, error) {
		price, ok := prices[pid]
		if !ok {
			return catalog.Product{}, fmt.Errorf("not found")
		}
		return catalog.Product{ID: pid, Price: price}, nil
	}
}

func TestAttachProductsBindsAndTotals(t *testing.T) {
	find := fakeFinder(map[string]float64{"p-1": 10.0, "p-2": 2.5})

	items, total, err := attachProducts("cart-1", []CartItem{
		{ProductID: "p-1", Quantity: 2},
		{ProductID: "p-2", Quantity: 4},
	}, find)
	require.NoError(t, err)

	assert.Equal(t, 30.0, total)
	for _, item := range items {
		assert.Equal(t, "cart-1", item.CartID)
		assert.NotEmpty(t, item.ID)
	}
}

func TestAttachProductsRejectsUnknownProduct(t *testing.T) {
	find := fakeFinder(map[string]float64{"p-1": 10.0})

	// The unknown line aborts the whole replacement before any write.
	items, total, err := attachProducts("cart-1", []CartItem{
		{ProductID: "p-1", Quantity: 1},
		{ProductID: "ghost", Quantity: 1},
	}, find)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
	assert.Nil(t, items)
	assert.Zero(t, total)
}

func TestAttachProductsEmptyList(t *testing.T) {
	items, total, err := attachProducts("cart-1", nil, fakeFinder(nil))
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, total)
}
