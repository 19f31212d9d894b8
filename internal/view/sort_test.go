package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/stockroom/internal/model"
)

func TestSortProducts(t *testing.T) {
	products := []model.Product{
		{ID: "a", CreatedAt: 2},
		{ID: "b", CreatedAt: 1},
		{ID: "c", CreatedAt: 3},
		{ID: "d", CreatedAt: 2},
	}

	ids := func(ps []model.Product) []string {
		var out []string
		for _, p := range ps {
			out = append(out, p.ID)
		}
		return out
	}

	assert.Equal(t, []string{"c", "a", "d", "b"}, ids(SortProducts(products, Newest)))
	assert.Equal(t, []string{"b", "a", "d", "c"}, ids(SortProducts(products, Oldest)))
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(products), "input is not modified")
}

func TestSortOrders(t *testing.T) {
	orders := []model.Order{{ID: "x", CreatedAt: 10}, {ID: "y", CreatedAt: 20}}

	got := SortOrders(orders, Newest)
	require.Len(t, got, 2)
	assert.Equal(t, "y", got[0].ID)
}

func TestParseSortOrder(t *testing.T) {
	o, err := ParseSortOrder("oldest")
	require.NoError(t, err)
	assert.Equal(t, Oldest, o)
	assert.Equal(t, Newest, o.Toggle())

	_, err = ParseSortOrder("random")
	assert.Error(t, err)
}

func TestCustomerTotal(t *testing.T) {
	c := model.Customer{Orders: []model.Order{
		{Price: 500, Quantity: 2},
		{Price: 12.5, Quantity: 4},
	}}
	assert.Equal(t, 1050.0, CustomerTotal(c))
	assert.Equal(t, 0.0, CustomerTotal(model.Customer{}))
}
