package view

import (
	"fmt"
	"slices"

	"github.com/roach88/stockroom/internal/model"
)

// SortOrder is the direction of a creation-time sort.
type SortOrder string

const (
	Newest SortOrder = "newest"
	Oldest SortOrder = "oldest"
)

// ParseSortOrder validates a sort order name.
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(s) {
	case Newest, Oldest:
		return SortOrder(s), nil
	}
	return "", fmt.Errorf("invalid sort order %q: must be newest or oldest", s)
}

// Toggle returns the opposite order.
func (o SortOrder) Toggle() SortOrder {
	if o == Newest {
		return Oldest
	}
	return Newest
}

// SortByCreated returns a copy of items sorted by creation time.
// Items created at the same instant keep their relative order.
func SortByCreated[T any](items []T, order SortOrder, createdAt func(T) int64) []T {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b T) int {
		if order == Newest {
			return cmpInt64(createdAt(b), createdAt(a))
		}
		return cmpInt64(createdAt(a), createdAt(b))
	})
	return out
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// SortProducts sorts products by creation time.
func SortProducts(products []model.Product, order SortOrder) []model.Product {
	return SortByCreated(products, order, func(p model.Product) int64 { return p.CreatedAt })
}

// SortOrders sorts orders by creation time.
func SortOrders(orders []model.Order, order SortOrder) []model.Order {
	return SortByCreated(orders, order, func(o model.Order) int64 { return o.CreatedAt })
}

// CustomerTotal sums price times quantity over the customer's orders.
func CustomerTotal(c model.Customer) float64 {
	var total float64
	for _, o := range c.Orders {
		total += o.Price * float64(o.Quantity)
	}
	return total
}
