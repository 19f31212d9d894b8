package view

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/stockroom/internal/model"
)

// fold prepares s for case-insensitive comparison.
func fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}

// containsFold reports whether term occurs in s ignoring case.
func containsFold(s, term string) bool {
	return strings.Contains(fold(s), fold(term))
}

// formatNumber renders a number the way it is shown to the user, so a
// search for "12.5" matches a price of 12.5 and "500" matches 500.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// MatchProduct reports whether p matches a search term: the name contains it
// ignoring case, or the price or quantity contains it as text.
// An empty term matches everything.
func MatchProduct(p model.Product, term string) bool {
	if term == "" {
		return true
	}
	return containsFold(p.Name, term) ||
		strings.Contains(formatNumber(p.Price), term) ||
		strings.Contains(strconv.FormatInt(p.Quantity, 10), term)
}

// MatchOrder reports whether o matches a search term: product or customer
// name ignoring case, or the ID, phone number or price as text.
func MatchOrder(o model.Order, term string) bool {
	if term == "" {
		return true
	}
	return containsFold(o.ProductName, term) ||
		containsFold(o.CustomerName, term) ||
		strings.Contains(o.ID, term) ||
		strings.Contains(o.PhoneNumber, term) ||
		strings.Contains(formatNumber(o.Price), term)
}

// MatchCustomer reports whether the customer's phone number contains term.
func MatchCustomer(c model.Customer, term string) bool {
	return strings.Contains(c.PhoneNumber, term)
}

// Filter returns the items accepted by match, in their original order.
func Filter[T any](items []T, term string, match func(T, string) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if match(it, term) {
			out = append(out, it)
		}
	}
	return out
}

// SearchProducts filters products by term.
func SearchProducts(products []model.Product, term string) []model.Product {
	return Filter(products, term, MatchProduct)
}

// SearchOrders filters orders by term.
func SearchOrders(orders []model.Order, term string) []model.Order {
	return Filter(orders, term, MatchOrder)
}

// SearchCustomers filters customers by phone number.
func SearchCustomers(customers []model.Customer, term string) []model.Customer {
	return Filter(customers, term, MatchCustomer)
}
