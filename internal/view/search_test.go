package view

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/stockroom/internal/model"
)

func TestMatchProduct(t *testing.T) {
	p := model.Product{ID: "p1", Name: "Desk Lamp", Price: 12.5, Quantity: 40}

	tests := []struct {
		term string
		want bool
	}{
		{"", true},
		{"lamp", true},
		{"DESK", true},
		{"12.5", true},
		{"2.", true},
		{"40", true},
		{"chair", false},
		{"p1", false},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchProduct(p, tt.term))
		})
	}
}

func TestMatchProduct_FoldsUnicode(t *testing.T) {
	p := model.Product{Name: "Лампа настольная"}

	assert.True(t, MatchProduct(p, "ЛАМПА"))
	assert.True(t, MatchProduct(model.Product{Name: "Straße"}, "STRASSE"))
	// Decomposed é matches precomposed é.
	assert.True(t, MatchProduct(model.Product{Name: "Cafe\u0301"}, "CAFÉ"))
}

func TestMatchOrder(t *testing.T) {
	o := model.Order{
		ID:           "0190-abc",
		ProductName:  "Lamp",
		CustomerName: "Ann",
		PhoneNumber:  "+7 701 000",
		Price:        500,
		Quantity:     3,
	}

	tests := []struct {
		term string
		want bool
	}{
		{"", true},
		{"LAMP", true},
		{"ann", true},
		{"abc", true},
		{"ABC", false},
		{"701", true},
		{"500", true},
		{"3", false},
		{"Bob", false},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchOrder(o, tt.term))
		})
	}
}

func TestSearchCustomers(t *testing.T) {
	customers := []model.Customer{
		{PhoneNumber: "+1000"},
		{PhoneNumber: "+2000"},
		{PhoneNumber: "+1001"},
	}

	got := SearchCustomers(customers, "+100")
	assert.Equal(t, []model.Customer{customers[0], customers[2]}, got)
	assert.Equal(t, customers, SearchCustomers(customers, ""))
	assert.Empty(t, SearchCustomers(customers, "999"))
}

func TestSearchProducts_KeepsOrder(t *testing.T) {
	products := []model.Product{{Name: "b lamp"}, {Name: "chair"}, {Name: "a lamp"}}

	got := SearchProducts(products, "lamp")
	assert.Equal(t, []model.Product{products[0], products[2]}, got)
}

func TestSearchOrders_EmptyInput(t *testing.T) {
	got := SearchOrders(nil, "x")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
