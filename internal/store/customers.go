package store

import (
	"sort"

	"github.com/roach88/stockroom/internal/model"
)

// deriveCustomers groups the visible orders by phone number.
// A customer keeps the position of its phone's earliest order, hidden or
// not, so hiding orders never moves a remaining customer. Customers without
// visible orders are left out and each customer's orders keep insertion
// order.
func deriveCustomers(orders []model.Order, hidden map[string]struct{}) []model.Customer {
	pos := make(map[string]int)
	var phones []string
	for _, o := range orders {
		if _, ok := pos[o.PhoneNumber]; !ok {
			pos[o.PhoneNumber] = len(phones)
			phones = append(phones, o.PhoneNumber)
		}
	}

	groups := make([][]model.Order, len(phones))
	for _, o := range orders {
		if _, ok := hidden[o.ID]; ok {
			continue
		}
		i := pos[o.PhoneNumber]
		groups[i] = append(groups[i], o)
	}

	customers := make([]model.Customer, 0, len(phones))
	for i, phone := range phones {
		if len(groups[i]) == 0 {
			continue
		}
		customers = append(customers, model.Customer{PhoneNumber: phone, Orders: groups[i]})
	}
	return customers
}

// hiddenFromLegacy reconstructs the hidden set from a materialized customer
// list: every order that no customer lists is hidden.
func hiddenFromLegacy(orders []model.Order, customers []model.Customer) map[string]struct{} {
	listed := make(map[string]struct{})
	for _, c := range customers {
		for _, o := range c.Orders {
			listed[o.ID] = struct{}{}
		}
	}
	hidden := make(map[string]struct{})
	for _, o := range orders {
		if _, ok := listed[o.ID]; !ok {
			hidden[o.ID] = struct{}{}
		}
	}
	return hidden
}

// with returns a copy of set that also contains ids.
func with(set map[string]struct{}, ids ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(set)+len(ids))
	for id := range set {
		out[id] = struct{}{}
	}
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}

// without returns set minus id. The original set is returned unchanged when
// it does not contain id.
func without(set map[string]struct{}, id string) map[string]struct{} {
	if _, ok := set[id]; !ok {
		return set
	}
	out := make(map[string]struct{}, len(set))
	for k := range set {
		if k != id {
			out[k] = struct{}{}
		}
	}
	return out
}

// sortedIDs returns the members of set in binary order.
func sortedIDs(set map[string]struct{}) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// legacyAddOrder appends o to the customer with its phone number, or adds a
// new customer at the end.
func legacyAddOrder(customers []model.Customer, o model.Order) []model.Customer {
	out := make([]model.Customer, 0, len(customers)+1)
	found := false
	for _, c := range customers {
		if c.PhoneNumber == o.PhoneNumber {
			c.Orders = appendCopy(c.Orders, o)
			found = true
		}
		out = append(out, c)
	}
	if !found {
		out = append(out, model.Customer{PhoneNumber: o.PhoneNumber, Orders: []model.Order{o}})
	}
	return out
}

// legacyMapOrder replaces every customer copy of the order with fn(copy).
// The copy stays under the customer that holds it even if the phone number
// changed.
func legacyMapOrder(customers []model.Customer, id string, fn func(model.Order) model.Order) []model.Customer {
	out := make([]model.Customer, len(customers))
	for i, c := range customers {
		if idx := c.IndexOf(id); idx >= 0 {
			c.Orders = mapOrders(c.Orders, id, fn)
		}
		out[i] = c
	}
	return out
}

// legacyRemoveCustomerOrder drops one order from a customer and removes every
// customer left without orders.
func legacyRemoveCustomerOrder(customers []model.Customer, phone, orderID string) []model.Customer {
	out := make([]model.Customer, 0, len(customers))
	for _, c := range customers {
		if c.PhoneNumber == phone {
			c.Orders = filter(c.Orders, func(o model.Order) bool { return o.ID != orderID })
		}
		if len(c.Orders) > 0 {
			out = append(out, c)
		}
	}
	return out
}
