package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/roach88/stockroom/internal/currency"
	"github.com/roach88/stockroom/internal/media"
	"github.com/roach88/stockroom/internal/model"
	"github.com/roach88/stockroom/internal/view"
)

// Payload types below marshal to JSON as-is and render themselves for text
// output through String.

// actionResult reports a mutation that has nothing else to show.
type actionResult struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

func (r actionResult) String() string { return r.Message }

type column[T any] struct {
	header string
	value  func(T) string
}

// listing renders items as a table, or as cards in grid mode.
type listing[T any] struct {
	items   []T
	mode    model.DisplayMode
	columns []column[T]
	card    func(T) string
}

func (l listing[T]) MarshalJSON() ([]byte, error) {
	if l.items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l.items)
}

func (l listing[T]) String() string {
	if len(l.items) == 0 {
		return "(none)"
	}

	var b strings.Builder
	if l.mode == model.DisplayGrid && l.card != nil {
		for i, item := range l.items {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(l.card(item))
		}
		return strings.TrimRight(b.String(), "\n")
	}

	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	headers := make([]string, len(l.columns))
	for i, c := range l.columns {
		headers[i] = c.header
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, item := range l.items {
		cells := make([]string, len(l.columns))
		for i, c := range l.columns {
			cells[i] = c.value(item)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	tw.Flush()
	return strings.TrimRight(b.String(), "\n")
}

func money(v float64) string { return currency.Format(v) }

func createdDate(ms int64) string {
	return time.UnixMilli(ms).Format("2006-01-02 15:04")
}

func imageSummary(uri string) string {
	if uri == "" {
		return "none"
	}
	if mt := media.MediaType(uri); mt != "" {
		return mt
	}
	return "attached"
}

func productListing(products []model.Product, mode model.DisplayMode) listing[model.Product] {
	return listing[model.Product]{
		items: products,
		mode:  mode,
		columns: []column[model.Product]{
			{"ID", func(p model.Product) string { return p.ID }},
			{"NAME", func(p model.Product) string { return p.Name }},
			{"PRICE", func(p model.Product) string { return money(p.Price) }},
			{"QTY", func(p model.Product) string { return strconv.FormatInt(p.Quantity, 10) }},
			{"CREATED", func(p model.Product) string { return createdDate(p.CreatedAt) }},
		},
		card: func(p model.Product) string { return productDetail{p}.String() },
	}
}

type productDetail struct {
	model.Product
}

func (p productDetail) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", p.Name)
	fmt.Fprintf(&b, "  id:       %s\n", p.ID)
	fmt.Fprintf(&b, "  price:    %s\n", money(p.Price))
	fmt.Fprintf(&b, "  quantity: %d\n", p.Quantity)
	if p.Description != "" {
		fmt.Fprintf(&b, "  about:    %s\n", p.Description)
	}
	fmt.Fprintf(&b, "  image:    %s\n", imageSummary(p.ImageURL))
	fmt.Fprintf(&b, "  created:  %s", createdDate(p.CreatedAt))
	return b.String()
}

func orderListing(orders []model.Order, mode model.DisplayMode) listing[model.Order] {
	return listing[model.Order]{
		items: orders,
		mode:  mode,
		columns: []column[model.Order]{
			{"ID", func(o model.Order) string { return o.ID }},
			{"PRODUCT", func(o model.Order) string { return o.ProductName }},
			{"CUSTOMER", func(o model.Order) string { return o.CustomerName }},
			{"PHONE", func(o model.Order) string { return o.PhoneNumber }},
			{"QTY", func(o model.Order) string { return strconv.FormatInt(o.Quantity, 10) }},
			{"PRICE", func(o model.Order) string { return money(o.Price) }},
			{"DATE", func(o model.Order) string { return o.OrderDate }},
			{"STATUS", func(o model.Order) string { return o.Status.Label() }},
		},
		card: func(o model.Order) string { return orderDetail{o}.String() },
	}
}

type orderDetail struct {
	model.Order
}

func (o orderDetail) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s x%d for %s\n", o.ProductName, o.Quantity, o.CustomerName)
	fmt.Fprintf(&b, "  id:      %s\n", o.ID)
	fmt.Fprintf(&b, "  phone:   %s\n", o.PhoneNumber)
	fmt.Fprintf(&b, "  price:   %s\n", money(o.Price))
	fmt.Fprintf(&b, "  date:    %s\n", o.OrderDate)
	fmt.Fprintf(&b, "  status:  %s\n", o.Status.Label())
	if o.Description != "" {
		fmt.Fprintf(&b, "  about:   %s\n", o.Description)
	}
	fmt.Fprintf(&b, "  image:   %s\n", imageSummary(o.ImageURL))
	fmt.Fprintf(&b, "  created: %s", createdDate(o.CreatedAt))
	return b.String()
}

// customerSummary is a customer row with computed totals.
type customerSummary struct {
	PhoneNumber string  `json:"phoneNumber"`
	Name        string  `json:"name"`
	OrderCount  int     `json:"orderCount"`
	Total       float64 `json:"total"`
}

func summarize(c model.Customer) customerSummary {
	sum := customerSummary{
		PhoneNumber: c.PhoneNumber,
		OrderCount:  len(c.Orders),
		Total:       view.CustomerTotal(c),
	}
	if n := len(c.Orders); n > 0 {
		sum.Name = c.Orders[n-1].CustomerName
	}
	return sum
}

func customerListing(customers []model.Customer) listing[customerSummary] {
	rows := make([]customerSummary, len(customers))
	for i, c := range customers {
		rows[i] = summarize(c)
	}
	return listing[customerSummary]{
		items: rows,
		mode:  model.DisplayList,
		columns: []column[customerSummary]{
			{"PHONE", func(c customerSummary) string { return c.PhoneNumber }},
			{"NAME", func(c customerSummary) string { return c.Name }},
			{"ORDERS", func(c customerSummary) string { return strconv.Itoa(c.OrderCount) }},
			{"TOTAL", func(c customerSummary) string { return money(c.Total) }},
		},
	}
}

type customerDetail struct {
	model.Customer
	Total float64 `json:"total"`
}

func (c customerDetail) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d order(s), total %s\n", c.PhoneNumber, len(c.Orders), money(c.Total))
	b.WriteString(orderListing(c.Orders, model.DisplayList).String())
	return b.String()
}

type preferencesView struct {
	model.Preferences
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func (p preferencesView) String() string {
	return fmt.Sprintf("dark mode: %s\nview mode: products=%s orders=%s\nconverter: %s",
		onOff(p.DarkMode), p.ViewMode.Products, p.ViewMode.Orders, onOff(p.ShowConverter))
}
