package model

// Product is an item kept in stock.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Quantity    int64   `json:"quantity"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageUrl,omitempty"` // data URI
	CreatedAt   int64   `json:"createdAt"`          // Unix milliseconds
}

// ProductFields is the caller-supplied part of a Product.
type ProductFields struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Quantity    int64   `json:"quantity"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageUrl,omitempty"`
}

// NewProduct builds a Product from fields and store-assigned identity.
func NewProduct(id string, createdAt int64, f ProductFields) Product {
	return Product{
		ID:          id,
		Name:        f.Name,
		Price:       f.Price,
		Quantity:    f.Quantity,
		Description: f.Description,
		ImageURL:    f.ImageURL,
		CreatedAt:   createdAt,
	}
}

// Fields returns the caller-editable part of the product.
func (p Product) Fields() ProductFields {
	return ProductFields{
		Name:        p.Name,
		Price:       p.Price,
		Quantity:    p.Quantity,
		Description: p.Description,
		ImageURL:    p.ImageURL,
	}
}

// Order is a customer order for a product.
//
// PhoneNumber is the key that links the order to its Customer.
type Order struct {
	ID           string      `json:"id"`
	ProductName  string      `json:"productName"`
	Price        float64     `json:"price"`
	Quantity     int64       `json:"quantity"`
	CustomerName string      `json:"customerName"`
	PhoneNumber  string      `json:"phoneNumber"`
	OrderDate    string      `json:"orderDate"` // YYYY-MM-DD
	Status       OrderStatus `json:"status"`
	Description  string      `json:"description,omitempty"`
	ImageURL     string      `json:"imageUrl,omitempty"`
	CreatedAt    int64       `json:"createdAt"`
}

// OrderFields is the caller-supplied part of an Order.
type OrderFields struct {
	ProductName  string      `json:"productName"`
	Price        float64     `json:"price"`
	Quantity     int64       `json:"quantity"`
	CustomerName string      `json:"customerName"`
	PhoneNumber  string      `json:"phoneNumber"`
	OrderDate    string      `json:"orderDate"`
	Status       OrderStatus `json:"status"`
	Description  string      `json:"description,omitempty"`
	ImageURL     string      `json:"imageUrl,omitempty"`
}

// NewOrder builds an Order from fields and store-assigned identity.
func NewOrder(id string, createdAt int64, f OrderFields) Order {
	return Order{
		ID:           id,
		ProductName:  f.ProductName,
		Price:        f.Price,
		Quantity:     f.Quantity,
		CustomerName: f.CustomerName,
		PhoneNumber:  f.PhoneNumber,
		OrderDate:    f.OrderDate,
		Status:       f.Status,
		Description:  f.Description,
		ImageURL:     f.ImageURL,
		CreatedAt:    createdAt,
	}
}

// Fields returns the caller-editable part of the order.
func (o Order) Fields() OrderFields {
	return OrderFields{
		ProductName:  o.ProductName,
		Price:        o.Price,
		Quantity:     o.Quantity,
		CustomerName: o.CustomerName,
		PhoneNumber:  o.PhoneNumber,
		OrderDate:    o.OrderDate,
		Status:       o.Status,
		Description:  o.Description,
		ImageURL:     o.ImageURL,
	}
}

// Customer groups the orders placed under one phone number.
// A Customer exists only while it has at least one order.
type Customer struct {
	PhoneNumber string  `json:"phoneNumber"`
	Orders      []Order `json:"orders"`
}

// IndexOf returns the position of the order with the given ID, or -1.
func (c Customer) IndexOf(orderID string) int {
	for i, o := range c.Orders {
		if o.ID == orderID {
			return i
		}
	}
	return -1
}
