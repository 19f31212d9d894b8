package store

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/roach88/stockroom/internal/kv"
	"github.com/roach88/stockroom/internal/model"
	"github.com/roach88/stockroom/internal/notify"
)

// IndexMode selects how the customer index is maintained.
type IndexMode string

const (
	// IndexDerived computes customers from orders.
	IndexDerived IndexMode = "derived"
	// IndexLegacy keeps a materialized copy of customer orders.
	IndexLegacy IndexMode = "legacy"
)

// ParseIndexMode validates an index mode name.
func ParseIndexMode(s string) (IndexMode, error) {
	switch IndexMode(s) {
	case IndexDerived, IndexLegacy:
		return IndexMode(s), nil
	}
	return "", fmt.Errorf("invalid customer index mode %q: must be derived or legacy", s)
}

// state is one immutable generation of the store contents.
// Slices and the hidden set are never modified after a state is published.
type state struct {
	products  []model.Product
	orders    []model.Order
	customers []model.Customer
	hidden    map[string]struct{} // order IDs hidden from the derived index
	prefs     model.Preferences
}

// Store holds products, orders and customers for one application session.
//
// Thread-safety: all methods are safe for concurrent use. Operations are
// serialized by an internal mutex and run to completion, including the
// write to the backing.
type Store struct {
	mu       sync.Mutex
	st       state
	backing  kv.Backing
	ids      IDGenerator
	clock    Clock
	notifier notify.Notifier
	logger   *slog.Logger
	mode     IndexMode
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator overrides the UUIDv7 ID generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Store) { s.ids = g }
}

// WithClock overrides the wall clock used for CreatedAt.
func WithClock(c Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithNotifier sets the receiver of success notifications.
func WithNotifier(n notify.Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

// WithLogger sets the logger. Defaults to discarding output.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithIndexMode selects the customer index mode. Defaults to IndexDerived.
func WithIndexMode(m IndexMode) Option {
	return func(s *Store) { s.mode = m }
}

// New creates a store and restores its state from backing.
// Only a failure to read the backing is returned; unreadable records are
// replaced by defaults.
func New(ctx context.Context, backing kv.Backing, opts ...Option) (*Store, error) {
	s := &Store{
		backing:  backing,
		ids:      UUIDv7Generator{},
		clock:    SystemClock{},
		notifier: notify.Discard{},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		mode:     IndexDerived,
	}
	for _, opt := range opts {
		opt(s)
	}

	st, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	s.st = st

	s.logger.Debug("store loaded",
		"products", len(st.products),
		"orders", len(st.orders),
		"customers", len(st.customers),
		"index_mode", s.mode,
	)
	return s, nil
}

// Mode returns the customer index mode.
func (s *Store) Mode() IndexMode {
	return s.mode
}

// Products returns all products in insertion order.
// The returned slice must not be modified.
func (s *Store) Products() []model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.products
}

// Orders returns all orders in insertion order.
// The returned slice must not be modified.
func (s *Store) Orders() []model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.orders
}

// Customers returns the customer index.
// The returned slice must not be modified.
func (s *Store) Customers() []model.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.customers
}

// Preferences returns the persisted view settings.
func (s *Store) Preferences() model.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.prefs
}

// Product returns the product with the given ID.
func (s *Store) Product(id string) (model.Product, bool) {
	for _, p := range s.Products() {
		if p.ID == id {
			return p, true
		}
	}
	return model.Product{}, false
}

// Order returns the order with the given ID.
func (s *Store) Order(id string) (model.Order, bool) {
	for _, o := range s.Orders() {
		if o.ID == id {
			return o, true
		}
	}
	return model.Order{}, false
}

// Customer returns the customer with the given phone number.
func (s *Store) Customer(phone string) (model.Customer, bool) {
	for _, c := range s.Customers() {
		if c.PhoneNumber == phone {
			return c, true
		}
	}
	return model.Customer{}, false
}

// AddProduct assigns an ID and creation time and appends the product.
func (s *Store) AddProduct(ctx context.Context, f model.ProductFields) (model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := model.NewProduct(s.ids.Generate(), s.clock.Now().UnixMilli(), f)

	next := s.st
	next.products = appendCopy(s.st.products, p)
	if err := s.commit(ctx, "add_product", next, KeyProducts); err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// UpdateProduct replaces the product with the same ID.
// CreatedAt is kept from the stored product. Unknown IDs are ignored.
func (s *Store) UpdateProduct(ctx context.Context, p model.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.st
	next.products = mapProducts(s.st.products, p.ID, func(old model.Product) model.Product {
		p.CreatedAt = old.CreatedAt
		return p
	})
	return s.commit(ctx, "update_product", next, KeyProducts)
}

// DeleteProduct removes the product with the given ID, if present.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.st
	next.products = filter(s.st.products, func(p model.Product) bool { return p.ID != id })
	return s.commit(ctx, "delete_product", next, KeyProducts)
}

// UpdateProductQuantity sets the stock quantity of one product.
func (s *Store) UpdateProductQuantity(ctx context.Context, id string, quantity int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.st
	next.products = mapProducts(s.st.products, id, func(p model.Product) model.Product {
		p.Quantity = quantity
		return p
	})
	return s.commit(ctx, "update_product_quantity", next, KeyProducts)
}

// AddOrder assigns an ID and creation time, appends the order and records it
// under the customer with the same phone number, creating the customer if
// needed.
func (s *Store) AddOrder(ctx context.Context, f model.OrderFields) (model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o := model.NewOrder(s.ids.Generate(), s.clock.Now().UnixMilli(), f)

	next := s.st
	next.orders = appendCopy(s.st.orders, o)
	if s.mode == IndexLegacy {
		next.customers = legacyAddOrder(s.st.customers, o)
	} else {
		next.customers = deriveCustomers(next.orders, next.hidden)
	}
	if err := s.commit(ctx, "add_order", next, s.orderKeys()...); err != nil {
		return model.Order{}, err
	}
	return o, nil
}

// UpdateOrder replaces the order with the same ID and mirrors the change into
// the customer index. CreatedAt is kept from the stored order.
func (s *Store) UpdateOrder(ctx context.Context, o model.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, old := range s.st.orders {
		if old.ID == o.ID {
			o.CreatedAt = old.CreatedAt
			break
		}
	}

	next := s.st
	next.orders = mapOrders(s.st.orders, o.ID, func(model.Order) model.Order { return o })
	if s.mode == IndexLegacy {
		next.customers = legacyMapOrder(s.st.customers, o.ID, func(model.Order) model.Order { return o })
	} else {
		next.customers = deriveCustomers(next.orders, next.hidden)
	}
	return s.commit(ctx, "update_order", next, s.orderKeys()...)
}

// DeleteOrder removes the order with the given ID from the orders collection.
// In IndexLegacy mode the customer's copy of the order is left in place.
func (s *Store) DeleteOrder(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.st
	next.orders = filter(s.st.orders, func(o model.Order) bool { return o.ID != id })
	if s.mode == IndexDerived {
		next.hidden = without(s.st.hidden, id)
		next.customers = deriveCustomers(next.orders, next.hidden)
	}
	return s.commit(ctx, "delete_order", next, s.orderKeys()...)
}

// UpdateOrderStatus sets the status of one order and of its customer copy.
func (s *Store) UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	setStatus := func(o model.Order) model.Order {
		o.Status = status
		return o
	}

	next := s.st
	next.orders = mapOrders(s.st.orders, id, setStatus)
	if s.mode == IndexLegacy {
		next.customers = legacyMapOrder(s.st.customers, id, setStatus)
	} else {
		next.customers = deriveCustomers(next.orders, next.hidden)
	}
	return s.commit(ctx, "update_order_status", next, s.orderKeys()...)
}

// DeleteCustomer removes the customer with the given phone number.
// Orders are not touched.
func (s *Store) DeleteCustomer(ctx context.Context, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.st
	if s.mode == IndexLegacy {
		next.customers = filter(s.st.customers, func(c model.Customer) bool { return c.PhoneNumber != phone })
	} else {
		var ids []string
		for _, c := range s.st.customers {
			if c.PhoneNumber != phone {
				continue
			}
			for _, o := range c.Orders {
				ids = append(ids, o.ID)
			}
		}
		next.hidden = with(s.st.hidden, ids...)
		next.customers = deriveCustomers(next.orders, next.hidden)
	}
	return s.commit(ctx, "delete_customer", next, s.customerKeys()...)
}

// DeleteCustomerOrder removes one order from a customer's list without
// touching the orders collection. A customer left without orders is removed.
func (s *Store) DeleteCustomerOrder(ctx context.Context, phone, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.st
	if s.mode == IndexLegacy {
		next.customers = legacyRemoveCustomerOrder(s.st.customers, phone, orderID)
	} else {
		for _, c := range s.st.customers {
			if c.PhoneNumber == phone && c.IndexOf(orderID) >= 0 {
				next.hidden = with(s.st.hidden, orderID)
				break
			}
		}
		next.customers = deriveCustomers(next.orders, next.hidden)
	}
	return s.commit(ctx, "delete_customer_order", next, s.customerKeys()...)
}

// ToggleDarkMode flips the dark mode preference and returns the new value.
func (s *Store) ToggleDarkMode(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.st
	next.prefs.DarkMode = !s.st.prefs.DarkMode
	if err := s.save(ctx, "toggle_dark_mode", next, KeyDarkMode); err != nil {
		return s.st.prefs.DarkMode, err
	}
	return next.prefs.DarkMode, nil
}

// SetViewMode sets the display mode of one section.
func (s *Store) SetViewMode(ctx context.Context, section model.Section, mode model.DisplayMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.st
	next.prefs.ViewMode = s.st.prefs.ViewMode.With(section, mode)
	return s.save(ctx, "set_view_mode", next, KeyViewMode)
}

// ToggleConverter flips the currency converter preference and returns the
// new value.
func (s *Store) ToggleConverter(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.st
	next.prefs.ShowConverter = !s.st.prefs.ShowConverter
	if err := s.save(ctx, "toggle_converter", next, KeyShowConverter); err != nil {
		return s.st.prefs.ShowConverter, err
	}
	return next.prefs.ShowConverter, nil
}

// orderKeys lists the keys rewritten by order mutations.
func (s *Store) orderKeys() []string {
	return append([]string{KeyOrders}, s.customerKeys()...)
}

// customerKeys lists the keys rewritten by customer index mutations.
func (s *Store) customerKeys() []string {
	if s.mode == IndexLegacy {
		return []string{KeyCustomers}
	}
	return []string{KeyCustomers, KeyCustomerHidden}
}

// commit persists next, publishes it and emits the success notification.
// Callers must hold s.mu.
func (s *Store) commit(ctx context.Context, op string, next state, keys ...string) error {
	if err := s.save(ctx, op, next, keys...); err != nil {
		return err
	}
	s.notifier.Notify(notify.SuccessMessage)
	return nil
}

// save persists the given keys of next and publishes it.
// Callers must hold s.mu.
func (s *Store) save(ctx context.Context, op string, next state, keys ...string) error {
	entries, err := encodeKeys(next, keys)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.backing.SetMany(ctx, entries); err != nil {
		s.logger.Error("persist failed", "op", op, "error", err)
		return fmt.Errorf("%s: %w", op, err)
	}
	s.st = next
	s.logger.Debug("store mutation", "op", op, "keys", keys)
	return nil
}

func appendCopy[T any](items []T, item T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, items...)
	return append(out, item)
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

func mapProducts(items []model.Product, id string, fn func(model.Product) model.Product) []model.Product {
	out := make([]model.Product, len(items))
	for i, p := range items {
		if p.ID == id {
			p = fn(p)
		}
		out[i] = p
	}
	return out
}

func mapOrders(items []model.Order, id string, fn func(model.Order) model.Order) []model.Order {
	out := make([]model.Order, len(items))
	for i, o := range items {
		if o.ID == id {
			o = fn(o)
		}
		out[i] = o
	}
	return out
}
