package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/roach88/stockroom/internal/model"
)

// Persisted keys. The names match the local storage keys of the
// browser client so exported data stays interchangeable.
const (
	KeyProducts       = "inventory-products"
	KeyOrders         = "inventory-orders"
	KeyCustomers      = "inventory-customers"
	KeyCustomerHidden = "inventory-customer-hidden"
	KeyDarkMode       = "inventory-dark-mode"
	KeyViewMode       = "inventory-view-mode"
	KeyShowConverter  = "inventory-show-converter"
)

// Document is the complete persisted state, used for export and import.
type Document struct {
	Products       []model.Product    `json:"products"`
	Orders         []model.Order      `json:"orders"`
	Customers      []model.Customer   `json:"customers"`
	CustomerHidden []string           `json:"customerHidden,omitempty"`
	Preferences    *model.Preferences `json:"preferences,omitempty"`
}

// load restores state from the backing.
func (s *Store) load(ctx context.Context) (state, error) {
	st := state{
		products: []model.Product{},
		orders:   []model.Order{},
		prefs:    model.DefaultPreferences(),
	}

	if _, err := readList(ctx, s, KeyProducts, &st.products); err != nil {
		return state{}, err
	}
	if _, err := readList(ctx, s, KeyOrders, &st.orders); err != nil {
		return state{}, err
	}

	var customers []model.Customer
	hasCustomers, err := readList(ctx, s, KeyCustomers, &customers)
	if err != nil {
		return state{}, err
	}
	var hidden []string
	hasHidden, err := readKey(ctx, s, KeyCustomerHidden, &hidden)
	if err != nil {
		return state{}, err
	}
	if s.mode == IndexLegacy && hasHidden {
		// The legacy index never updates the hidden set, so a later switch
		// back to the derived index must rebuild it from the customers.
		if err := s.backing.Delete(ctx, KeyCustomerHidden); err != nil {
			s.logger.Warn("failed to drop hidden customer orders", "key", KeyCustomerHidden, "error", err)
		}
		hasHidden = false
	}

	if _, err := readKey(ctx, s, KeyDarkMode, &st.prefs.DarkMode); err != nil {
		return state{}, err
	}
	if _, err := readKey(ctx, s, KeyViewMode, &st.prefs.ViewMode); err != nil {
		return state{}, err
	}
	if _, err := readKey(ctx, s, KeyShowConverter, &st.prefs.ShowConverter); err != nil {
		return state{}, err
	}

	st.prefs.ViewMode = validViewMode(st.prefs.ViewMode)
	if st.products == nil {
		st.products = []model.Product{}
	}
	if st.orders == nil {
		st.orders = []model.Order{}
	}

	s.resolveIndex(&st, customers, hasCustomers, hidden, hasHidden)
	return st, nil
}

// validViewMode replaces unknown display modes with their defaults.
func validViewMode(v model.ViewMode) model.ViewMode {
	def := model.DefaultPreferences().ViewMode
	if _, err := model.ParseDisplayMode(string(v.Products)); err != nil {
		v.Products = def.Products
	}
	if _, err := model.ParseDisplayMode(string(v.Orders)); err != nil {
		v.Orders = def.Orders
	}
	return v
}

// resolveIndex fills the customer fields of st for the store's index mode.
func (s *Store) resolveIndex(st *state, customers []model.Customer, hasCustomers bool, hidden []string, hasHidden bool) {
	if s.mode == IndexLegacy {
		st.customers = customers
		if st.customers == nil {
			st.customers = []model.Customer{}
		}
		return
	}

	switch {
	case hasHidden:
		st.hidden = make(map[string]struct{}, len(hidden))
		for _, id := range hidden {
			st.hidden[id] = struct{}{}
		}
	case hasCustomers:
		// Data written by the legacy index: orders that no customer lists
		// were removed from the index and stay hidden.
		st.hidden = hiddenFromLegacy(st.orders, customers)
		s.logger.Info("customer index rebuilt from materialized customers", "hidden", len(st.hidden))
	default:
		st.hidden = map[string]struct{}{}
	}
	st.customers = deriveCustomers(st.orders, st.hidden)
}

// readKey decodes the JSON record at key into dst.
// Absent and corrupt records leave dst untouched and report false; only a
// backing failure is returned as an error.
func readKey[T any](ctx context.Context, s *Store, key string, dst *T) (bool, error) {
	raw, ok, err := s.backing.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		s.logger.Warn("ignoring corrupt record", "key", key, "error", err)
		return false, nil
	}
	*dst = v
	return true, nil
}

// readList decodes the JSON array at key one element at a time.
// Elements that do not decode are skipped with a warning so that one bad
// entry does not cost the rest of the record. A record that is not an array,
// or is null, is treated as absent and reports false.
func readList[T any](ctx context.Context, s *Store, key string, dst *[]T) (bool, error) {
	var raw []json.RawMessage
	ok, err := readKey(ctx, s, key, &raw)
	if err != nil || !ok || raw == nil {
		return false, err
	}

	out := make([]T, 0, len(raw))
	for i, elem := range raw {
		var v T
		if err := json.Unmarshal(elem, &v); err != nil {
			s.logger.Warn("skipping corrupt entry", "key", key, "index", i, "error", err)
			continue
		}
		out = append(out, v)
	}
	*dst = out
	return true, nil
}

// encodeKeys serializes the requested keys of st.
func encodeKeys(st state, keys []string) (map[string]string, error) {
	entries := make(map[string]string, len(keys))
	for _, key := range keys {
		var v any
		switch key {
		case KeyProducts:
			v = st.products
		case KeyOrders:
			v = st.orders
		case KeyCustomers:
			v = st.customers
		case KeyCustomerHidden:
			v = sortedIDs(st.hidden)
		case KeyDarkMode:
			v = st.prefs.DarkMode
		case KeyViewMode:
			v = st.prefs.ViewMode
		case KeyShowConverter:
			v = st.prefs.ShowConverter
		default:
			return nil, fmt.Errorf("unknown key %q", key)
		}
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", key, err)
		}
		entries[key] = string(data)
	}
	return entries, nil
}

// allKeys lists every key the store writes in its index mode.
func (s *Store) allKeys() []string {
	keys := []string{KeyProducts, KeyOrders, KeyCustomers, KeyDarkMode, KeyViewMode, KeyShowConverter}
	if s.mode == IndexDerived {
		keys = append(keys, KeyCustomerHidden)
	}
	return keys
}

// Export returns the complete state.
func (s *Store) Export() Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefs := s.st.prefs
	doc := Document{
		Products:    s.st.products,
		Orders:      s.st.orders,
		Customers:   s.st.customers,
		Preferences: &prefs,
	}
	if s.mode == IndexDerived && len(s.st.hidden) > 0 {
		doc.CustomerHidden = sortedIDs(s.st.hidden)
	}
	return doc
}

// Import replaces the complete state with doc and persists it.
// Preferences are kept when doc has none. In IndexDerived mode the customers
// of doc are only used to work out which orders are hidden when doc carries
// no hidden list.
func (s *Store) Import(ctx context.Context, doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := state{
		products: doc.Products,
		orders:   doc.Orders,
		prefs:    s.st.prefs,
	}
	if doc.Preferences != nil {
		next.prefs = *doc.Preferences
	}
	if next.products == nil {
		next.products = []model.Product{}
	}
	if next.orders == nil {
		next.orders = []model.Order{}
	}
	next.prefs.ViewMode = validViewMode(next.prefs.ViewMode)
	s.resolveIndex(&next, doc.Customers, doc.Customers != nil, doc.CustomerHidden, doc.CustomerHidden != nil)

	return s.commit(ctx, "import", next, s.allKeys()...)
}
