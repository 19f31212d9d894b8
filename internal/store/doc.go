// Package store is the entity store of stockroom: the single authoritative
// holder of products, orders and the customer index.
//
// The view layer (the CLI) only calls the operations exposed here and reads
// the snapshots returned by Products, Orders and Customers. Every mutation
// replaces the affected collection wholesale, so a snapshot handed out before
// a mutation never changes under its reader.
//
// # Persistence
//
// State is loaded from a kv.Backing when the store is created and every
// mutation writes the keys it touched in one SetMany call. If the write fails
// the in-memory state is left as it was. Missing or unreadable records fall
// back to empty collections or default preferences.
//
// # Customer index
//
// Customers are keyed by phone number and derived from orders. Two modes
// exist:
//
//   - IndexDerived computes customers from orders on every order mutation.
//     DeleteCustomer and DeleteCustomerOrder hide orders from the index
//     instead of storing a second copy, so deleting an order or moving it to
//     another phone number is reflected immediately.
//   - IndexLegacy keeps a materialized copy of each customer's orders, updated
//     the way the browser client did. DeleteOrder leaves the copy in
//     place and UpdateOrder never moves an order between customers.
//
// # Session scope
//
// A store is attached to a context with WithSession and retrieved with
// FromContext. Reading the store from a context that has none is a
// programming error reported as ErrNoSession.
package store
