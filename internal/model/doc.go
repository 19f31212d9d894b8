// Package model defines the entities of the stockroom inventory: products,
// customer orders and the customer index derived from orders.
//
// This package contains type definitions only. All other internal packages
// import model; model imports nothing internal.
//
// Key design constraints:
//   - JSON field names are camelCase and match the persisted layout
//   - CreatedAt is Unix milliseconds, assigned by the store and never changed
//   - Customer holds copies of its orders, not references
package model
